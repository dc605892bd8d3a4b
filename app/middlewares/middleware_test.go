package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rakhulsr/mini-pos/app/helpers"
	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/utils/metrics"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unrolled/render"
)

type fakeSessions struct {
	userID  string
	cleared bool
}

func (f *fakeSessions) GetUserID(*http.Request) string { return f.userID }

func (f *fakeSessions) SetUserID(_ http.ResponseWriter, _ *http.Request, id string) error {
	f.userID = id
	return nil
}

func (f *fakeSessions) ClearSession(http.ResponseWriter, *http.Request) error {
	f.userID = ""
	f.cleared = true
	return nil
}

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) Create(context.Context, *models.User) error { return nil }

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUsers) FindByUsername(context.Context, string) (*models.User, error) { return nil, nil }

func (f *fakeUsers) UpdatePassword(context.Context, string, string) error { return nil }

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte(helpers.Actor(r)))
})

func TestAPIKeyMiddleware(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := APIKeyMiddleware("secret", render.New(), log)(okHandler)

	cases := []struct {
		name   string
		key    string
		status int
	}{
		{"missing", "", http.StatusForbidden},
		{"wrong", "secreT", http.StatusForbidden},
		{"prefix", "secretX", http.StatusForbidden},
		{"valid", "secret", http.StatusTeapot},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
			if tc.key != "" {
				req.Header.Set(APIKeyHeader, tc.key)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"Forbidden"}`, rec.Body.String())
			}
		})
	}
	assert.Len(t, hook.AllEntries(), 3)
}

func TestAPIKeyMiddlewareRejectsEmptyConfiguredKey(t *testing.T) {
	log, _ := test.NewNullLogger()
	h := APIKeyMiddleware("", render.New(), log)(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	log, _ := test.NewNullLogger()
	users := &fakeUsers{users: map[string]*models.User{"u1": {ID: "u1", Username: "kasir"}}}

	chain := func(store *fakeSessions) http.Handler {
		return OptionalUserMiddleware(users, store, log)(AuthMiddleware(store, log)(okHandler))
	}

	t.Run("no session redirects to login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		chain(&fakeSessions{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login?status=error"))
	})

	t.Run("valid session reaches the handler", func(t *testing.T) {
		rec := httptest.NewRecorder()
		chain(&fakeSessions{userID: "u1"}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "kasir", rec.Body.String())
	})

	t.Run("stale session is cleared", func(t *testing.T) {
		store := &fakeSessions{userID: "gone"}
		rec := httptest.NewRecorder()
		chain(store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.True(t, store.cleared)
	})
}

func TestRequestLoggerMiddleware(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := RequestLoggerMiddleware(log)(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/create", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "/orders/create", entry.Data["path"])
	assert.Equal(t, "POST", entry.Data["method"])
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New(nil)
	router := mux.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.Handle("/orders/{id}", okHandler)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "418")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPRequestDuration))
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeadersMiddleware(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
