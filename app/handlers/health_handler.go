package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/unrolled/render"
	"gorm.io/gorm"
)

// Healthz reports whether the database answers a ping.
func Healthz(r *render.Render, db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			_ = r.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		_ = r.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
