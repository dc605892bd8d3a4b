package repositories

import (
	"errors"
	"strings"
)

var (
	// ErrReferenced is returned when a row cannot be deleted because other
	// records still point at it.
	ErrReferenced = errors.New("record is still referenced")
	ErrDuplicate  = errors.New("record already exists")
)

// likeEscaper escapes LIKE wildcards with '!', which needs no quoting in
// either MySQL or SQLite string literals. Queries pair it with ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"
}
