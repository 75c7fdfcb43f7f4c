package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// IsConnectionError reports whether err means the database file could not
// be reached, as opposed to a bad statement.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "database is closed"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "unable to open database file"),
		strings.Contains(msg, "disk i/o error"),
		strings.Contains(msg, "readonly database"),
		strings.Contains(msg, "bad connection"):
		return true
	}
	return false
}
