package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("creates the file and parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "results.db")
		db, err := Open(context.Background(), path)
		require.NoError(t, err)
		defer db.Close()

		assert.FileExists(t, path)
		assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	})

	t.Run("in memory", func(t *testing.T) {
		db, err := Open(context.Background(), ":memory:")
		require.NoError(t, err)
		defer db.Close()

		var one int
		require.NoError(t, db.Get(&one, "SELECT 1"))
		assert.Equal(t, 1, one)
	})
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{sql.ErrConnDone, true},
		{fmt.Errorf("insert: %w", sql.ErrConnDone), true},
		{context.DeadlineExceeded, true},
		{errors.New("database is locked"), true},
		{errors.New("unable to open database file: no such file or directory"), true},
		{errors.New("sql: database is closed"), true},
		{errors.New("no such table: test_results"), false},
		{errors.New("NOT NULL constraint failed: test_results.test_name"), false},
	}
	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConnectionError(tt.err))
		})
	}
}
