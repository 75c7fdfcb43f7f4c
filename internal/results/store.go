// Package results persists one row per booking run in a local SQLite file.
// Rows are only ever appended.
package results

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/avtest-qa/booking-e2e/internal/database"
)

// Result is the outcome of a run.
type Result string

const (
	Pass Result = "PASS"
	Fail Result = "FAIL"
)

// TimestampLayout is how run times are stored, in local time.
const TimestampLayout = "2006-01-02 15:04:05"

const schema = `CREATE TABLE IF NOT EXISTS test_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	test_name TEXT NOT NULL,
	result TEXT NOT NULL,
	timestamp TEXT,
	duration REAL,
	origin TEXT
)`

const (
	insertSQL = `INSERT INTO test_results (test_name, result, timestamp, duration, origin)
VALUES (:test_name, :result, :timestamp, :duration, :origin)`
	selectAllSQL = `SELECT id, test_name, result, timestamp, duration, origin FROM test_results ORDER BY id`
	countSQL     = `SELECT COUNT(*) FROM test_results`
)

// TestOutcome is one recorded run.
type TestOutcome struct {
	ID       int64
	TestName string
	Result   Result
	// Duration is the wall time of the run in seconds.
	Duration  float64
	Origin    string
	Timestamp time.Time
}

type row struct {
	ID        int64           `db:"id"`
	TestName  string          `db:"test_name"`
	Result    string          `db:"result"`
	Timestamp sql.NullString  `db:"timestamp"`
	Duration  sql.NullFloat64 `db:"duration"`
	Origin    sql.NullString  `db:"origin"`
}

// Store is safe for concurrent use; writes are serialised by the single
// connection of the pool.
type Store struct {
	db  *sqlx.DB
	log zerolog.Logger
	now func() time.Time
}

// Open opens the database at path and makes sure the table exists.
func Open(ctx context.Context, path string, log zerolog.Logger) (*Store, error) {
	db, err := database.Open(ctx, path)
	if err != nil {
		return nil, &PersistenceError{Op: "open", Err: err}
	}
	s := NewStore(db, log)
	if err := s.Initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Str("path", path).Msg("result store ready")
	return s, nil
}

// NewStore wraps an open connection.
func NewStore(db *sqlx.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log, now: time.Now}
}

// Initialize creates the results table if it does not exist. It is safe to
// call any number of times.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return &PersistenceError{Op: "initialize", Err: err}
	}
	return nil
}

// Record appends o. A zero Timestamp is set to the current time.
func (s *Store) Record(ctx context.Context, o TestOutcome) (int64, error) {
	if o.Timestamp.IsZero() {
		o.Timestamp = s.now()
	}
	res, err := s.db.NamedExecContext(ctx, insertSQL, map[string]any{
		"test_name": o.TestName,
		"result":    string(o.Result),
		"timestamp": o.Timestamp.Local().Format(TimestampLayout),
		"duration":  o.Duration,
		"origin":    o.Origin,
	})
	if err != nil {
		return 0, &PersistenceError{Op: "insert", TestName: o.TestName, Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &PersistenceError{Op: "insert", TestName: o.TestName, Err: err}
	}
	return id, nil
}

// Insert records o and only logs a failure: losing a result row must not
// fail the run that produced it. It reports whether the row was written.
func (s *Store) Insert(ctx context.Context, o TestOutcome) bool {
	id, err := s.Record(ctx, o)
	if err != nil {
		s.log.Error().Err(err).
			Str("test_name", o.TestName).
			Bool("connection", database.IsConnectionError(err)).
			Msg("failed to store test result")
		return false
	}
	s.log.Info().Int64("id", id).Str("test_name", o.TestName).Str("result", string(o.Result)).Msg("test result stored")
	return true
}

// ReadAll returns every row in insertion order.
func (s *Store) ReadAll(ctx context.Context) ([]TestOutcome, error) {
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, selectAllSQL); err != nil {
		return nil, &PersistenceError{Op: "read", Err: err}
	}
	out := make([]TestOutcome, 0, len(rows))
	for _, r := range rows {
		o := TestOutcome{
			ID:       r.ID,
			TestName: r.TestName,
			Result:   Result(r.Result),
			Duration: r.Duration.Float64,
			Origin:   r.Origin.String,
		}
		if r.Timestamp.Valid {
			ts, err := time.ParseInLocation(TimestampLayout, r.Timestamp.String, time.Local)
			if err != nil {
				s.log.Warn().Err(err).Int64("id", r.ID).Msg("unparseable result timestamp")
			} else {
				o.Timestamp = ts
			}
		}
		out = append(out, o)
	}
	return out, nil
}

// Count returns the number of stored rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, countSQL); err != nil {
		return 0, &PersistenceError{Op: "count", Err: err}
	}
	return n, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
