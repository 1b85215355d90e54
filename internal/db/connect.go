package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:scoreengine.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/scoreengine?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS courses (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  category TEXT NOT NULL,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS course_questions (
  course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
  tier TEXT NOT NULL,
  questions_json TEXT NOT NULL,
  PRIMARY KEY (course_id, tier)
);

CREATE TABLE IF NOT EXISTS submissions (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  course_id TEXT NOT NULL,
  tier TEXT NOT NULL,
  raw_score INTEGER NOT NULL,
  total_questions INTEGER NOT NULL,
  percent REAL NOT NULL,
  scaled INTEGER NOT NULL,
  sections_json TEXT NOT NULL DEFAULT '{}',
  duration_sec INTEGER NOT NULL DEFAULT 0,
  submitted_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_student ON submissions(student_id, course_id, submitted_at);

CREATE TABLE IF NOT EXISTS progress (
  student_id TEXT NOT NULL,
  course_id TEXT NOT NULL,
  tier TEXT NOT NULL,
  category TEXT NOT NULL,
  best_percent REAL NOT NULL,
  best_scaled INTEGER NOT NULL,
  passed INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (student_id, course_id, tier)
);

CREATE TABLE IF NOT EXISTS baselines (
  student_id TEXT PRIMARY KEY,
  math_score INTEGER NOT NULL,
  rw_score INTEGER NOT NULL,
  target_score INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  pass_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'student'
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS courses (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  category TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS course_questions (
  course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
  tier TEXT NOT NULL,
  questions_json TEXT NOT NULL,
  PRIMARY KEY (course_id, tier)
);

CREATE TABLE IF NOT EXISTS submissions (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  course_id TEXT NOT NULL,
  tier TEXT NOT NULL,
  raw_score INTEGER NOT NULL,
  total_questions INTEGER NOT NULL,
  percent DOUBLE PRECISION NOT NULL,
  scaled INTEGER NOT NULL,
  sections_json TEXT NOT NULL DEFAULT '{}',
  duration_sec INTEGER NOT NULL DEFAULT 0,
  submitted_at BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_student ON submissions(student_id, course_id, submitted_at);

CREATE TABLE IF NOT EXISTS progress (
  student_id TEXT NOT NULL,
  course_id TEXT NOT NULL,
  tier TEXT NOT NULL,
  category TEXT NOT NULL,
  best_percent DOUBLE PRECISION NOT NULL,
  best_scaled INTEGER NOT NULL,
  passed INTEGER NOT NULL DEFAULT 0,
  updated_at BIGINT NOT NULL,
  PRIMARY KEY (student_id, course_id, tier)
);

CREATE TABLE IF NOT EXISTS baselines (
  student_id TEXT PRIMARY KEY,
  math_score INTEGER NOT NULL,
  rw_score INTEGER NOT NULL,
  target_score INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  pass_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'student'
);
`
