// Package history persists selection results in SQLite so retrospectives can
// review which skills were activated for which tasks. Each selector
// invocation is recorded as one row; the skill list is stored as JSON.
package history

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// Selection kinds.
const (
	KindTask    = "task"
	KindCommand = "command"
)

const schema = `
CREATE TABLE IF NOT EXISTS selections (
	id TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	kind TEXT NOT NULL,
	command TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	skills TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_selections_created_at ON selections(created_at);
`

// Selection is one recorded selector invocation.
type Selection struct {
	ID          string    `db:"id"`
	CreatedAt   time.Time `db:"created_at"`
	Kind        string    `db:"kind"`
	Command     string    `db:"command"`
	Description string    `db:"description"`
	Skills      []string  `db:"-"`

	SkillsJSON string `db:"skills"`
}

// Store records and queries selection history.
type Store struct {
	db *sqlx.DB
}

// DefaultPath returns the default history database path.
func DefaultPath() (string, error) {
	if basePath := os.Getenv("CLAUDE_SKILLS_BASE_PATH"); basePath != "" {
		return filepath.Join(basePath, "history.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, ".claude-skills", "history.db"), nil
}

// Open opens or creates the history database at the given path with WAL mode
// and ensures the schema exists.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if err := configure(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to configure database")
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ensure schema")
	}

	return &Store{db: db}, nil
}

// configure sets SQLite pragmas for WAL mode operation.
func configure(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return errors.Wrapf(err, "failed to execute pragma: %s", pragma)
		}
	}

	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)

	var journalMode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
		return errors.Wrap(err, "failed to query journal mode")
	}
	if strings.ToLower(journalMode) != "wal" {
		return errors.Errorf("WAL mode not enabled, current mode: %s", journalMode)
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts a selection and returns it with its generated id.
func (s *Store) Record(ctx context.Context, kind, command, description string, skills []string) (*Selection, error) {
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode skills")
	}

	sel := &Selection{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Kind:        kind,
		Command:     command,
		Description: description,
		Skills:      skills,
		SkillsJSON:  string(skillsJSON),
	}

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO selections (id, created_at, kind, command, description, skills)
		VALUES (:id, :created_at, :kind, :command, :description, :skills)`, sel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to record selection")
	}

	return sel, nil
}

// List returns the most recent selections, newest first, up to limit.
// A limit of 0 or less returns all rows.
func (s *Store) List(ctx context.Context, limit int) ([]Selection, error) {
	query := "SELECT id, created_at, kind, command, description, skills FROM selections ORDER BY created_at DESC, id"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []Selection
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to list selections")
	}

	for i := range rows {
		if err := json.Unmarshal([]byte(rows[i].SkillsJSON), &rows[i].Skills); err != nil {
			return nil, errors.Wrapf(err, "failed to decode skills for selection %s", rows[i].ID)
		}
	}

	return rows, nil
}

// Prune deletes selections created before the cutoff and returns the number
// of rows removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM selections WHERE created_at < ?", before.UTC())
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune selections")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to count pruned selections")
	}
	return affected, nil
}
