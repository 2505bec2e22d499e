// Package sqlite implements the repository interfaces on SQLite through the
// pure Go modernc.org/sqlite driver.
//
// CONNECTIONS:
// sql.DB is a pool. An in-memory database (":memory:") lives inside a single
// connection, so for that path the pool is capped at one connection and every
// method must finish reading its rows before issuing the next query.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/notes-news/internal/database"
	"github.com/sakif/notes-news/internal/model"
	"github.com/sakif/notes-news/internal/repository"
)

var _ repository.Store = (*DB)(nil)

// DB owns the connection pool and hands out the per-table stores.
type DB struct {
	conn     *sql.DB
	users    *UserStore
	notes    *NoteStore
	news     *NewsStore
	comments *CommentStore
}

// New opens the database at dbPath and applies pending migrations.
//
// dbPath examples:
//   - "data/app.db" → file-based database
//   - ":memory:"    → in-memory database, gone on Close (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}
	if isMemory(dbPath) {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if err := database.Migrate(context.Background(), conn, database.DialectSQLite, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return &DB{
		conn:     conn,
		users:    &UserStore{conn: conn},
		notes:    &NoteStore{conn: conn},
		news:     &NewsStore{conn: conn},
		comments: &CommentStore{conn: conn},
	}, nil
}

// dsn adds the connection pragmas. Foreign keys are off by default in SQLite.
func dsn(dbPath string) string {
	params := "_pragma=foreign_keys(1)&_time_format=sqlite"
	if !isMemory(dbPath) {
		params += "&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + params
}

func isMemory(dbPath string) bool {
	return strings.HasPrefix(dbPath, ":memory:") || strings.Contains(dbPath, "mode=memory")
}

func (db *DB) Users() repository.UserRepository       { return db.users }
func (db *DB) Notes() repository.NoteRepository       { return db.notes }
func (db *DB) News() repository.NewsRepository        { return db.news }
func (db *DB) Comments() repository.CommentRepository { return db.comments }

// Conn exposes the pool for maintenance commands (migration status).
func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// Stats counts the rows of every table.
func (db *DB) Stats(ctx context.Context) (model.Stats, error) {
	var s model.Stats
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM notes),
			(SELECT COUNT(*) FROM news),
			(SELECT COUNT(*) FROM comments)`,
	).Scan(&s.Users, &s.Notes, &s.News, &s.Comments)
	if err != nil {
		return model.Stats{}, fmt.Errorf("sqlite: counting rows: %w", err)
	}
	return s, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// checkAffected turns an UPDATE/DELETE that touched nothing into NotFound.
func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
