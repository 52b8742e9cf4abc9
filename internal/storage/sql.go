package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"todo/internal/service"
)

// Supported database/sql driver names.
const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// SQL is a Storage backed by database/sql. The queries use only `?`
// placeholders and portable types so the same statements run on SQLite and
// MySQL.
type SQL struct {
	db *sql.DB

	mu     sync.Mutex
	lastNS int64
}

// OpenSQL connects to dsn with the given driver and creates the todos table
// if it does not exist.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	switch driver {
	case DriverSQLite, DriverMySQL:
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if driver == DriverSQLite {
		// Each new connection to :memory: would get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQL{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

func (s *SQL) migrate(ctx context.Context) error {
	const createTodos = `CREATE TABLE IF NOT EXISTS todos (
    id VARCHAR(64) PRIMARY KEY,
    title TEXT NOT NULL,
    completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_ns BIGINT NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, createTodos); err != nil {
		return fmt.Errorf("creating todos table: %w", err)
	}
	return nil
}

func (s *SQL) List(ctx context.Context, filter Filter, limit, offset int) ([]service.Task, error) {
	query := `SELECT id, title, completed FROM todos`
	var args []any
	switch filter {
	case FilterActive:
		query += ` WHERE completed = ?`
		args = append(args, false)
	case FilterCompleted:
		query += ` WHERE completed = ?`
		args = append(args, true)
	}
	query += ` ORDER BY created_ns, id`
	if limit >= 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	} else if offset > 0 {
		// MySQL has no OFFSET without LIMIT.
		query += ` LIMIT 18446744073709551615 OFFSET ?`
		args = append(args, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer rows.Close()

	tasks := []service.Task{}
	for rows.Next() {
		var t service.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed); err != nil {
			return nil, fmt.Errorf("scanning todo: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *SQL) Get(ctx context.Context, id string) (service.Task, error) {
	var t service.Task
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, completed FROM todos WHERE id = ?`, id,
	).Scan(&t.ID, &t.Title, &t.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return service.Task{}, ErrNotFound
	}
	if err != nil {
		return service.Task{}, fmt.Errorf("querying todo %s: %w", id, err)
	}
	return t, nil
}

func (s *SQL) Create(ctx context.Context, t service.Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO todos (id, title, completed, created_ns) VALUES (?, ?, ?, ?)`,
		t.ID, t.Title, t.Completed, s.stamp(),
	)
	if err != nil {
		return fmt.Errorf("inserting todo: %w", err)
	}
	return nil
}

func (s *SQL) Update(ctx context.Context, t service.Task) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE todos SET title = ?, completed = ? WHERE id = ?`,
		t.Title, t.Completed, t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating todo %s: %w", t.ID, err)
	}
	// MySQL reports 0 affected rows when nothing changed, so confirm by ID.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := s.Get(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, id string) (service.Task, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return service.Task{}, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var t service.Task
	err = tx.QueryRowContext(ctx,
		`SELECT id, title, completed FROM todos WHERE id = ?`, id,
	).Scan(&t.ID, &t.Title, &t.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return service.Task{}, ErrNotFound
	}
	if err != nil {
		return service.Task{}, fmt.Errorf("querying todo %s: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id); err != nil {
		return service.Task{}, fmt.Errorf("deleting todo %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return service.Task{}, fmt.Errorf("committing delete: %w", err)
	}
	return t, nil
}

func (s *SQL) Close() error { return s.db.Close() }

// stamp returns a strictly increasing creation timestamp so rows inserted in
// the same nanosecond keep their insertion order.
func (s *SQL) stamp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UnixNano()
	if now <= s.lastNS {
		now = s.lastNS + 1
	}
	s.lastNS = now
	return now
}
