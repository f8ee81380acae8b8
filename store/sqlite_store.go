package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/josephgoksu/tasktrack/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using an embedded SQLite database.
// Rows keep a position column so that load order matches save order.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (or creates) the database at dbPath.
// The special path ":memory:" keeps everything in memory.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		position INTEGER PRIMARY KEY,
		username TEXT NOT NULL,
		password TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		position INTEGER PRIMARY KEY,
		id INTEGER NOT NULL,
		owner TEXT NOT NULL,
		description TEXT NOT NULL,
		deadline TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		completion_date TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Describe returns the database path.
func (s *SQLiteStore) Describe() string {
	return "sqlite database " + s.dbPath
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadTasks returns all tasks in position order.
func (s *SQLiteStore) LoadTasks() ([]models.Task, error) {
	rows, err := s.db.Query(`
		SELECT id, owner, description, deadline, completed, completion_date
		FROM tasks ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		var completed int
		if err := rows.Scan(&t.ID, &t.Owner, &t.Description, &t.Deadline, &completed, &t.CompletionDate); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Completed = completed != 0
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return tasks, nil
}

// SaveTasks replaces the tasks table in a single transaction.
func (s *SQLiteStore) SaveTasks(tasks []models.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for i, t := range tasks {
		completed := 0
		if t.Completed {
			completed = 1
		}
		_, err := tx.Exec(`
			INSERT INTO tasks (position, id, owner, description, deadline, completed, completion_date)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, i+1, t.ID, t.Owner, t.Description, t.Deadline, completed, t.CompletionDate)
		if err != nil {
			return fmt.Errorf("insert task %d: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// LoadAccounts returns all accounts in position order.
func (s *SQLiteStore) LoadAccounts() ([]models.Account, error) {
	rows, err := s.db.Query(`SELECT username, password FROM accounts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	accounts := []models.Account{}
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.Username, &a.Password); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return accounts, nil
}

// SaveAccounts replaces the accounts table in a single transaction.
func (s *SQLiteStore) SaveAccounts(accounts []models.Account) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}
	for i, a := range accounts {
		if _, err := tx.Exec(`INSERT INTO accounts (position, username, password) VALUES (?, ?, ?)`,
			i+1, a.Username, a.Password); err != nil {
			return fmt.Errorf("insert account %s: %w", a.Username, err)
		}
	}
	return tx.Commit()
}
