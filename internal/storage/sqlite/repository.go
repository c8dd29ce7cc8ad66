package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"contas/internal/core"
	applog "contas/internal/log"
	"contas/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// Store keeps the ledger in a shared-cache in-memory SQLite database.
// The database lives as long as the Store, nothing is written to disk.
type Store struct {
	db *sql.DB
}

var _ storage.EntryStore = (*Store)(nil)

// MemoryDSN names an in-memory database shared by every connection of this process.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(name))
}

func NewStore(name string) (*Store, error) {
	if name == "" {
		return nil, errors.New("sqlite database name cannot be empty")
	}
	dsn := MemoryDSN(name)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One pinned connection keeps the in-memory database alive
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Append implements storage.EntryStore
func (s *Store) Append(ctx context.Context, e core.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (id, description, amount, due_date, kind, settled) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Description, e.Amount.String(), e.DueDate.String(), string(e.Kind), boolToInt(e.Settled))
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	slog.DebugContext(ctx, "Entry saved to SQLite",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldEntryID, e.ID,
		applog.FieldKind, e.Kind,
		applog.FieldAmount, e.Amount.String(),
		applog.FieldDueDate, e.DueDate.String())

	return nil
}

// Get implements storage.EntryStore
func (s *Store) Get(ctx context.Context, id uuid.UUID) (core.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, description, amount, due_date, kind, settled FROM entries WHERE id = ?`, id.String())
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, core.ErrNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get entry by id: %w", err)
	}
	return e, nil
}

// All implements storage.EntryStore
func (s *Store) All(ctx context.Context) ([]core.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, amount, due_date, kind, settled FROM entries ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// MarkSettled implements storage.EntryStore
func (s *Store) MarkSettled(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE entries SET settled = 1 WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("mark entry settled: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark entry settled: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.DebugContext(ctx, "Entry marked as settled",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldEntryID, id)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (core.Entry, error) {
	var (
		id, desc, amount, due, kind string
		settled                     int64
	)
	if err := sc.Scan(&id, &desc, &amount, &due, &kind, &settled); err != nil {
		return core.Entry{}, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse id %q: %w", id, err)
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	dueTime, err := time.Parse(time.DateOnly, due)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse due date %q: %w", due, err)
	}

	return core.Entry{
		ID:          parsedID,
		Description: desc,
		Amount:      amt,
		DueDate:     core.Today(dueTime),
		Kind:        core.Kind(kind),
		Settled:     settled != 0,
	}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
