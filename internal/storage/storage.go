package storage

import (
	"context"

	"contas/internal/core"

	"github.com/google/uuid"
)

// EntryStore is the backing collection of a ledger. Implementations keep
// insertion order and hand out copies, never references into their state.
type EntryStore interface {
	// Append adds e after every existing entry.
	Append(ctx context.Context, e core.Entry) error
	// Get returns core.ErrNotFound when no entry has id.
	Get(ctx context.Context, id uuid.UUID) (core.Entry, error)
	// All returns every entry in insertion order.
	All(ctx context.Context) ([]core.Entry, error)
	// MarkSettled flips Settled to true; core.ErrNotFound on miss.
	MarkSettled(ctx context.Context, id uuid.UUID) error
	Close() error
}
