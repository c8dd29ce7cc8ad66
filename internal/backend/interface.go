package backend

import (
	"context"

	"contas/internal/services"
	"contas/internal/sheets"
	"contas/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds everything the ledger needs from the outside world.
// Notifier is nil when AMQP is disabled or unreachable.
type BackendResult struct {
	Store    storage.EntryStore
	Notifier services.Notifier
	Reports  sheets.ReportWriter
	Cleanup  CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// StoreType represents the type of entry store
type StoreType string

const (
	MemoryStore StoreType = "memory"
	SQLiteStore StoreType = "sqlite"
)

// String implements fmt.Stringer
func (st StoreType) String() string {
	return string(st)
}

// IsValid returns true if the store type is valid
func (st StoreType) IsValid() bool {
	switch st {
	case MemoryStore, SQLiteStore:
		return true
	default:
		return false
	}
}
