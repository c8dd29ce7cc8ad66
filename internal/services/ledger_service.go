package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"contas/internal/amqp"
	"contas/internal/core"
	applog "contas/internal/log"
	"contas/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Notifier publishes ledger events. It is optional.
type Notifier interface {
	PublishEntryEvent(ctx context.Context, event *amqp.EntryEvent) error
}

// LedgerService owns the collection of entries. Every read hands out copies
// and the only mutations are Create and Settle.
type LedgerService struct {
	mu       sync.Mutex
	store    storage.EntryStore
	notifier Notifier
	// revision counts mutations; numbered views carry the value they saw.
	revision uint64
}

func NewLedgerService(store storage.EntryStore, notifier Notifier) *LedgerService {
	return &LedgerService{
		store:    store,
		notifier: notifier,
	}
}

// Create validates and appends a new unsettled entry.
func (s *LedgerService) Create(ctx context.Context, description string, amount decimal.Decimal, dueDate core.Date, kind core.Kind) (core.Entry, error) {
	e, err := core.NewEntry(description, amount, dueDate, kind)
	if err != nil {
		return core.Entry{}, err
	}

	s.mu.Lock()
	if err := s.store.Append(ctx, e); err != nil {
		s.mu.Unlock()
		return core.Entry{}, fmt.Errorf("save entry: %w", err)
	}
	s.revision++
	s.mu.Unlock()

	slog.InfoContext(ctx, "Entry created", applog.NewFields().
		WithEntry(e).
		WithOperation(applog.OpCreate).
		WithComponent(applog.ComponentLedger).
		ToSlice()...)

	s.publish(ctx, amqp.EventEntryCreated, e)
	return e, nil
}

// Get returns core.ErrNotFound when no entry has id.
func (s *LedgerService) Get(ctx context.Context, id uuid.UUID) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.store.Get(ctx, id)
	if err != nil {
		slog.DebugContext(ctx, "Entry lookup failed",
			applog.FieldOperation, applog.OpRead,
			applog.FieldEntryID, id,
			applog.FieldError, err)
		return core.Entry{}, err
	}
	return e, nil
}

// Status derives the entry's status as of today.
func (s *LedgerService) Status(ctx context.Context, id uuid.UUID, today core.Date) (core.Status, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return e.Status(today), nil
}

// List returns a snapshot of every entry in insertion order.
func (s *LedgerService) List(ctx context.Context) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All(ctx)
}

func (s *LedgerService) ListByKind(ctx context.Context, kind core.Kind) ([]core.Entry, error) {
	return s.filter(ctx, func(e core.Entry) bool { return e.Kind == kind })
}

func (s *LedgerService) ListPending(ctx context.Context) ([]core.Entry, error) {
	return s.filter(ctx, func(e core.Entry) bool { return !e.Settled })
}

// ListOverdue returns unsettled entries due strictly before today.
func (s *LedgerService) ListOverdue(ctx context.Context, today core.Date) ([]core.Entry, error) {
	return s.filter(ctx, func(e core.Entry) bool { return e.Status(today) == core.Overdue })
}

func (s *LedgerService) filter(ctx context.Context, keep func(core.Entry) bool) ([]core.Entry, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]core.Entry, 0, len(all))
	for _, e := range all {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Number numbers the entries matching v from 1, in insertion order.
func (s *LedgerService) Number(ctx context.Context, v View) (NumberedView, error) {
	if err := v.Validate(); err != nil {
		return NumberedView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.All(ctx)
	if err != nil {
		return NumberedView{}, err
	}
	nv := numberEntries(all, v, s.revision)

	slog.DebugContext(ctx, "Numbered view built",
		applog.FieldOperation, applog.OpList,
		applog.FieldView, v.String(),
		applog.FieldCount, nv.Len())

	return nv, nil
}

// Settle marks the selected entry as settled. Settling twice is rejected
// with core.ErrAlreadySettled and leaves the ledger untouched.
func (s *LedgerService) Settle(ctx context.Context, sel Selector) (core.Entry, error) {
	e, err := s.settle(ctx, sel)
	if err != nil {
		args := []any{"selector", sel.String(), applog.FieldOperation, applog.OpSettle, applog.FieldError, err}
		if sel.byNumber {
			args = append(args, applog.FieldView, sel.view.String(), applog.FieldNumber, sel.number)
		}
		slog.WarnContext(ctx, "Settle rejected", args...)
		return core.Entry{}, err
	}

	slog.InfoContext(ctx, "Entry settled", applog.NewFields().
		WithEntry(e).
		WithOperation(applog.OpSettle).
		WithComponent(applog.ComponentLedger).
		ToSlice()...)

	s.publish(ctx, amqp.EventEntrySettled, e)
	return e, nil
}

// settle applies the state change under s.mu. Events are published by the
// caller once the lock is released.
func (s *LedgerService) settle(ctx context.Context, sel Selector) (core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, err := s.resolve(ctx, sel)
	if err != nil {
		return core.Entry{}, err
	}
	if e.Settled {
		return core.Entry{}, fmt.Errorf("settle %s: %w", e.ID, core.ErrAlreadySettled)
	}

	if err := s.store.MarkSettled(ctx, e.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Entry{}, fmt.Errorf("settle %s: %w", e.ID, err)
		}
		return core.Entry{}, fmt.Errorf("mark settled: %w", err)
	}
	s.revision++
	e.Settled = true
	return e, nil
}

// resolve must be called with s.mu held.
func (s *LedgerService) resolve(ctx context.Context, sel Selector) (core.Entry, error) {
	if !sel.byNumber {
		e, err := s.store.Get(ctx, sel.id)
		if err != nil {
			return core.Entry{}, fmt.Errorf("settle %s: %w", sel, err)
		}
		return e, nil
	}

	if err := sel.view.Validate(); err != nil {
		return core.Entry{}, err
	}
	if sel.revision != s.revision {
		return core.Entry{}, fmt.Errorf("settle %s: %w", sel, core.ErrStaleView)
	}
	all, err := s.store.All(ctx)
	if err != nil {
		return core.Entry{}, err
	}
	e, ok := numberEntries(all, sel.view, s.revision).Lookup(sel.number)
	if !ok {
		return core.Entry{}, fmt.Errorf("settle %s: %w", sel, core.ErrNotFound)
	}
	return e, nil
}

// LoadSampleData seeds the ledger with a few entries relative to today.
func (s *LedgerService) LoadSampleData(ctx context.Context, today core.Date) error {
	samples := []struct {
		desc    string
		amount  string
		days    int
		kind    core.Kind
		settled bool
	}{
		{"Aluguel", "1500.00", 30, core.Payable, false},
		{"Salário", "5000.00", 5, core.Receivable, false},
		{"Internet", "120.90", -10, core.Payable, true},
	}

	for _, sample := range samples {
		e, err := s.Create(ctx, sample.desc, core.MustAmount(sample.amount), today.AddDays(sample.days), sample.kind)
		if err != nil {
			return fmt.Errorf("create sample %q: %w", sample.desc, err)
		}
		if !sample.settled {
			continue
		}
		if _, err := s.Settle(ctx, ByID(e.ID)); err != nil {
			return fmt.Errorf("settle sample %q: %w", sample.desc, err)
		}
	}
	return nil
}

func (s *LedgerService) publish(ctx context.Context, eventType string, e core.Entry) {
	if s.notifier == nil {
		slog.DebugContext(ctx, "Notifier not available, skipping event", "type", eventType)
		return
	}

	// A failed publish never undoes the ledger change
	if err := s.notifier.PublishEntryEvent(ctx, amqp.NewEntryEvent(eventType, e)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry event",
			"type", eventType,
			applog.FieldEntryID, e.ID,
			applog.FieldError, err)
	}
}

// Close closes the backing store.
func (s *LedgerService) Close() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close ledger store: %w", err)
	}
	return nil
}
