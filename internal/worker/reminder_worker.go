package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"contas/internal/amqp"
	"contas/internal/core"
	applog "contas/internal/log"

	"github.com/google/uuid"
)

// OverdueLister is the part of the ledger the reminder worker reads.
type OverdueLister interface {
	ListOverdue(ctx context.Context, today core.Date) ([]core.Entry, error)
}

// EventPublisher sends entry events to the broker.
type EventPublisher interface {
	PublishEntryEvent(ctx context.Context, event *amqp.EntryEvent) error
}

// ReminderWorker publishes an entry.overdue event for every overdue entry,
// at most once per cadence period per entry.
type ReminderWorker struct {
	ledger    OverdueLister
	publisher EventPublisher
	checker   CadenceChecker
	interval  time.Duration
	logger    *applog.Logger

	mu       sync.Mutex
	lastSent map[uuid.UUID]time.Time
}

func NewReminderWorker(ledger OverdueLister, publisher EventPublisher, checker CadenceChecker, interval time.Duration, logger *applog.Logger) *ReminderWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ReminderWorker{
		ledger:    ledger,
		publisher: publisher,
		checker:   checker,
		interval:  interval,
		logger:    logger.WithComponent(applog.ComponentWorker),
		lastSent:  make(map[uuid.UUID]time.Time),
	}
}

// ProcessOverdue sends the reminders due at now and returns how many
// were published. A failed publish is retried on the next run.
func (w *ReminderWorker) ProcessOverdue(ctx context.Context, now time.Time) (int, error) {
	overdue, err := w.ledger.ListOverdue(ctx, core.Today(now))
	if err != nil {
		return 0, fmt.Errorf("list overdue entries: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	stillOverdue := make(map[uuid.UUID]struct{}, len(overdue))
	sent := 0
	for _, e := range overdue {
		stillOverdue[e.ID] = struct{}{}
		if !w.checker.IsDue(w.lastSent[e.ID], now) {
			continue
		}
		if err := w.publisher.PublishEntryEvent(ctx, amqp.NewEntryEvent(amqp.EventEntryOverdue, e)); err != nil {
			w.logger.ErrorContext(ctx, "Failed to publish overdue reminder",
				applog.FieldEntryID, e.ID,
				applog.FieldError, err)
			continue
		}
		w.lastSent[e.ID] = now
		sent++
	}

	// Settled entries never come back, forget them
	for id := range w.lastSent {
		if _, ok := stillOverdue[id]; !ok {
			delete(w.lastSent, id)
		}
	}

	return sent, nil
}

// Run processes reminders immediately and then on every tick until ctx is done.
func (w *ReminderWorker) Run(ctx context.Context) {
	w.logger.InfoContext(ctx, "Reminder worker started", "interval", w.interval.String())

	w.tick(ctx, time.Now())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "Reminder worker stopped")
			return
		case now := <-ticker.C:
			w.tick(ctx, now)
		}
	}
}

func (w *ReminderWorker) tick(ctx context.Context, now time.Time) {
	count, err := w.ProcessOverdue(ctx, now)
	if err != nil {
		w.logger.ErrorContext(ctx, "Reminder processing failed", applog.FieldError, err)
		return
	}
	if count > 0 {
		w.logger.InfoContext(ctx, "Overdue reminders published",
			applog.FieldCount, count,
			applog.FieldOperation, applog.OpRemind)
	}
}
