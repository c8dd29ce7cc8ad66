package backend

import (
	"context"
	"errors"
	"fmt"

	"contas/internal/amqp"
	applog "contas/internal/log"
	"contas/internal/services"
	"contas/internal/sheets"
	gsheet "contas/internal/sheets/google"
	sheetsmemory "contas/internal/sheets/memory"
	"contas/internal/storage"
	"contas/internal/storage/memory"
	"contas/internal/storage/sqlite"

	"golang.org/x/sync/errgroup"
)

// notifierCloser is what the factory needs from an AMQP client.
type notifierCloser interface {
	services.Notifier
	Close() error
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger

	dialAMQP  func(url, exchange, queue string) (notifierCloser, error)
	newSheets func(ctx context.Context, cfg gsheet.Config) (sheets.ReportWriter, error)
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
		dialAMQP: func(url, exchange, queue string) (notifierCloser, error) {
			return amqp.NewClient(url, exchange, queue)
		},
		newSheets: func(ctx context.Context, cfg gsheet.Config) (sheets.ReportWriter, error) {
			return gsheet.New(ctx, cfg)
		},
	}
}

// CreateBackend builds the store, then connects the optional AMQP notifier
// and the report writer concurrently.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.createStore(config)
	if err != nil {
		return nil, err
	}

	var (
		notifier notifierCloser
		reports  sheets.ReportWriter
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if config.AMQPURL == "" {
			f.logger.Debug("AMQP disabled, ledger events will not be published")
			return nil
		}
		client, err := f.dialAMQP(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			// The ledger works without events
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
			return nil
		}
		f.logger.Info("Initialized AMQP client",
			"exchange", config.AMQPExchange,
			"queue", config.AMQPQueue)
		notifier = client
		return nil
	})

	g.Go(func() error {
		if config.Sheets == nil {
			reports = sheetsmemory.New()
			return nil
		}
		w, err := f.newSheets(gctx, *config.Sheets)
		if err != nil {
			return fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets report export")
		reports = w
		return nil
	})

	if err := g.Wait(); err != nil {
		if notifier != nil {
			notifier.Close()
		}
		store.Close()
		return nil, err
	}

	result := &BackendResult{
		Store:   store,
		Reports: reports,
	}
	if notifier != nil {
		result.Notifier = notifier
	}
	result.Cleanup = func() error {
		var errs []error
		if notifier != nil {
			errs = append(errs, notifier.Close())
		}
		errs = append(errs, store.Close())
		return errors.Join(errs...)
	}

	f.logger.Info("Backend ready",
		"store", config.Store.String(),
		"amqp_enabled", notifier != nil,
		"sheets_enabled", config.Sheets != nil)

	return result, nil
}

func (f *DefaultFactory) createStore(config Config) (storage.EntryStore, error) {
	switch config.Store {
	case SQLiteStore:
		store, err := sqlite.NewStore(config.SQLiteDBName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		return store, nil
	case MemoryStore:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Store)
	}
}
