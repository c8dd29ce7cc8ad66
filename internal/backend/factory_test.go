package backend

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"contas/internal/amqp"
	"contas/internal/config"
	"contas/internal/core"
	applog "contas/internal/log"
	"contas/internal/sheets"
	gsheet "contas/internal/sheets/google"
	sheetsmemory "contas/internal/sheets/memory"
	"contas/internal/storage/memory"
	"contas/internal/storage/sqlite"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifier struct {
	mu     sync.Mutex
	closed bool
}

func (s *stubNotifier) PublishEntryEvent(context.Context, *amqp.EntryEvent) error { return nil }

func (s *stubNotifier) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type stubWriter struct{}

func (stubWriter) WriteReport(context.Context, core.Report, []core.Entry) (string, error) {
	return "stub", nil
}

func testFactory(t *testing.T) *DefaultFactory {
	t.Helper()
	cfg := applog.DefaultConfig()
	cfg.Output = &bytes.Buffer{}
	f, ok := NewFactory(applog.New(cfg)).(*DefaultFactory)
	require.True(t, ok)
	return f
}

func TestFromAppConfig(t *testing.T) {
	app := &config.Config{
		DataBackend:              "sqlite",
		SQLiteDBName:             "ledger",
		AMQPURL:                  "amqp://localhost:5672/",
		AMQPExchange:             "contas",
		AMQPQueue:                "entry_events",
		GoogleSpreadsheetID:      "sheet-id",
		GoogleSheetName:          "Contas",
		GoogleServiceAccountJSON: "{}",
	}

	cfg, err := FromAppConfig(app)
	require.NoError(t, err)
	assert.Equal(t, SQLiteStore, cfg.Store)
	assert.Equal(t, "ledger", cfg.SQLiteDBName)
	assert.Equal(t, "amqp://localhost:5672/", cfg.AMQPURL)
	require.NotNil(t, cfg.Sheets)
	assert.Equal(t, "sheet-id", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "{}", cfg.Sheets.CredentialsJSON)

	app.AMQPURL = ""
	app.GoogleSpreadsheetID = ""
	cfg, err = FromAppConfig(app)
	require.NoError(t, err)
	assert.Empty(t, cfg.AMQPURL)
	assert.Nil(t, cfg.Sheets)

	app.DataBackend = "postgres"
	_, err = FromAppConfig(app)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[memory sqlite]")

	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "memory", config: Config{Store: MemoryStore}},
		{name: "sqlite", config: Config{Store: SQLiteStore, SQLiteDBName: "x"}},
		{name: "sqlite without name", config: Config{Store: SQLiteStore}, wantErr: true},
		{name: "unknown store", config: Config{Store: "sheets"}, wantErr: true},
		{name: "amqp without queue", config: Config{Store: MemoryStore, AMQPURL: "amqp://x", AMQPExchange: "e"}, wantErr: true},
		{name: "sheets without id", config: Config{Store: MemoryStore, Sheets: &gsheet.Config{}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBackend_MemoryDefaults(t *testing.T) {
	f := testFactory(t)
	res, err := f.CreateBackend(context.Background(), Config{Store: MemoryStore})
	require.NoError(t, err)

	assert.IsType(t, &memory.Store{}, res.Store)
	assert.IsType(t, &sheetsmemory.Writer{}, res.Reports)
	assert.Nil(t, res.Notifier)
	assert.NoError(t, res.Cleanup())
}

func TestCreateBackend_SQLite(t *testing.T) {
	f := testFactory(t)
	res, err := f.CreateBackend(context.Background(), Config{Store: SQLiteStore, SQLiteDBName: uuid.NewString()})
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Store{}, res.Store)
	assert.NoError(t, res.Cleanup())
}

func TestCreateBackend_WithAdapters(t *testing.T) {
	f := testFactory(t)
	notifier := &stubNotifier{}
	f.dialAMQP = func(string, string, string) (notifierCloser, error) { return notifier, nil }
	f.newSheets = func(context.Context, gsheet.Config) (sheets.ReportWriter, error) { return stubWriter{}, nil }

	res, err := f.CreateBackend(context.Background(), Config{
		Store:        MemoryStore,
		AMQPURL:      "amqp://localhost:5672/",
		AMQPExchange: "contas",
		AMQPQueue:    "entry_events",
		Sheets:       &gsheet.Config{SpreadsheetID: "id"},
	})
	require.NoError(t, err)
	assert.Same(t, notifier, res.Notifier)
	assert.IsType(t, stubWriter{}, res.Reports)

	require.NoError(t, res.Cleanup())
	assert.True(t, notifier.closed)
}

func TestCreateBackend_AMQPFailureIsNotFatal(t *testing.T) {
	f := testFactory(t)
	f.dialAMQP = func(string, string, string) (notifierCloser, error) { return nil, errors.New("connection refused") }

	res, err := f.CreateBackend(context.Background(), Config{
		Store:        MemoryStore,
		AMQPURL:      "amqp://localhost:5672/",
		AMQPExchange: "contas",
		AMQPQueue:    "entry_events",
	})
	require.NoError(t, err)
	assert.Nil(t, res.Notifier)
}

func TestCreateBackend_SheetsFailureClosesNotifier(t *testing.T) {
	f := testFactory(t)
	notifier := &stubNotifier{}
	f.dialAMQP = func(string, string, string) (notifierCloser, error) { return notifier, nil }
	f.newSheets = func(context.Context, gsheet.Config) (sheets.ReportWriter, error) {
		return nil, errors.New("bad credentials")
	}

	_, err := f.CreateBackend(context.Background(), Config{
		Store:        MemoryStore,
		AMQPURL:      "amqp://localhost:5672/",
		AMQPExchange: "contas",
		AMQPQueue:    "entry_events",
		Sheets:       &gsheet.Config{SpreadsheetID: "id"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad credentials")
	assert.True(t, notifier.closed)
}

func TestCreateBackend_InvalidConfig(t *testing.T) {
	_, err := testFactory(t).CreateBackend(context.Background(), Config{Store: "nope"})
	assert.Error(t, err)
}
