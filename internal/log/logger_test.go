package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"contas/internal/core"

	"github.com/shopspring/decimal"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerJSONIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentLedger, Output: &buf})

	logger.Info("Entry created", FieldEntryID, "abc")
	logger.Debug("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec[FieldComponent] != ComponentLedger || rec[FieldEntryID] != "abc" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentApp, Output: &buf}).WithComponent(ComponentWorker)
	if logger.Component() != ComponentWorker {
		t.Fatalf("Component() = %q", logger.Component())
	}
	logger.Warn("tick")
	if !strings.Contains(buf.String(), "component=worker") {
		t.Errorf("missing component: %q", buf.String())
	}
}

func TestFieldsWithEntry(t *testing.T) {
	e, err := core.NewEntry("Rent", decimal.NewFromInt(1500), core.NewDate(2025, 1, 5), core.Payable)
	if err != nil {
		t.Fatalf("new entry: %v", err)
	}
	f := NewFields().WithEntry(e).WithOperation(OpCreate).WithError(errors.New("boom")).WithError(nil)
	if f[FieldAmount] != "1500.00" || f[FieldDueDate] != "2025-01-05" || f[FieldKind] != "payable" {
		t.Errorf("unexpected fields: %v", f)
	}
	if f[FieldError] != "boom" || f[FieldOperation] != OpCreate {
		t.Errorf("unexpected fields: %v", f)
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Errorf("ToSlice length mismatch")
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()).Component() != "unknown" {
		t.Error("expected fallback logger")
	}
	l := New(DefaultConfig())
	if FromContext(WithLogger(context.Background(), l)) != l {
		t.Error("expected stored logger")
	}
}
