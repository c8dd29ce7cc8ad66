package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"contas/internal/core"
	"contas/internal/services"
	sheetsmemory "contas/internal/sheets/memory"
	"contas/internal/storage/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type harness struct {
	menu    *Menu
	ledger  *services.LedgerService
	reports *sheetsmemory.Writer
	out     *bytes.Buffer
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	ledger := services.NewLedgerService(memory.New(), nil)
	reports := sheetsmemory.New()
	out := &bytes.Buffer{}
	m := NewMenu(NewPrompter(strings.NewReader(input), out), ledger, services.NewSummaryService(ledger), reports, "R$")
	m.now = func() time.Time { return fixedNow }
	return &harness{menu: m, ledger: ledger, reports: reports, out: out}
}

func (h *harness) seed(t *testing.T) {
	t.Helper()
	require.NoError(t, h.ledger.LoadSampleData(context.Background(), core.Today(fixedNow)))
}

func TestPrompter_AskRepromptsUntilValid(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPrompter(strings.NewReader("abc\n-1\n  42 \n"), out)

	got, err := p.Ask("Number: ", "Invalid number", func(s string) bool { return s == "42" })
	require.NoError(t, err)
	assert.Equal(t, "42", got)
	assert.Equal(t, 3, strings.Count(out.String(), "Number: "))
	assert.Equal(t, 2, strings.Count(out.String(), "Invalid number"))
}

func TestPrompter_AskInputClosed(t *testing.T) {
	p := NewPrompter(strings.NewReader("nope\n"), &bytes.Buffer{})
	_, err := p.Ask("Q: ", "bad", func(string) bool { return false })
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "R$ 120.90", FormatMoney("R$", decimal.RequireFromString("120.9")))
	assert.Equal(t, "€ -510.10", FormatMoney("€", decimal.RequireFromString("-510.1")))
	assert.Equal(t, "R$ 0.00", FormatMoney("R$", decimal.Decimal{}))
}

func TestFormatEntryLine(t *testing.T) {
	today := core.NewDate(2025, 6, 15)
	e, err := core.NewEntry("Card", decimal.RequireFromString("300"), today.AddDays(-1), core.Payable)
	require.NoError(t, err)

	assert.Equal(t, "1. [OVERDUE] Card - R$ 300.00 (Due: 2025-06-14) - Pending", FormatEntryLine(1, e, today, "R$"))

	e.Settled = true
	assert.Equal(t, "2. Card - R$ 300.00 (Due: 2025-06-14) - Paid", FormatEntryLine(2, e, today, "R$"))

	e.Kind = core.Receivable
	assert.Contains(t, FormatEntryLine(1, e, today, "R$"), "- Received")
}

func TestMenu_ExitAndEOF(t *testing.T) {
	h := newHarness(t, "8\n")
	require.NoError(t, h.menu.Run(context.Background()))
	assert.Contains(t, h.out.String(), "Shutting down...")

	h = newHarness(t, "")
	assert.NoError(t, h.menu.Run(context.Background()))
}

func TestMenu_InvalidInput(t *testing.T) {
	h := newHarness(t, "x\n99\n8\n")
	require.NoError(t, h.menu.Run(context.Background()))
	assert.Contains(t, h.out.String(), "Invalid input! Type a number.")
	assert.Contains(t, h.out.String(), "Invalid option")
}

func TestMenu_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := newHarness(t, "8\n").menu.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMenu_AddEntry(t *testing.T) {
	input := strings.Join([]string{
		"1",
		"   ",          // empty description
		"Conta de luz", // description
		"abc",          // bad amount
		"0",            // zero amount
		"89,905",       // rounds to 89.91
		"2025-02-30",   // bad date
		"2025-07-01",
		"3", // bad kind
		"1",
		"8",
	}, "\n") + "\n"
	h := newHarness(t, input)
	require.NoError(t, h.menu.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Description can't be empty")
	assert.Contains(t, out, "Invalid amount")
	assert.Contains(t, out, "Invalid date")
	assert.Contains(t, out, "Invalid option! Type 1 or 2.")
	assert.Contains(t, out, "Entry created with ID")

	all, err := h.ledger.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Conta de luz", all[0].Description)
	assert.Equal(t, "89.91", all[0].Amount.StringFixed(2))
	assert.Equal(t, "2025-07-01", all[0].DueDate.String())
	assert.Equal(t, core.Payable, all[0].Kind)
}

func TestMenu_ListEntries(t *testing.T) {
	h := newHarness(t, "2\n8\n")
	h.seed(t)
	require.NoError(t, h.menu.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "--- Payables ---")
	assert.Contains(t, out, "1. Aluguel - R$ 1500.00 (Due: 2025-07-15) - Pending")
	assert.Contains(t, out, "1. Internet - R$ 120.90 (Due: 2025-06-05) - Paid")
	assert.Contains(t, out, "1. Salário - R$ 5000.00 (Due: 2025-06-20) - Pending")
	assert.Contains(t, out, "Received:\nNo entries found.")
}

func TestMenu_MarkReceivableAsReceived(t *testing.T) {
	h := newHarness(t, "4\n2\n1\n8\n")
	h.seed(t)
	require.NoError(t, h.menu.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "Invalid number")
	assert.Contains(t, out, "Receivable marked as received successfully!")

	pending, err := h.ledger.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Aluguel", pending[0].Description, "the payable numbered 1 must stay pending")
}

func TestMenu_MarkPayableNothingPending(t *testing.T) {
	h := newHarness(t, "3\n8\n")
	require.NoError(t, h.menu.Run(context.Background()))
	assert.Contains(t, h.out.String(), "No pending payables.")
}

func TestMenu_SearchByID(t *testing.T) {
	ctx := context.Background()
	ledger := services.NewLedgerService(memory.New(), nil)
	require.NoError(t, ledger.LoadSampleData(ctx, core.Today(fixedNow)))
	all, err := ledger.List(ctx)
	require.NoError(t, err)

	input := "5\nnot-a-uuid\n" + all[0].ID.String() + "\n5\n00000000-0000-0000-0000-000000000001\n8\n"
	out := &bytes.Buffer{}
	m := NewMenu(NewPrompter(strings.NewReader(input), out), ledger, services.NewSummaryService(ledger), nil, "R$")
	m.now = func() time.Time { return fixedNow }
	require.NoError(t, m.Run(ctx))

	text := out.String()
	assert.Contains(t, text, "Invalid ID")
	assert.Contains(t, text, "=== Entry Found ===")
	assert.Contains(t, text, "Description: Aluguel")
	assert.Contains(t, text, "Status: pending")
	assert.Contains(t, text, "Entry not found!")
}

func TestMenu_ExportNotConfigured(t *testing.T) {
	ledger := services.NewLedgerService(memory.New(), nil)
	out := &bytes.Buffer{}
	m := NewMenu(NewPrompter(strings.NewReader("7\n8\n"), out), ledger, services.NewSummaryService(ledger), nil, "R$")
	require.NoError(t, m.Run(context.Background()))
	assert.Contains(t, out.String(), "Report export is not configured.")
}

func TestMenu_SummaryAndExport(t *testing.T) {
	h := newHarness(t, "6\n7\n8\n")
	h.seed(t)
	require.NoError(t, h.menu.Run(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "=== Financial Summary (2025-06-15) ===")
	assert.Contains(t, out, "Net balance:     R$ 3379.10")
	assert.Contains(t, out, "Pending balance: R$ 3500.00")
	assert.Contains(t, out, "Report exported to mem:1")

	exports := h.reports.Exports()
	require.Len(t, exports, 1)
	assert.Len(t, exports[0].Entries, 3)
	assert.Equal(t, "3379.10", exports[0].Report.NetBalance.StringFixed(2))
}

func TestFormatReport_Overdue(t *testing.T) {
	today := core.NewDate(2025, 6, 15)
	e, err := core.NewEntry("Card", decimal.RequireFromString("300"), today.AddDays(-1), core.Payable)
	require.NoError(t, err)

	text := FormatReport(core.Report{Today: today, Overdue: []core.Entry{e}}, "R$")
	assert.Contains(t, text, "Overdue entries:\n- Card: R$ 300.00 (due 2025-06-14)")
}
