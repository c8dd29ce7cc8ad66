package services

import (
	"context"
	"fmt"
	"log/slog"

	"contas/internal/core"
	applog "contas/internal/log"

	"github.com/shopspring/decimal"
)

// EntryReader is the part of the ledger the summary needs.
type EntryReader interface {
	List(ctx context.Context) ([]core.Entry, error)
}

// SummaryService computes reports from the ledger on every call.
type SummaryService struct {
	ledger EntryReader
}

func NewSummaryService(ledger EntryReader) *SummaryService {
	return &SummaryService{ledger: ledger}
}

// GenerateReport buckets every entry by kind and settlement state and
// lists what is overdue as of today. Everything comes from one snapshot.
func (s *SummaryService) GenerateReport(ctx context.Context, today core.Date) (core.Report, error) {
	entries, err := s.ledger.List(ctx)
	if err != nil {
		return core.Report{}, fmt.Errorf("list entries: %w", err)
	}

	r := core.Report{
		Today:              today,
		PendingPayables:    core.Bucket{Total: decimal.Zero},
		PaidPayables:       core.Bucket{Total: decimal.Zero},
		PendingReceivables: core.Bucket{Total: decimal.Zero},
		PaidReceivables:    core.Bucket{Total: decimal.Zero},
	}
	for _, e := range entries {
		if core.DeriveStatus(e, today) == core.Overdue {
			r.Overdue = append(r.Overdue, e)
		}
		switch {
		case e.Kind == core.Payable && e.Settled:
			r.PaidPayables = r.PaidPayables.Add(e)
		case e.Kind == core.Payable:
			r.PendingPayables = r.PendingPayables.Add(e)
		case e.Kind == core.Receivable && e.Settled:
			r.PaidReceivables = r.PaidReceivables.Add(e)
		case e.Kind == core.Receivable:
			r.PendingReceivables = r.PendingReceivables.Add(e)
		default:
			slog.WarnContext(ctx, "Entry with unknown kind left out of report", "id", e.ID, "kind", e.Kind)
		}
	}

	receivables := r.PendingReceivables.Total.Add(r.PaidReceivables.Total)
	payables := r.PendingPayables.Total.Add(r.PaidPayables.Total)
	r.NetBalance = receivables.Sub(payables)
	r.PendingBalance = r.PendingReceivables.Total.Sub(r.PendingPayables.Total)

	slog.DebugContext(ctx, "Report generated",
		applog.FieldComponent, applog.ComponentSummary,
		applog.FieldOperation, applog.OpReport,
		"entries", r.Count(),
		"overdue", len(r.Overdue),
		"net_balance", r.NetBalance.String())

	return r, nil
}
