package sheets

import (
	"context"

	"contas/internal/core"
)

// Ports for outbound adapters.
type (
	// ReportWriter exports a summary report together with the entries it
	// was computed from.
	ReportWriter interface {
		WriteReport(ctx context.Context, r core.Report, entries []core.Entry) (ref string, err error)
	}
)
