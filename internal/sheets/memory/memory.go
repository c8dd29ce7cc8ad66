package memory

import (
	"context"
	"fmt"
	"sync"

	"contas/internal/core"
	ports "contas/internal/sheets"
)

// Export is one report handed to the writer.
type Export struct {
	Report  core.Report
	Entries []core.Entry
}

// Writer keeps exported reports in memory. It is the default report
// destination when no spreadsheet is configured.
type Writer struct {
	mu      sync.Mutex
	exports []Export
}

var _ ports.ReportWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

// WriteReport stores the report and returns a synthetic reference.
func (w *Writer) WriteReport(ctx context.Context, r core.Report, entries []core.Entry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.exports = append(w.exports, Export{
		Report:  r,
		Entries: append([]core.Entry(nil), entries...),
	})
	return fmt.Sprintf("mem:%d", len(w.exports)), nil
}

// Exports returns the reports written so far, oldest first.
func (w *Writer) Exports() []Export {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Export(nil), w.exports...)
}
