package console

import (
	"fmt"
	"strings"

	"contas/internal/core"

	"github.com/shopspring/decimal"
)

// FormatMoney renders d with two decimals after the currency symbol.
func FormatMoney(symbol string, d decimal.Decimal) string {
	return symbol + " " + d.StringFixed(2)
}

// settledLabel names the settled state the way each kind says it.
func settledLabel(e core.Entry) string {
	switch {
	case !e.Settled:
		return "Pending"
	case e.Kind == core.Receivable:
		return "Received"
	default:
		return "Paid"
	}
}

// FormatEntryLine is one numbered line of a list.
func FormatEntryLine(n int, e core.Entry, today core.Date, symbol string) string {
	overdue := ""
	if e.Status(today) == core.Overdue {
		overdue = "[OVERDUE] "
	}
	return fmt.Sprintf("%d. %s%s - %s (Due: %s) - %s",
		n, overdue, e.Description, FormatMoney(symbol, e.Amount), e.DueDate, settledLabel(e))
}

// FormatEntryDetails prints every field of e.
func FormatEntryDetails(e core.Entry, today core.Date, symbol string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", e.ID)
	fmt.Fprintf(&b, "Description: %s\n", e.Description)
	fmt.Fprintf(&b, "Amount: %s\n", FormatMoney(symbol, e.Amount))
	fmt.Fprintf(&b, "Due Date: %s\n", e.DueDate)
	fmt.Fprintf(&b, "Kind: %s\n", e.Kind)
	fmt.Fprintf(&b, "Status: %s\n", e.Status(today))
	return b.String()
}

// FormatReport renders a report as the summary screen.
func FormatReport(r core.Report, symbol string) string {
	var b strings.Builder
	bucket := func(label string, bk core.Bucket) {
		fmt.Fprintf(&b, "  %-9s %d entries, %s\n", label+":", bk.Count, FormatMoney(symbol, bk.Total))
	}

	fmt.Fprintf(&b, "=== Financial Summary (%s) ===\n", r.Today)
	b.WriteString("Payables\n")
	bucket("Pending", r.PendingPayables)
	bucket("Paid", r.PaidPayables)
	b.WriteString("Receivables\n")
	bucket("Pending", r.PendingReceivables)
	bucket("Received", r.PaidReceivables)
	fmt.Fprintf(&b, "Net balance:     %s\n", FormatMoney(symbol, r.NetBalance))
	fmt.Fprintf(&b, "Pending balance: %s\n", FormatMoney(symbol, r.PendingBalance))

	if len(r.Overdue) > 0 {
		b.WriteString("\nOverdue entries:\n")
		for _, e := range r.Overdue {
			fmt.Fprintf(&b, "- %s: %s (due %s)\n", e.Description, FormatMoney(symbol, e.Amount), e.DueDate)
		}
	}
	return b.String()
}
