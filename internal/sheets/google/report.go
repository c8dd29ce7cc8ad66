package google

import (
	"fmt"
	"strconv"
	"strings"

	"contas/internal/core"
)

// Rows are six columns wide: A to F.
const lastColumn = "F"

// reportRows lays out a report as a values matrix: a title row, one row
// per bucket, the balances, a blank row and then one row per entry.
func reportRows(r core.Report, entries []core.Entry) [][]any {
	rows := [][]any{
		{"Report", r.Today.String(), "", "", "", ""},
		{"Bucket", "Count", "Total", "", "", ""},
		bucketRow("Pending payables", r.PendingPayables),
		bucketRow("Paid payables", r.PaidPayables),
		bucketRow("Pending receivables", r.PendingReceivables),
		bucketRow("Received receivables", r.PaidReceivables),
		{"Net balance", "", r.NetBalance.StringFixed(2), "", "", ""},
		{"Pending balance", "", r.PendingBalance.StringFixed(2), "", "", ""},
		{"Overdue", len(r.Overdue), "", "", "", ""},
		{"", "", "", "", "", ""},
		{"ID", "Description", "Kind", "Amount", "Due date", "Status"},
	}
	for _, e := range entries {
		rows = append(rows, []any{
			e.ID.String(),
			e.Description,
			e.Kind.String(),
			e.Amount.StringFixed(2),
			e.DueDate.String(),
			e.Status(r.Today).String(),
		})
	}
	return rows
}

func bucketRow(label string, b core.Bucket) []any {
	return []any{label, b.Count, b.Total.StringFixed(2), "", "", ""}
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
