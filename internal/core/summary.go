package core

import "github.com/shopspring/decimal"

// Bucket aggregates the entries of one (kind, settled) combination.
type Bucket struct {
	Count int
	Total decimal.Decimal
}

// Add counts e into the bucket.
func (b Bucket) Add(e Entry) Bucket {
	return Bucket{Count: b.Count + 1, Total: b.Total.Add(e.Amount)}
}

// Report is a point-in-time summary of the ledger.
type Report struct {
	Today Date

	PendingPayables    Bucket
	PaidPayables       Bucket
	PendingReceivables Bucket
	PaidReceivables    Bucket

	// NetBalance is every receivable minus every payable, settled or not.
	NetBalance decimal.Decimal
	// PendingBalance only looks at what is still open.
	PendingBalance decimal.Decimal

	Overdue []Entry
}

// Count returns how many entries the report covers.
func (r Report) Count() int {
	return r.PendingPayables.Count + r.PaidPayables.Count + r.PendingReceivables.Count + r.PaidReceivables.Count
}
