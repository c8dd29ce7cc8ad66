package services

import (
	"fmt"

	"contas/internal/core"

	"github.com/google/uuid"
)

// View selects entries by kind and settlement state. Only the four
// canonical views below are accepted by the ledger.
type View struct {
	Kind    core.Kind
	Settled bool
}

var (
	PendingPayables    = View{Kind: core.Payable, Settled: false}
	SettledPayables    = View{Kind: core.Payable, Settled: true}
	PendingReceivables = View{Kind: core.Receivable, Settled: false}
	SettledReceivables = View{Kind: core.Receivable, Settled: true}
)

// Views lists the canonical views in display order.
var Views = []View{PendingPayables, SettledPayables, PendingReceivables, SettledReceivables}

func (v View) Matches(e core.Entry) bool {
	return e.Kind == v.Kind && e.Settled == v.Settled
}

func (v View) Validate() error {
	for _, known := range Views {
		if v == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", core.ErrUnknownView, v)
}

func (v View) String() string {
	state := "pending"
	if v.Settled {
		state = "settled"
	}
	return state + "_" + string(v.Kind) + "s"
}

// NumberedEntry pairs a 1-based ordinal with the entry it stands for.
type NumberedEntry struct {
	Number int
	Entry  core.Entry
}

// NumberedView is a short-lived numbering of the entries matching View.
// Numbers are only meaningful until the ledger changes; Revision records
// the ledger state they were assigned against.
type NumberedView struct {
	View     View
	Revision uint64
	Items    []NumberedEntry
}

func (nv NumberedView) Len() int {
	return len(nv.Items)
}

func (nv NumberedView) Empty() bool {
	return len(nv.Items) == 0
}

// Lookup returns the entry numbered n.
func (nv NumberedView) Lookup(n int) (core.Entry, bool) {
	if n < 1 || n > len(nv.Items) {
		return core.Entry{}, false
	}
	return nv.Items[n-1].Entry, true
}

// Contains reports whether n is a valid number in this view.
func (nv NumberedView) Contains(n int) bool {
	_, ok := nv.Lookup(n)
	return ok
}

// Selector identifies the entry to settle: either by its permanent id or
// by a number taken from a specific numbered view.
type Selector struct {
	id       uuid.UUID
	view     View
	number   int
	revision uint64
	byNumber bool
}

func ByID(id uuid.UUID) Selector {
	return Selector{id: id}
}

// ByNumber binds n to the view it was read from. The selector goes stale
// as soon as the ledger changes after nv was produced.
func ByNumber(nv NumberedView, n int) Selector {
	return Selector{view: nv.View, number: n, revision: nv.Revision, byNumber: true}
}

func (s Selector) String() string {
	if s.byNumber {
		return fmt.Sprintf("%s#%d@%d", s.view, s.number, s.revision)
	}
	return s.id.String()
}

func numberEntries(entries []core.Entry, v View, revision uint64) NumberedView {
	nv := NumberedView{View: v, Revision: revision}
	for _, e := range entries {
		if !v.Matches(e) {
			continue
		}
		nv.Items = append(nv.Items, NumberedEntry{Number: len(nv.Items) + 1, Entry: e})
	}
	return nv
}
