package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Payable    Kind = "payable"
	Receivable Kind = "receivable"
)

const (
	Pending Status = "pending"
	Paid    Status = "paid"
	Overdue Status = "overdue"
)

const maxDescriptionLen = 200

type (
	// Kind tells whether the user owes the money or is owed it.
	Kind string

	// Status is derived on every read, never stored.
	Status string

	Date struct {
		time.Time
	}

	// Entry is one obligation. Only Settled changes after creation.
	Entry struct {
		ID          uuid.UUID
		Description string
		Amount      decimal.Decimal
		DueDate     Date
		Kind        Kind
		Settled     bool
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrInvalidKind        = errors.New("invalid kind")

	ErrNotFound       = errors.New("entry not found")
	ErrAlreadySettled = errors.New("entry already settled")
	ErrStaleView      = errors.New("numbered view is stale")
	ErrUnknownView    = errors.New("unknown view")
)

// ValidationError names the field that made a new entry invalid.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// ParseKind accepts the kind names case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k Kind) Validate() error {
	switch k {
	case Payable, Receivable:
		return nil
	default:
		return invalid("kind", ErrInvalidKind)
	}
}

func (k Kind) String() string {
	return string(k)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today drops the clock part of t, keeping t's calendar day.
func Today(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses an ISO calendar date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, invalid("due_date", ErrInvalidDate)
	}
	return Today(t), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return invalid("due_date", ErrInvalidDate)
	}
	return nil
}

// Before reports whether d is a strictly earlier calendar day than other.
// The clock and zone of either side are ignored; each keeps its own calendar day.
func (d Date) Before(other Date) bool {
	return Today(d.Time).Time.Before(Today(other.Time).Time)
}

func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// NewEntry validates the fields and returns an unsettled entry with a fresh id.
// Entries reach a ledger only through services.LedgerService.Create.
func NewEntry(description string, amount decimal.Decimal, dueDate Date, kind Kind) (Entry, error) {
	e := Entry{
		ID:          uuid.New(),
		Description: strings.TrimSpace(description),
		Amount:      amount,
		DueDate:     Today(dueDate.Time),
		Kind:        kind,
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (e Entry) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return invalid("description", ErrEmptyDescription)
	}
	if utf8.RuneCountInString(e.Description) > maxDescriptionLen {
		return invalid("description", ErrDescriptionTooLong)
	}
	if !e.Amount.IsPositive() {
		return invalid("amount", ErrInvalidAmount)
	}
	if err := e.DueDate.Validate(); err != nil {
		return err
	}
	return e.Kind.Validate()
}

// Is compares identity, not content.
func (e Entry) Is(other Entry) bool {
	return e.ID == other.ID
}

// Status returns the entry's status as of today.
func (e Entry) Status(today Date) Status {
	return DeriveStatus(e, today)
}

// DeriveStatus: Paid once settled, Overdue when unsettled past its due day,
// Pending otherwise (including on the due day itself).
func DeriveStatus(e Entry, today Date) Status {
	switch {
	case e.Settled:
		return Paid
	case e.DueDate.Before(today):
		return Overdue
	default:
		return Pending
	}
}

func (s Status) String() string {
	return string(s)
}
