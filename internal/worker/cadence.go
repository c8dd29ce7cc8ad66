// Package worker runs the background jobs of the ledger.
//
// This file implements the Strategy Pattern for reminder cadences. Each
// cadence has its own checker that decides whether a reminder for an
// overdue entry should be sent again.
package worker

import (
	"fmt"
	"time"
)

// CadenceChecker is the strategy interface for deciding whether a reminder is due.
type CadenceChecker interface {
	// IsDue returns true if a reminder should go out now, given when the
	// previous one was sent. A zero lastSent means never.
	IsDue(lastSent, now time.Time) bool
}

// DailyChecker reminds at most once per calendar day.
type DailyChecker struct{}

// IsDue returns true if the last reminder was sent before today.
func (DailyChecker) IsDue(lastSent, now time.Time) bool {
	if lastSent.IsZero() {
		return true
	}
	return lastSent.Format(time.DateOnly) != now.Format(time.DateOnly)
}

// WeeklyChecker reminds at most once every seven days.
type WeeklyChecker struct{}

// IsDue returns true if 7 or more days have passed since the last reminder.
func (WeeklyChecker) IsDue(lastSent, now time.Time) bool {
	if lastSent.IsZero() {
		return true
	}
	return now.Sub(lastSent) >= 7*24*time.Hour
}

var cadences = map[string]CadenceChecker{
	"daily":  DailyChecker{},
	"weekly": WeeklyChecker{},
}

// GetCadenceChecker returns the checker registered for name.
func GetCadenceChecker(name string) (CadenceChecker, error) {
	checker, ok := cadences[name]
	if !ok {
		return nil, fmt.Errorf("unknown reminder cadence: %s", name)
	}
	return checker, nil
}
