package sla

import (
	"time"

	"procurement-approval/internal/domain/workflow"
)

// Calendar decides which dates are non-working besides weekends.
type Calendar interface {
	IsHoliday(date time.Time) bool
}

// HolidaySet is a Calendar backed by a fixed list of dates.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...time.Time) HolidaySet {
	h := make(HolidaySet, len(dates))
	for _, d := range dates {
		h[d.Format(time.DateOnly)] = struct{}{}
	}
	return h
}

func (h HolidaySet) IsHoliday(date time.Time) bool {
	_, ok := h[date.Format(time.DateOnly)]
	return ok
}

// Budgets is the number of business days each gate may take.
type Budgets map[workflow.Gate]int

func DefaultBudgets() Budgets {
	return Budgets{
		workflow.GateValidate:          2,
		workflow.GateReview:            3,
		workflow.GateAuthorize:         2,
		workflow.GateApproveManagement: 2,
	}
}

// Status is the derived view of a deadline at a given instant.
type Status struct {
	IsOverdue     bool `json:"is_overdue"`
	DaysOverdue   int  `json:"days_overdue"`
	DaysRemaining int  `json:"days_remaining"`
}

type Clock struct {
	budgets  Budgets
	calendar Calendar
	loc      *time.Location
}

// NewClock builds a clock; a nil calendar means weekends only and a nil
// location means UTC.
func NewClock(budgets Budgets, cal Calendar, loc *time.Location) *Clock {
	if budgets == nil {
		budgets = DefaultBudgets()
	}
	if cal == nil {
		cal = HolidaySet{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{budgets: budgets, calendar: cal, loc: loc}
}

func (c *Clock) Budget(g workflow.Gate) int { return c.budgets[g] }

// Deadline adds the gate budget in business days to enteredAt, keeping the
// time of day.
func (c *Clock) Deadline(enteredAt time.Time, g workflow.Gate) time.Time {
	d := enteredAt.In(c.loc)
	for added := 0; added < c.budgets[g]; {
		d = d.AddDate(0, 0, 1)
		if c.businessDay(d) {
			added++
		}
	}
	return d
}

// DeadlineFor stamps the deadline for whatever gate status waits on; nil when
// status is not waiting on a gate.
func (c *Clock) DeadlineFor(status workflow.Status, enteredAt time.Time) *time.Time {
	g, ok := workflow.PendingGate(status)
	if !ok {
		return nil
	}
	d := c.Deadline(enteredAt, g).UTC()
	return &d
}

func (c *Clock) Status(deadline, now time.Time) Status {
	if now.After(deadline) {
		return Status{IsOverdue: true, DaysOverdue: c.BusinessDaysBetween(deadline, now)}
	}
	return Status{DaysRemaining: c.BusinessDaysBetween(now, deadline)}
}

// BusinessDaysBetween counts business dates in (from, to], compared by
// calendar date in the clock location. Zero when to is not after from.
func (c *Clock) BusinessDaysBetween(from, to time.Time) int {
	a := dateOf(from.In(c.loc))
	b := dateOf(to.In(c.loc))
	n := 0
	for d := a.AddDate(0, 0, 1); !d.After(b); d = d.AddDate(0, 0, 1) {
		if c.businessDay(d) {
			n++
		}
	}
	return n
}

func (c *Clock) businessDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.calendar.IsHoliday(d)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
