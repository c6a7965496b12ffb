package sla

import (
	"testing"
	"time"

	"procurement-approval/internal/domain/workflow"
)

func at(date string, hour int) time.Time {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic(err)
	}
	return d.Add(time.Duration(hour) * time.Hour)
}

func TestClock_Deadline(t *testing.T) {
	c := NewClock(DefaultBudgets(), NewHolidaySet(at("2025-09-16", 0)), time.UTC)

	tests := []struct {
		name    string
		entered time.Time
		gate    workflow.Gate
		want    time.Time
	}{
		{"monday plus three", at("2025-09-01", 10), workflow.GateReview, at("2025-09-04", 10)},
		{"friday skips weekend", at("2025-09-05", 10), workflow.GateReview, at("2025-09-10", 10)},
		{"saturday entry counts from monday", at("2025-09-06", 8), workflow.GateAuthorize, at("2025-09-09", 8)},
		{"holiday skipped", at("2025-09-15", 9), workflow.GateValidate, at("2025-09-18", 9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Deadline(tt.entered, tt.gate); !got.Equal(tt.want) {
				t.Fatalf("Deadline = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClock_Deadline_ZeroBudget(t *testing.T) {
	c := NewClock(Budgets{workflow.GateReview: 0}, nil, nil)
	in := at("2025-09-06", 12)
	if got := c.Deadline(in, workflow.GateReview); !got.Equal(in) {
		t.Fatalf("zero budget must keep enteredAt, got %v", got)
	}
}

func TestClock_Status(t *testing.T) {
	c := NewClock(nil, nil, nil)

	tests := []struct {
		name     string
		deadline time.Time
		now      time.Time
		want     Status
	}{
		{"exactly at deadline", at("2025-09-04", 10), at("2025-09-04", 10), Status{DaysRemaining: 0}},
		{"one business day late", at("2025-09-04", 10), at("2025-09-05", 10), Status{IsOverdue: true, DaysOverdue: 1}},
		{"late over weekend", at("2025-09-05", 10), at("2025-09-08", 10), Status{IsOverdue: true, DaysOverdue: 1}},
		{"same day late", at("2025-09-04", 10), at("2025-09-04", 15), Status{IsOverdue: true, DaysOverdue: 0}},
		{"three remaining", at("2025-09-04", 10), at("2025-09-01", 9), Status{DaysRemaining: 3}},
		{"remaining over weekend", at("2025-09-08", 10), at("2025-09-05", 10), Status{DaysRemaining: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Status(tt.deadline, tt.now); got != tt.want {
				t.Fatalf("Status = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClock_RoundTrip(t *testing.T) {
	c := NewClock(nil, nil, nil)
	entered := at("2025-09-01", 10)
	dl := c.Deadline(entered, workflow.GateReview)

	if s := c.Status(dl, dl); s.IsOverdue || s.DaysRemaining != 0 {
		t.Fatalf("at deadline: %+v", s)
	}
	next := dl.AddDate(0, 0, 1) // Thursday -> Friday
	if s := c.Status(dl, next); !s.IsOverdue || s.DaysOverdue != 1 {
		t.Fatalf("one day past: %+v", s)
	}
	if s := c.Status(dl, entered); s.DaysRemaining != c.Budget(workflow.GateReview) {
		t.Fatalf("at entry: %+v", s)
	}
}

func TestClock_DeadlineFor(t *testing.T) {
	c := NewClock(nil, nil, nil)
	entered := at("2025-09-01", 10)

	d := c.DeadlineFor(workflow.StatusAutorizado, entered)
	if d == nil || !d.Equal(at("2025-09-03", 10)) {
		t.Fatalf("autorizado waits on management approval, got %v", d)
	}
	if d := c.DeadlineFor(workflow.StatusAprobadaGerencia, entered); d != nil {
		t.Fatalf("aprobada_gerencia waits on no gate, got %v", d)
	}
	if d := c.DeadlineFor(workflow.StatusRechazadaRevisor, entered); d != nil {
		t.Fatalf("rejections carry no deadline, got %v", d)
	}
}

func TestClock_Location(t *testing.T) {
	loc := time.FixedZone("COT", -5*3600)
	c := NewClock(nil, nil, loc)
	// Saturday 02:00 UTC is still Friday in UTC-5.
	entered := time.Date(2025, 9, 6, 2, 0, 0, 0, time.UTC)
	got := c.Deadline(entered, workflow.GateAuthorize)
	want := time.Date(2025, 9, 9, 21, 0, 0, 0, loc) // Friday 21:00 + 2 business days
	if !got.Equal(want) {
		t.Fatalf("Deadline = %v, want %v", got, want)
	}
}
