// Package deadline computes statutory chargesheet deadline alerts.
//
// Two threshold models coexist. Compute and its case and accused wrappers
// measure days remaining until arrest date + 60/90 days. TableTier is the
// coarser model used by accused tables: it looks only at days elapsed since
// arrest and fires at fixed day counts. Near the boundaries they can disagree;
// both are kept as they are.
package deadline

import (
	"time"

	"github.com/linesmerrill/case-tracker-api/casefile"
	"github.com/linesmerrill/case-tracker-api/dates"
	"github.com/linesmerrill/case-tracker-api/status"
)

// Alert describes a pending chargesheet deadline
type Alert struct {
	ArrestDate    time.Time `json:"arrestDate"`
	DeadlineDays  int       `json:"deadlineDays"`
	DeadlineDate  time.Time `json:"deadlineDate"`
	DaysRemaining int       `json:"daysRemaining"`
	IsOverdue     bool      `json:"isOverdue"`
}

// Clock supplies the current time and the zone that defines midnight
type Clock struct {
	Now      time.Time
	Location *time.Location
}

// At returns a clock fixed at now in loc
func At(now time.Time, loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: now, Location: loc}
}

// Compute returns the alert for a single arrest date, or nil when the final
// chargesheet is already submitted or there is no arrest date.
func Compute(clk Clock, arrestDate time.Time, deadlineDays int, submitted bool) *Alert {
	if submitted || arrestDate.IsZero() {
		return nil
	}
	if deadlineDays != casefile.DeadlineLong {
		deadlineDays = casefile.DeadlineShort
	}

	arrest := dates.CalendarDate(arrestDate, clk.Location)
	deadlineDate := dates.AddDays(arrest, deadlineDays)
	today := dates.StartOfDay(clk.Now, clk.Location)
	remaining := dates.DaysBetween(today, deadlineDate, clk.Location)

	return &Alert{
		ArrestDate:    arrest,
		DeadlineDays:  deadlineDays,
		DeadlineDate:  deadlineDate,
		DaysRemaining: remaining,
		IsOverdue:     remaining < 0,
	}
}

// ForAccused returns the alert for one accused. Only arrested accused have a
// running deadline.
func ForAccused(clk Clock, a casefile.Accused, deadlineDays int, submitted bool) *Alert {
	if a.Status != status.Arrested {
		return nil
	}
	return Compute(clk, a.ArrestDate, deadlineDays, submitted)
}

// ForCase anchors the case deadline on the earliest arrest date across all
// accused. Accused without an arrest date are ignored.
func ForCase(clk Clock, c casefile.Case) *Alert {
	earliest, ok := EarliestArrest(c.Accused)
	if !ok {
		return nil
	}
	return Compute(clk, earliest, c.DeadlineDays, c.FinalChargesheetSubmitted)
}

// EarliestArrest returns the earliest arrest date among the accused
func EarliestArrest(accused []casefile.Accused) (time.Time, bool) {
	var earliest time.Time
	for _, a := range accused {
		if a.ArrestDate.IsZero() {
			continue
		}
		if earliest.IsZero() || a.ArrestDate.Before(earliest) {
			earliest = a.ArrestDate
		}
	}
	return earliest, !earliest.IsZero()
}

// TierLevel is the coarse alert level shown in accused tables
type TierLevel string

// Tier levels
const (
	TierNone        TierLevel = ""
	TierApproaching TierLevel = "approaching"
	TierOverdue     TierLevel = "overdue"
)

// approachWindow is how many days before the statutory limit the table tier
// starts warning.
const approachWindow = 10

// Tier is the table alert for one accused
type Tier struct {
	Level       TierLevel `json:"level"`
	ElapsedDays int       `json:"elapsedDays"`
	LimitDays   int       `json:"limitDays"`
}

// TableTier classifies an accused purely by days elapsed since arrest:
// approaching from day 50 (60-day track) or day 80 (90-day track), overdue
// from day 60 or day 90. The gates match ForAccused.
func TableTier(clk Clock, a casefile.Accused, deadlineDays int, submitted bool) Tier {
	if deadlineDays != casefile.DeadlineLong {
		deadlineDays = casefile.DeadlineShort
	}
	t := Tier{Level: TierNone, LimitDays: deadlineDays}
	if submitted || a.Status != status.Arrested || a.ArrestDate.IsZero() {
		return t
	}

	arrest := dates.CalendarDate(a.ArrestDate, clk.Location)
	t.ElapsedDays = dates.DaysBetween(arrest, clk.Now, clk.Location)
	switch {
	case t.ElapsedDays >= deadlineDays:
		t.Level = TierOverdue
	case t.ElapsedDays >= deadlineDays-approachWindow:
		t.Level = TierApproaching
	}
	return t
}

// AccusedAlerts pairs each accused with both alert models
type AccusedAlerts struct {
	Name   string               `json:"name"`
	Status status.AccusedStatus `json:"status"`
	Alert  *Alert               `json:"alert"`
	Tier   Tier                 `json:"tier"`
}

// ForEachAccused evaluates both models for every accused of a case
func ForEachAccused(clk Clock, c casefile.Case) []AccusedAlerts {
	out := make([]AccusedAlerts, 0, len(c.Accused))
	for _, a := range c.Accused {
		out = append(out, AccusedAlerts{
			Name:   a.Name,
			Status: a.Status,
			Alert:  ForAccused(clk, a, c.DeadlineDays, c.FinalChargesheetSubmitted),
			Tier:   TableTier(clk, a, c.DeadlineDays, c.FinalChargesheetSubmitted),
		})
	}
	return out
}
