package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/case-tracker-api/casefile"
	"github.com/linesmerrill/case-tracker-api/status"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clockOn(y int, m time.Month, d int) Clock {
	return At(time.Date(y, m, d, 15, 30, 0, 0, time.UTC), time.UTC)
}

func TestComputeApproaching(t *testing.T) {
	a := Compute(clockOn(2024, 2, 20), day(2024, 1, 1), 60, false)
	require.NotNil(t, a)
	assert.Equal(t, day(2024, 3, 1), a.DeadlineDate)
	assert.Equal(t, 10, a.DaysRemaining)
	assert.False(t, a.IsOverdue)
	assert.Equal(t, 60, a.DeadlineDays)
}

func TestComputeOverdue(t *testing.T) {
	a := Compute(clockOn(2024, 3, 5), day(2024, 1, 1), 60, false)
	require.NotNil(t, a)
	assert.Equal(t, -4, a.DaysRemaining)
	assert.True(t, a.IsOverdue)
}

func TestComputeDeadlineDayIsNotOverdue(t *testing.T) {
	a := Compute(clockOn(2024, 3, 1), day(2024, 1, 1), 60, false)
	require.NotNil(t, a)
	assert.Equal(t, 0, a.DaysRemaining)
	assert.False(t, a.IsOverdue)
}

func TestComputeNinetyDayTrack(t *testing.T) {
	a := Compute(clockOn(2024, 3, 1), day(2024, 1, 1), 90, false)
	require.NotNil(t, a)
	assert.Equal(t, day(2024, 3, 31), a.DeadlineDate)
	assert.Equal(t, 30, a.DaysRemaining)
}

func TestComputeUnknownTrackDefaultsToSixty(t *testing.T) {
	a := Compute(clockOn(2024, 2, 20), day(2024, 1, 1), 0, false)
	require.NotNil(t, a)
	assert.Equal(t, 60, a.DeadlineDays)
	assert.Equal(t, 10, a.DaysRemaining)
}

func TestComputeNoAlert(t *testing.T) {
	assert.Nil(t, Compute(clockOn(2024, 2, 20), day(2024, 1, 1), 60, true))
	assert.Nil(t, Compute(clockOn(2030, 1, 1), day(2024, 1, 1), 90, true))
	assert.Nil(t, Compute(clockOn(2024, 2, 20), time.Time{}, 60, false))
}

func TestComputeIsDeterministic(t *testing.T) {
	clk := clockOn(2024, 2, 20)
	assert.Equal(t, Compute(clk, day(2024, 1, 1), 60, false), Compute(clk, day(2024, 1, 1), 60, false))
}

func TestComputeUsesClockLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on Feb 20 is already Feb 21 in India
	clk := At(time.Date(2024, 2, 20, 20, 0, 0, 0, time.UTC), ist)
	a := Compute(clk, day(2024, 1, 1), 60, false)
	require.NotNil(t, a)
	assert.Equal(t, 9, a.DaysRemaining)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, ist), a.DeadlineDate)
}

func TestComputeAnchorsTimestampsOnLocalDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	clk := At(time.Date(2024, 2, 20, 9, 0, 0, 0, ist), ist)
	arrests := []time.Time{
		day(2024, 1, 1),
		time.Date(2024, 1, 1, 0, 0, 0, 0, ist),
		time.Date(2023, 12, 31, 18, 30, 0, 0, time.UTC),
	}
	for _, arrest := range arrests {
		a := Compute(clk, arrest, 60, false)
		require.NotNil(t, a)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, ist), a.ArrestDate, arrest.String())
		assert.Equal(t, 10, a.DaysRemaining, arrest.String())

		tier := TableTier(clk, casefile.Accused{Status: status.Arrested, ArrestDate: arrest}, 60, false)
		assert.Equal(t, 50, tier.ElapsedDays, arrest.String())
		assert.Equal(t, TierApproaching, tier.Level, arrest.String())
	}
}

func TestForAccusedRequiresArrested(t *testing.T) {
	clk := clockOn(2024, 2, 20)
	arrested := casefile.Accused{Status: status.Arrested, ArrestDate: day(2024, 1, 1)}
	assert.NotNil(t, ForAccused(clk, arrested, 60, false))

	for _, st := range []status.AccusedStatus{status.NotArrested, status.DecisionPending, status.PendingVerification} {
		a := casefile.Accused{Status: st, ArrestDate: day(2024, 1, 1)}
		assert.Nil(t, ForAccused(clk, a, 60, false), string(st))
	}
}

func TestForCaseAnchorsOnEarliestArrest(t *testing.T) {
	clk := clockOn(2024, 2, 20)
	both := casefile.Case{DeadlineDays: 60, Accused: []casefile.Accused{
		{Name: "late", Status: status.Arrested, ArrestDate: day(2024, 1, 10)},
		{Name: "none", Status: status.DecisionPending},
		{Name: "early", Status: status.Arrested, ArrestDate: day(2024, 1, 1)},
	}}
	single := casefile.Case{DeadlineDays: 60, Accused: []casefile.Accused{
		{Status: status.Arrested, ArrestDate: day(2024, 1, 1)},
	}}

	got := ForCase(clk, both)
	want := ForCase(clk, single)
	require.NotNil(t, got)
	assert.Equal(t, want, got)
	assert.Equal(t, day(2024, 3, 1), got.DeadlineDate)
}

func TestForCaseNoArrests(t *testing.T) {
	c := casefile.Case{DeadlineDays: 60, Accused: []casefile.Accused{{Status: status.DecisionPending}}}
	assert.Nil(t, ForCase(clockOn(2024, 2, 20), c))
	assert.Nil(t, ForCase(clockOn(2024, 2, 20), casefile.Case{}))
}

func TestForCaseSubmitted(t *testing.T) {
	c := casefile.Case{DeadlineDays: 60, FinalChargesheetSubmitted: true, Accused: []casefile.Accused{
		{Status: status.Arrested, ArrestDate: day(2024, 1, 1)},
	}}
	assert.Nil(t, ForCase(clockOn(2024, 2, 20), c))
}

func TestTableTier(t *testing.T) {
	a := casefile.Accused{Status: status.Arrested, ArrestDate: day(2024, 1, 1)}
	cases := []struct {
		name  string
		clk   Clock
		days  int
		level TierLevel
		since int
	}{
		{"sixty day track quiet", clockOn(2024, 2, 19), 60, TierNone, 49},
		{"sixty day track approaching", clockOn(2024, 2, 20), 60, TierApproaching, 50},
		{"sixty day track overdue", clockOn(2024, 3, 1), 60, TierOverdue, 60},
		{"ninety day track quiet", clockOn(2024, 3, 20), 90, TierNone, 79},
		{"ninety day track approaching", clockOn(2024, 3, 21), 90, TierApproaching, 80},
		{"ninety day track overdue", clockOn(2024, 3, 31), 90, TierOverdue, 90},
	}
	for _, c := range cases {
		tier := TableTier(c.clk, a, c.days, false)
		assert.Equal(t, c.level, tier.Level, c.name)
		assert.Equal(t, c.since, tier.ElapsedDays, c.name)
	}
}

func TestTableTierAndComputeCanDisagree(t *testing.T) {
	// On the deadline day the table tier already reports overdue while the
	// deadline alert still has zero days remaining.
	clk := clockOn(2024, 3, 1)
	a := casefile.Accused{Status: status.Arrested, ArrestDate: day(2024, 1, 1)}

	tier := TableTier(clk, a, 60, false)
	alert := ForAccused(clk, a, 60, false)
	require.NotNil(t, alert)
	assert.Equal(t, TierOverdue, tier.Level)
	assert.False(t, alert.IsOverdue)
}

func TestTableTierGates(t *testing.T) {
	clk := clockOn(2024, 3, 10)
	assert.Equal(t, TierNone, TableTier(clk, casefile.Accused{Status: status.Arrested, ArrestDate: day(2024, 1, 1)}, 60, true).Level)
	assert.Equal(t, TierNone, TableTier(clk, casefile.Accused{Status: status.NotArrested, ArrestDate: day(2024, 1, 1)}, 60, false).Level)
	assert.Equal(t, TierNone, TableTier(clk, casefile.Accused{Status: status.Arrested}, 60, false).Level)
}

func TestForEachAccused(t *testing.T) {
	c := casefile.Case{DeadlineDays: 60, Accused: []casefile.Accused{
		{Name: "A", Status: status.Arrested, ArrestDate: day(2024, 1, 1)},
		{Name: "B", Status: status.DecisionPending},
	}}
	got := ForEachAccused(clockOn(2024, 2, 20), c)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	require.NotNil(t, got[0].Alert)
	assert.Equal(t, 10, got[0].Alert.DaysRemaining)
	assert.Equal(t, TierApproaching, got[0].Tier.Level)
	assert.Nil(t, got[1].Alert)
	assert.Equal(t, TierNone, got[1].Tier.Level)
}
