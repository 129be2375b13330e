package clock

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeIsIdempotent(t *testing.T) {
	now := time.Date(2040, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewState(now, 0.25, Temperate)

	later := now.Add(4 * time.Hour)
	s.Recompute(later)
	first := *s
	s.Recompute(later)
	assert.Equal(t, first, *s)
}

func TestTotalMinutesNonDecreasing(t *testing.T) {
	now := time.Date(2040, 3, 1, 0, 0, 0, 0, time.UTC)
	s := NewState(now, 1.0, Temperate)
	last := s.TotalMinutes()

	for i := 0; i < 50; i++ {
		now = now.Add(time.Minute)
		s.Recompute(now)
		s.Wait(now, 0)
		assert.True(t, s.TotalMinutes() >= last)
		last = s.TotalMinutes()
	}

	ok := s.SetTimeScale(now, 2.0)
	require.True(t, ok)
	assert.InDelta(t, last, s.TotalMinutes(), 0.01)
}

func TestSetTimeScaleRejectsNonPositive(t *testing.T) {
	now := time.Now()
	s := NewState(now, 0.25, Temperate)
	assert.False(t, s.SetTimeScale(now, 0))
	assert.False(t, s.SetTimeScale(now, -1))
}

func TestPhaseBands(t *testing.T) {
	cases := []struct {
		minute int
		want   Daytime
	}{
		{6 * 60, Morning},
		{11*60 + 59, Morning},
		{12 * 60, Day},
		{17*60 + 59, Day},
		{18 * 60, Evening},
		{21*60 + 59, Evening},
		{22 * 60, Night},
		{5*60 + 59, Night},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, phaseFor(c.minute), "minute=%d", c.minute)
	}
}

func TestWeatherEvalRespectsInterval(t *testing.T) {
	now := time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewState(now, 0, Temperate)
	rng := rand.New(rand.NewPCG(1, 2))

	// A fresh clock is not due until a full interval has passed.
	s.Wait(now, weatherEvalIntervalMinutes)
	changed := s.AdvanceWeatherIfDue(rng)
	assert.True(t, changed)

	changedAgain := s.AdvanceWeatherIfDue(rng)
	assert.False(t, changedAgain)

	s.Wait(now, weatherEvalIntervalMinutes)
	changedAfterWait := s.AdvanceWeatherIfDue(rng)
	assert.True(t, changedAfterWait)
}

func TestMinutesUntilPhaseWraps(t *testing.T) {
	now := time.Date(2040, 1, 1, 23, 0, 0, 0, time.UTC)
	s := NewState(now, 0, Temperate)
	// Simulated time starts at minute 0; move it to 23:00.
	s.Wait(now, 23*60)
	require.Equal(t, Night, s.Daytime)

	delta := s.MinutesUntilPhase(Morning)
	assert.Equal(t, 7*60, delta)

	assert.Equal(t, -1, s.MinutesUntilPhase(Night))
}
