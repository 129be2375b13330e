// Package clock implements SPEC_FULL.md §4.1: a wall-clock-derived in-game
// time with configurable scale, phase bands, and stochastic weather.
//
// Grounded on other_examples/.../lixenwraith-vi-fighter__engine-clock_scheduler.go
// for the tick/rebase structuring, and original_source/engine/core/state.py
// for the exact phase-band and weather-prior constants.
package clock

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Daytime is a closed phase-band enum.
type Daytime string

const (
	Morning Daytime = "morning"
	Day     Daytime = "day"
	Evening Daytime = "evening"
	Night   Daytime = "night"
)

// Weather is a closed weather enum.
type Weather string

const (
	Clear  Weather = "clear"
	Cloudy Weather = "cloudy"
	Rain   Weather = "rain"
	Fog    Weather = "fog"
)

// Climate selects which weather-prior distribution is sampled.
type Climate string

const (
	Temperate Climate = "temperate"
	Humid     Climate = "humid"
	Cold      Climate = "cold"
)

// weatherPriors is ordered (clear, cloudy, rain, fog).
var weatherPriors = map[Climate][4]float64{
	Temperate: {0.55, 0.25, 0.15, 0.05},
	Humid:     {0.25, 0.25, 0.40, 0.10},
	Cold:      {0.35, 0.25, 0.10, 0.30},
}

var defaultPrior = [4]float64{0.60, 0.25, 0.10, 0.05}

const weatherEvalIntervalMinutes = 30.0
const minutesPerDay = 1440.0

// State is the persisted clock state, embedded in GameState.
type State struct {
	RealStartUnixNano   int64   `bson:"realStartUnixNano"`
	TimeScale           float64 `bson:"timeScale"`
	ManualOffsetMinutes float64 `bson:"manualOffsetMinutes"`
	LastWeatherEvalTotal float64 `bson:"lastWeatherEvalTotal"`

	TimeMinutes int     `bson:"timeMinutes"`
	DayCount    int     `bson:"dayCount"`
	Daytime     Daytime `bson:"daytime"`
	Weather     Weather `bson:"weather"`
	Climate     Climate `bson:"climate"`
}

// NewState builds an initial clock state anchored at `now`.
func NewState(now time.Time, timeScale float64, climate Climate) State {
	if timeScale <= 0 {
		timeScale = 0.25
	}
	if climate == "" {
		climate = Temperate
	}
	s := State{
		RealStartUnixNano: now.UnixNano(),
		TimeScale:         timeScale,
		Climate:           climate,
		Weather:           Clear,
	}
	s.Recompute(now)
	return s
}

// TotalMinutes returns the monotonic simulated-minute counter.
func (s *State) TotalMinutes() float64 {
	return float64(s.DayCount)*minutesPerDay + float64(s.TimeMinutes)
}

// rawTotalMinutes computes total minutes from wall time without mutating state.
func (s *State) rawTotalMinutes(now time.Time) float64 {
	realStart := time.Unix(0, s.RealStartUnixNano)
	elapsedRealMinutes := now.Sub(realStart).Minutes()
	return elapsedRealMinutes*s.TimeScale + s.ManualOffsetMinutes
}

// Recompute sets TimeMinutes/DayCount/Daytime from wall time. Idempotent for
// a fixed `now`.
func (s *State) Recompute(now time.Time) {
	total := s.rawTotalMinutes(now)
	if total < 0 {
		total = 0
	}
	day := int(math.Floor(total / minutesPerDay))
	minuteOfDay := int(math.Floor(total - float64(day)*minutesPerDay))
	if minuteOfDay >= int(minutesPerDay) {
		minuteOfDay = int(minutesPerDay) - 1
	}
	s.DayCount = day
	s.TimeMinutes = minuteOfDay
	s.Daytime = phaseFor(minuteOfDay)
}

func phaseFor(minuteOfDay int) Daytime {
	switch {
	case minuteOfDay >= 6*60 && minuteOfDay < 12*60:
		return Morning
	case minuteOfDay >= 12*60 && minuteOfDay < 18*60:
		return Day
	case minuteOfDay >= 18*60 && minuteOfDay < 22*60:
		return Evening
	default:
		return Night
	}
}

// SetTimeScale rebases RealStart so the current total-minutes stays
// invariant. Returns false (no change) if scale <= 0.
func (s *State) SetTimeScale(now time.Time, scale float64) bool {
	if scale <= 0 {
		return false
	}
	currentTotal := s.rawTotalMinutes(now)
	elapsedSimMinutes := currentTotal - s.ManualOffsetMinutes
	elapsedRealMinutes := elapsedSimMinutes / scale
	newStart := now.Add(-time.Duration(elapsedRealMinutes * float64(time.Minute)))
	s.RealStartUnixNano = newStart.UnixNano()
	s.TimeScale = scale
	s.Recompute(now)
	return true
}

// Wait advances simulated time by adding to ManualOffsetMinutes. Never
// busy-waits; minutes <= 0 is a caller-checked precondition (see
// internal/exploration).
func (s *State) Wait(now time.Time, minutes float64) {
	s.ManualOffsetMinutes += minutes
	s.Recompute(now)
}

// AdvanceWeatherIfDue samples a new weather every 30 simulated minutes since
// the last evaluation, using rng for every stochastic draw (deterministic
// under a seeded source).
func (s *State) AdvanceWeatherIfDue(rng *rand.Rand) bool {
	total := s.TotalMinutes()
	if total-s.LastWeatherEvalTotal < weatherEvalIntervalMinutes {
		return false
	}
	s.LastWeatherEvalTotal = total

	priors, ok := weatherPriors[s.Climate]
	if !ok {
		priors = defaultPrior
	}
	newWeather := sampleWeather(rng, priors)

	if s.Weather == Rain && newWeather == Rain && rng.Float64() < 0.05 {
		s.Climate = Humid
	}
	s.Weather = newWeather
	return true
}

func sampleWeather(rng *rand.Rand, priors [4]float64) Weather {
	options := [4]Weather{Clear, Cloudy, Rain, Fog}
	r := rng.Float64()
	cumulative := 0.0
	for i, p := range priors {
		cumulative += p
		if r < cumulative {
			return options[i]
		}
	}
	return options[len(options)-1]
}

// Header renders the "[HH:MM Day N | Phase | Weather | Climate]" string used
// by `look` (§4.2).
func (s *State) Header() string {
	hh := s.TimeMinutes / 60
	mm := s.TimeMinutes % 60
	return fmt.Sprintf("[%02d:%02d Day %d | %s | %s | %s]", hh, mm, s.DayCount, s.Daytime, s.Weather, s.Climate)
}

// MinutesUntilPhase computes the wrapping delta from the current time to the
// start of the requested phase band, or -1 if already in that phase.
func (s *State) MinutesUntilPhase(target Daytime) int {
	if s.Daytime == target {
		return -1
	}
	starts := map[Daytime]int{
		Morning: 6 * 60,
		Day:     12 * 60,
		Evening: 18 * 60,
		Night:   22 * 60,
	}
	start, ok := starts[target]
	if !ok {
		return -1
	}
	delta := start - s.TimeMinutes
	if delta <= 0 {
		delta += int(minutesPerDay)
	}
	return delta
}
