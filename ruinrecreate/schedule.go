package ruinrecreate

import (
	"math"
	"time"

	"github.com/katalvlaran/hybridcvrp/approx"
	"github.com/katalvlaran/hybridcvrp/rng"
)

// coolingFactor is the decay rate of the temperature curve.
const coolingFactor = 2.0

// minValue = e^(−coolingFactor); the correction term pulls the curve to zero
// at the end of the schedule.
const minValue = 0.1353352832366127

// Acceptance is the simulated-annealing envelope of the ruin-and-recreate
// search: a Metropolis acceptance rule over a decaying temperature.
type Acceptance interface {
	// Accept reports whether a candidate with newCost replaces the current
	// solution with oldCost: newCost < oldCost − T·ln(r).
	Accept(newCost, oldCost float64, random *rng.Rand) bool

	// Update advances the schedule by one iteration.
	Update()

	// Completed reports whether the schedule has run its course.
	Completed() bool

	// Reset rewinds the schedule to its start.
	Reset()
}

// temperature evaluates the decay curve at progress t ∈ [0, 1]:
// T = T_start · (exp(−2t) − t·e⁻²), floored at minTemp.
func temperature(startTemp, minTemp, t float64) float64 {
	temp := (math.Exp(-coolingFactor*t) - t*minValue) * startTemp
	if temp < minTemp {
		temp = minTemp
	}
	return temp
}

func metropolis(newCost, oldCost, temp float64, random *rng.Rand) bool {
	return approx.Lt(newCost, oldCost-temp*math.Log(random.Float64()))
}

// IterationSchedule decays the temperature over a fixed iteration budget.
type IterationSchedule struct {
	temp            float64
	startTemp       float64
	minTemp         float64
	totalIterations int
	iteration       int
}

// NewIterationSchedule runs for iterations steps from startTemp down to
// minTemp.
func NewIterationSchedule(startTemp, minTemp float64, iterations int) *IterationSchedule {
	return &IterationSchedule{
		temp:            startTemp,
		startTemp:       startTemp,
		minTemp:         minTemp,
		totalIterations: iterations,
	}
}

// Temp returns the current temperature.
func (s *IterationSchedule) Temp() float64 {
	return s.temp
}

// Accept implements the Metropolis rule at the current temperature.
func (s *IterationSchedule) Accept(newCost, oldCost float64, random *rng.Rand) bool {
	return metropolis(newCost, oldCost, s.temp, random)
}

// Update advances one iteration and re-evaluates the decay curve.
func (s *IterationSchedule) Update() {
	s.iteration++
	t := float64(s.iteration) / float64(s.totalIterations)
	s.temp = temperature(s.startTemp, s.minTemp, t)
}

// Completed reports whether the iteration budget is exhausted.
func (s *IterationSchedule) Completed() bool {
	return s.iteration >= s.totalIterations
}

// Reset rewinds to the first iteration at the start temperature.
func (s *IterationSchedule) Reset() {
	s.iteration = 0
	s.temp = s.startTemp
}

// timeScheduleUpdateRate is how many iterations pass between wall-clock
// samples; the clock is not read on every update.
const timeScheduleUpdateRate = 100

// TimeSchedule decays the temperature over a wall-clock duration, sampling
// the clock every timeScheduleUpdateRate iterations.
type TimeSchedule struct {
	start       time.Time
	duration    float64
	temp        float64
	startTemp   float64
	minTemp     float64
	sinceUpdate int
	updateRate  int
	completed   bool
}

// NewTimeSchedule runs for the given duration from startTemp down to minTemp.
func NewTimeSchedule(startTemp, minTemp float64, duration time.Duration) *TimeSchedule {
	return &TimeSchedule{
		start:      time.Now(),
		duration:   duration.Seconds(),
		temp:       startTemp,
		startTemp:  startTemp,
		minTemp:    minTemp,
		updateRate: timeScheduleUpdateRate,
	}
}

// SetUpdateRate overrides the clock sampling interval (used by tests).
func (s *TimeSchedule) SetUpdateRate(rate int) {
	s.updateRate = rate
}

// Temp returns the current temperature.
func (s *TimeSchedule) Temp() float64 {
	return s.temp
}

// Accept implements the Metropolis rule at the current temperature.
func (s *TimeSchedule) Accept(newCost, oldCost float64, random *rng.Rand) bool {
	return metropolis(newCost, oldCost, s.temp, random)
}

// Update counts one iteration; every updateRate iterations the elapsed
// fraction refreshes the temperature and checks expiry.
func (s *TimeSchedule) Update() {
	s.sinceUpdate++
	if s.sinceUpdate < s.updateRate {
		return
	}
	s.sinceUpdate = 0
	t := time.Since(s.start).Seconds() / s.duration
	s.temp = temperature(s.startTemp, s.minTemp, t)
	if t >= 1.0 {
		s.completed = true
	}
}

// Completed reports whether the duration has elapsed.
func (s *TimeSchedule) Completed() bool {
	return s.completed
}

// Reset restarts the clock at the start temperature.
func (s *TimeSchedule) Reset() {
	s.start = time.Now()
	s.temp = s.startTemp
	s.sinceUpdate = 0
	s.completed = false
}
