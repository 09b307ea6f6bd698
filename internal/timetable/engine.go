package timetable

import (
	"errors"
	"math/rand"
)

// ErrMalformedGeometry is returned when the grid has no days or no class slots.
var ErrMalformedGeometry = errors.New("timetable geometry must have at least one day and one class slot")

// EngineConfig governs the per-session trial budget.
type EngineConfig struct {
	// TrialBudget is the total number of random draws per session.
	TrialBudget int
	// PreferenceTrials is how many of those draws only accept slots that
	// also satisfy the teacher variety preference.
	PreferenceTrials int
	// MaxDailySingleSessions is the preferred ceiling of cells a teacher
	// occupies per day before a single-slot session is placed there.
	MaxDailySingleSessions int
}

// DefaultEngineConfig mirrors the budget the generator has always used.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{TrialBudget: 50, PreferenceTrials: 30, MaxDailySingleSessions: 2}
}

// PlacementResult is the outcome of one placement run.
type PlacementResult struct {
	Grid     *WeeklyGrid `json:"grid"`
	Unplaced []Session   `json:"unplaced"`
}

// Engine places a session pool on a weekly grid by bounded randomized trial.
type Engine struct {
	cfg EngineConfig
}

// NewEngine normalises the configuration.
func NewEngine(cfg EngineConfig) *Engine {
	defaults := DefaultEngineConfig()
	if cfg.TrialBudget <= 0 {
		cfg.TrialBudget = defaults.TrialBudget
	}
	if cfg.PreferenceTrials < 0 {
		cfg.PreferenceTrials = defaults.PreferenceTrials
	}
	if cfg.PreferenceTrials > cfg.TrialBudget {
		cfg.PreferenceTrials = cfg.TrialBudget
	}
	if cfg.MaxDailySingleSessions <= 0 {
		cfg.MaxDailySingleSessions = defaults.MaxDailySingleSessions
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective configuration.
func (e *Engine) Config() EngineConfig {
	return e.cfg
}

// Place shuffles the pool and tries each session once against the grid.
// Sessions that exhaust their budget are reported in Unplaced; the input
// pool is left untouched. rng must not be shared with concurrent callers.
func (e *Engine) Place(pool []Session, days []string, geometry SlotGeometry, rng *rand.Rand) (*PlacementResult, error) {
	if len(days) == 0 || len(geometry) == 0 {
		return nil, ErrMalformedGeometry
	}
	if rng == nil {
		return nil, errors.New("timetable placement requires a random source")
	}

	grid := NewWeeklyGrid(days, len(geometry))
	order := make([]Session, len(pool))
	copy(order, pool)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	result := &PlacementResult{Grid: grid}
	for placement, session := range order {
		if !e.placeOne(grid, session, placement, rng) {
			result.Unplaced = append(result.Unplaced, session)
		}
	}
	return result, nil
}

func (e *Engine) placeOne(grid *WeeklyGrid, session Session, placement int, rng *rand.Rand) bool {
	days, slots := len(grid.Cells), grid.Slots()
	for trial := 0; trial < e.cfg.TrialBudget; trial++ {
		day := rng.Intn(days)
		slot := rng.Intn(slots)
		preferring := trial < e.cfg.PreferenceTrials

		if session.IsDoubleSlot {
			if slot >= slots-1 || !grid.IsFree(day, slot) || !grid.IsFree(day, slot+1) {
				continue
			}
			if preferring && grid.TeacherLoad(day, session.TeacherCode) > 0 {
				continue
			}
			grid.put(session, placement, day, slot, false)
			grid.put(session, placement, day, slot+1, true)
			return true
		}

		if !grid.IsFree(day, slot) {
			continue
		}
		if preferring && grid.TeacherLoad(day, session.TeacherCode) >= e.cfg.MaxDailySingleSessions {
			continue
		}
		grid.put(session, placement, day, slot, false)
		return true
	}
	return false
}
