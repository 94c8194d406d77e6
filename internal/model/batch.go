package model

import "time"

// BatchStatus is the lifecycle state of a brewing batch.
type BatchStatus string

const (
	StatusPlanning     BatchStatus = "planning"
	StatusBrewing      BatchStatus = "brewing"
	StatusFermenting   BatchStatus = "fermenting"
	StatusConditioning BatchStatus = "conditioning"
	StatusCompleted    BatchStatus = "completed"
	StatusArchived     BatchStatus = "archived"
)

// statusNext maps each status to the statuses reachable from it. The
// happy path is strictly forward; archived is only reachable from
// completed.
var statusNext = map[BatchStatus][]BatchStatus{
	StatusPlanning:     {StatusBrewing},
	StatusBrewing:      {StatusFermenting},
	StatusFermenting:   {StatusConditioning},
	StatusConditioning: {StatusCompleted},
	StatusCompleted:    {StatusArchived},
	StatusArchived:     {},
}

// ValidStatus reports whether s is a known batch status.
func ValidStatus(s BatchStatus) bool {
	_, ok := statusNext[s]
	return ok
}

// CanTransition reports whether a batch may move from one status to another.
func CanTransition(from, to BatchStatus) bool {
	for _, next := range statusNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TimerPhase is the brew-day timer phase persisted on a batch.
type TimerPhase string

const (
	PhaseIdle     TimerPhase = "idle"
	PhaseMash     TimerPhase = "mash"
	PhaseBoil     TimerPhase = "boil"
	PhaseComplete TimerPhase = "complete"
)

// Batch is a brewing instance of a recipe. Measured values are distinct
// from the recipe's targets and stay nil until recorded.
type Batch struct {
	ID       int64       `json:"id"`
	RecipeID int64       `json:"recipe_id"`
	Name     string      `json:"name"`
	Status   BatchStatus `json:"status"`

	MeasuredOG  *float64 `json:"measured_og"`
	MeasuredFG  *float64 `json:"measured_fg"`
	MeasuredABV *float64 `json:"measured_abv"`

	DeviceID *int64 `json:"device_id"`
	HeaterID *int64 `json:"heater_id"`
	CoolerID *int64 `json:"cooler_id"`

	TimerPhase           TimerPhase `json:"timer_phase"`
	TimerStartedAt       *time.Time `json:"timer_started_at"`
	TimerPausedAt        *time.Time `json:"timer_paused_at"`
	TimerDurationSeconds int        `json:"timer_duration_seconds"`

	BrewedAt    *time.Time `json:"brewed_at"`
	PackagedAt  *time.Time `json:"packaged_at"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Attenuation returns the apparent attenuation from measured gravities,
// or nil when either measurement is missing or OG is degenerate.
func (b *Batch) Attenuation() *float64 {
	if b.MeasuredOG == nil || b.MeasuredFG == nil {
		return nil
	}
	og, fg := *b.MeasuredOG, *b.MeasuredFG
	if og <= 1.0 {
		return nil
	}
	att := (og - fg) / (og - 1.0) * 100
	return &att
}

// DeviceType identifies the kind of monitoring or control hardware.
type DeviceType string

const (
	DeviceHydrometer DeviceType = "hydrometer"
	DeviceController DeviceType = "controller"
	DeviceHeater     DeviceType = "heater"
	DeviceCooler     DeviceType = "cooler"
)

// Device is a registered piece of fermentation hardware. TokenHash is the
// bcrypt hash of the ingest token issued at registration; the plaintext
// token is shown once and never stored.
type Device struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Type      DeviceType `json:"type"`
	TokenHash string     `json:"-"`
	LastSeen  *time.Time `json:"last_seen"`
	CreatedAt time.Time  `json:"created_at"`
}
