// Package timer implements the brew-day countdown state machine. Timer
// state is wall-clock anchored: remaining time is always re-derived from
// the persisted start timestamp, duration, and optional pause timestamp,
// never from a live counter, so a restart restores the countdown exactly.
package timer

import (
	"time"

	"github.com/tmackey/wortwatch/internal/model"
)

// State is the persistable brew-day timer state embedded in a batch.
type State struct {
	Phase           model.TimerPhase
	StartedAt       *time.Time
	PausedAt        *time.Time
	DurationSeconds int
}

// Idle returns the zero timer state.
func Idle() State {
	return State{Phase: model.PhaseIdle}
}

// FromBatch extracts the persisted timer state from a batch record.
func FromBatch(b *model.Batch) State {
	phase := b.TimerPhase
	if phase == "" {
		phase = model.PhaseIdle
	}
	return State{
		Phase:           phase,
		StartedAt:       b.TimerStartedAt,
		PausedAt:        b.TimerPausedAt,
		DurationSeconds: b.TimerDurationSeconds,
	}
}

// ApplyTo writes the timer state back onto a batch record.
func (s State) ApplyTo(b *model.Batch) {
	b.TimerPhase = s.Phase
	b.TimerStartedAt = s.StartedAt
	b.TimerPausedAt = s.PausedAt
	b.TimerDurationSeconds = s.DurationSeconds
}

// Counting reports whether the phase carries a countdown at all.
func (s State) Counting() bool {
	return s.Phase == model.PhaseMash || s.Phase == model.PhaseBoil
}

// Paused reports whether the countdown is frozen.
func (s State) Paused() bool {
	return s.Counting() && s.PausedAt != nil
}

// Running reports whether the countdown is live.
func (s State) Running() bool {
	return s.Counting() && s.PausedAt == nil
}

// Remaining returns the seconds left on the countdown at the given time,
// clamped at zero. The reference time is now while running, or the pause
// timestamp while paused. Idle and complete phases have no countdown.
func (s State) Remaining(now time.Time) int {
	if !s.Counting() || s.StartedAt == nil {
		return 0
	}
	ref := now
	if s.PausedAt != nil {
		ref = *s.PausedAt
	}
	elapsed := int(ref.Sub(*s.StartedAt) / time.Second)
	remaining := s.DurationSeconds - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// StartMash begins the mash countdown.
func StartMash(durationSeconds int, now time.Time) State {
	return start(model.PhaseMash, durationSeconds, now)
}

// StartBoil begins the boil countdown.
func StartBoil(durationSeconds int, now time.Time) State {
	return start(model.PhaseBoil, durationSeconds, now)
}

func start(phase model.TimerPhase, durationSeconds int, now time.Time) State {
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	started := now
	return State{
		Phase:           phase,
		StartedAt:       &started,
		DurationSeconds: durationSeconds,
	}
}

// Pause freezes the countdown at now. A no-op unless running.
func (s State) Pause(now time.Time) State {
	if !s.Running() {
		return s
	}
	paused := now
	s.PausedAt = &paused
	return s
}

// Resume unfreezes a paused countdown, re-anchoring the start timestamp
// so that the remaining time at the pause instant carries forward.
func (s State) Resume(now time.Time) State {
	if !s.Paused() {
		return s
	}
	remaining := s.Remaining(now)
	started := now.Add(-time.Duration(s.DurationSeconds-remaining) * time.Second)
	s.StartedAt = &started
	s.PausedAt = nil
	return s
}

// Adjust shifts the remaining time by deltaSeconds, clamping so the
// countdown never goes negative. The shift re-anchors the start timestamp
// so the adjustment survives in persisted state.
func (s State) Adjust(deltaSeconds int, now time.Time) State {
	if !s.Counting() || s.StartedAt == nil {
		return s
	}
	remaining := s.Remaining(now)
	if remaining+deltaSeconds < 0 {
		deltaSeconds = -remaining
	}
	started := s.StartedAt.Add(time.Duration(deltaSeconds) * time.Second)
	s.StartedAt = &started
	return s
}

// Complete marks the boil finished. Only the boil phase completes
// automatically; the mash holds at zero for a manual advance.
func (s State) Complete() State {
	return State{Phase: model.PhaseComplete}
}
