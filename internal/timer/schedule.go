package timer

import (
	"sort"

	"github.com/tmackey/wortwatch/internal/model"
)

// Schedule tracks which hop-addition times still owe an alert during the
// boil. The fired set is keyed by the addition time in minutes, not by
// hop: two hops sharing a time fire together in one alert, and a time
// value never fires twice, even across a timer restart within the same
// schedule instance.
type Schedule struct {
	additions map[int][]model.Hop
	fired     map[int]bool
}

// NewSchedule builds an alert schedule from a recipe's hop list. Only
// boil additions are scheduled; whirlpool, dry hop, mash, and first-wort
// hops get no mid-boil alert (first-wort hops go in before the boil
// starts).
func NewSchedule(hops []model.Hop) *Schedule {
	s := &Schedule{
		additions: make(map[int][]model.Hop),
		fired:     make(map[int]bool),
	}
	for _, h := range hops {
		if h.Use != model.HopUseBoil {
			continue
		}
		s.additions[h.TimeMinutes] = append(s.additions[h.TimeMinutes], h)
	}
	return s
}

// NewScheduleAt builds an alert schedule for a countdown already in
// progress, as when restoring from persisted state. Addition times the
// countdown has passed are marked fired up front so a restart does not
// repeat alerts that went out before shutdown.
func NewScheduleAt(hops []model.Hop, remainingSeconds int) *Schedule {
	s := NewSchedule(hops)
	for m := range s.additions {
		if remainingSeconds <= m*60 {
			s.fired[m] = true
		}
	}
	return s
}

// Due returns the hop additions whose scheduled time has been reached by
// the given remaining seconds and have not fired yet, marking them fired.
// Times are considered reached when remaining is at or below the minute
// mark, so a skipped tick cannot lose an alert.
func (s *Schedule) Due(remainingSeconds int) []model.Hop {
	var due []model.Hop
	var minutes []int
	for m := range s.additions {
		if s.fired[m] {
			continue
		}
		if remainingSeconds <= m*60 {
			minutes = append(minutes, m)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(minutes)))
	for _, m := range minutes {
		s.fired[m] = true
		due = append(due, s.additions[m]...)
	}
	return due
}

// Pending returns how many addition times have not fired yet.
func (s *Schedule) Pending() int {
	n := 0
	for m := range s.additions {
		if !s.fired[m] {
			n++
		}
	}
	return n
}

// Reset clears the fired set, as when a new phase starts.
func (s *Schedule) Reset() {
	s.fired = make(map[int]bool)
}
