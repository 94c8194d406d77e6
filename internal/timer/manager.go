package timer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tmackey/wortwatch/internal/model"
)

// Persister saves timer state onto the owning batch record.
type Persister interface {
	SaveTimer(batchID int64, st State) error
}

// Notifier receives timer events for fan-out to connected clients.
type Notifier interface {
	HopAddition(batchID int64, remainingMinutes int, hops []model.Hop)
	TimerExpired(batchID int64, phase model.TimerPhase)
}

type runner struct {
	state State
	sched *Schedule
}

// Manager owns the live countdowns for all batches on brew day. One
// ticker drives every active timer; handlers call the mutation methods
// and the loop fires hop-addition and expiry alerts.
type Manager struct {
	mu      sync.Mutex
	active  map[int64]*runner
	persist Persister
	notify  Notifier
	logger  *slog.Logger

	now      func() time.Time
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewManager creates a timer manager. The notifier may be nil when no
// alert fan-out is configured.
func NewManager(persist Persister, notify Notifier, logger *slog.Logger) *Manager {
	return &Manager{
		active:   make(map[int64]*runner),
		persist:  persist,
		notify:   notify,
		logger:   logger,
		now:      time.Now,
		interval: time.Second,
	}
}

// Start begins the tick loop.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.mu.Unlock()

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.tick()
			}
		}
	}()
}

// Stop gracefully stops the tick loop.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// StartMash begins a mash countdown for the batch and persists the state.
func (m *Manager) StartMash(batchID int64, durationSeconds int, hops []model.Hop) (State, error) {
	return m.begin(batchID, StartMash(durationSeconds, m.now()), hops)
}

// StartBoil begins a boil countdown for the batch and persists the state.
func (m *Manager) StartBoil(batchID int64, durationSeconds int, hops []model.Hop) (State, error) {
	return m.begin(batchID, StartBoil(durationSeconds, m.now()), hops)
}

func (m *Manager) begin(batchID int64, st State, hops []model.Hop) (State, error) {
	m.mu.Lock()
	m.active[batchID] = &runner{state: st, sched: NewSchedule(hops)}
	m.mu.Unlock()
	return st, m.persist.SaveTimer(batchID, st)
}

// Pause freezes the batch's countdown and persists the pause timestamp.
func (m *Manager) Pause(batchID int64) (State, error) {
	return m.mutate(batchID, func(s State) State { return s.Pause(m.now()) })
}

// Resume unfreezes the batch's countdown and persists the re-anchored
// start timestamp.
func (m *Manager) Resume(batchID int64) (State, error) {
	return m.mutate(batchID, func(s State) State { return s.Resume(m.now()) })
}

// Adjust shifts the batch's remaining time by deltaSeconds and persists
// immediately, so the adjustment cannot be lost to a crash.
func (m *Manager) Adjust(batchID int64, deltaSeconds int) (State, error) {
	return m.mutate(batchID, func(s State) State { return s.Adjust(deltaSeconds, m.now()) })
}

func (m *Manager) mutate(batchID int64, fn func(State) State) (State, error) {
	m.mu.Lock()
	r, ok := m.active[batchID]
	if !ok {
		m.mu.Unlock()
		return Idle(), ErrNoTimer
	}
	r.state = fn(r.state)
	st := r.state
	m.mu.Unlock()
	return st, m.persist.SaveTimer(batchID, st)
}

// Reset returns the batch's timer to idle and persists the cleared state.
func (m *Manager) Reset(batchID int64) (State, error) {
	m.mu.Lock()
	delete(m.active, batchID)
	m.mu.Unlock()
	st := Idle()
	return st, m.persist.SaveTimer(batchID, st)
}

// Restore re-registers a countdown from persisted batch state, as on
// process start. Completed and idle phases are ignored. Hop additions
// and expiries the countdown already passed are not re-alerted: those
// alerts went out before the process stopped.
func (m *Manager) Restore(b *model.Batch, hops []model.Hop) {
	st := FromBatch(b)
	if !st.Counting() {
		return
	}
	remaining := st.Remaining(m.now())
	if remaining == 0 && st.Running() {
		// The countdown lapsed while the process was down. A boil is
		// recorded as complete; a mash stays at its persisted phase,
		// holding at zero until the brewer advances it.
		if st.Phase == model.PhaseBoil {
			done := st.Complete()
			if err := m.persist.SaveTimer(b.ID, done); err != nil {
				m.logger.Error("persist timer completion on restore", "batch_id", b.ID, "error", err)
			}
		}
		return
	}
	m.mu.Lock()
	m.active[b.ID] = &runner{state: st, sched: NewScheduleAt(hops, remaining)}
	m.mu.Unlock()
}

// StateOf returns the live state and remaining seconds for a batch, or
// ok=false when no timer is active for it.
func (m *Manager) StateOf(batchID int64) (State, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.active[batchID]
	if !ok {
		return Idle(), 0, false
	}
	return r.state, r.state.Remaining(m.now()), true
}

func (m *Manager) tick() {
	now := m.now()

	type firing struct {
		batchID   int64
		remaining int
		hops      []model.Hop
		expired   model.TimerPhase
		persistSt *State
	}
	var firings []firing

	m.mu.Lock()
	for id, r := range m.active {
		if !r.state.Running() {
			continue
		}
		remaining := r.state.Remaining(now)
		f := firing{batchID: id, remaining: remaining}

		if r.state.Phase == model.PhaseBoil {
			f.hops = r.sched.Due(remaining)
		}

		if remaining == 0 {
			f.expired = r.state.Phase
			if r.state.Phase == model.PhaseBoil {
				done := r.state.Complete()
				f.persistSt = &done
			}
			// The mash holds at zero; the brewer advances to the boil
			// manually.
			delete(m.active, id)
		}

		if f.hops != nil || f.expired != "" {
			firings = append(firings, f)
		}
	}
	m.mu.Unlock()

	for _, f := range firings {
		if len(f.hops) > 0 && m.notify != nil {
			m.notify.HopAddition(f.batchID, f.remaining/60, f.hops)
		}
		if f.expired != "" && m.notify != nil {
			m.notify.TimerExpired(f.batchID, f.expired)
		}
		if f.persistSt != nil {
			if err := m.persist.SaveTimer(f.batchID, *f.persistSt); err != nil {
				m.logger.Error("persist timer completion", "batch_id", f.batchID, "error", err)
			}
		}
	}
}
