package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/eleven-am/insight-backend/internal/alerting"
	"github.com/eleven-am/insight-backend/internal/metrics"
	"github.com/eleven-am/insight-backend/internal/narrative"
)

const reaperInterval = time.Minute

type ManagerConfig struct {
	Clock            clock.Clock
	Narrative        narrative.Generator
	Events           EventSink
	Metrics          metrics.Config
	SampleInterval   time.Duration
	DefaultBaselines alerting.Baselines
	IdleTimeout      time.Duration
	Log              *slog.Logger
}

// Manager is the in-memory session registry. Nothing outlives it: sessions
// abandoned in Idle or Paused past IdleTimeout are ended by the reaper, and
// ended sessions are dropped after the same timeout.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	clk              clock.Clock
	gen              narrative.Generator
	events           EventSink
	metricsCfg       metrics.Config
	sampleInterval   time.Duration
	defaultBaselines alerting.Baselines
	idleTimeout      time.Duration
	log              *slog.Logger

	reaperStop chan struct{}
	reaperDone chan struct{}
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 2 * time.Hour
	}

	return &Manager{
		sessions:         make(map[string]*Session),
		clk:              cfg.Clock,
		gen:              cfg.Narrative,
		events:           cfg.Events,
		metricsCfg:       cfg.Metrics,
		sampleInterval:   cfg.SampleInterval,
		defaultBaselines: cfg.DefaultBaselines,
		idleTimeout:      cfg.IdleTimeout,
		log:              cfg.Log.With("component", "session_manager"),
	}
}

type CreateParams struct {
	PatientRef string
	Consent    bool
	Baselines  alerting.Baselines
}

func (m *Manager) Create(p CreateParams) *Session {
	baselines := p.Baselines
	if baselines.BreathingBpm <= 0 {
		baselines.BreathingBpm = m.defaultBaselines.BreathingBpm
	}
	if baselines.EyeContactPct <= 0 {
		baselines.EyeContactPct = m.defaultBaselines.EyeContactPct
	}

	sess := New(Config{
		PatientRef:     p.PatientRef,
		Consent:        p.Consent,
		Baselines:      baselines,
		Metrics:        m.metricsCfg,
		SampleInterval: m.sampleInterval,
		Clock:          m.clk,
		Narrative:      m.gen,
		Events:         m.events,
		Log:            m.log,
	})

	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()

	m.log.Info("session created", "session_id", sess.ID(), "patient_ref", p.PatientRef)
	return sess
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if sess != nil {
		// a live session is shut down through its own state machine
		if sess.State() == StateActive || sess.State() == StatePaused {
			_, _ = sess.End(context.Background())
		}
		m.log.Info("session removed", "session_id", id)
	}
	return ok
}

type Info struct {
	ID         string `json:"id"`
	PatientRef string `json:"patient_ref"`
	State      State  `json:"state"`
	ElapsedSec int    `json:"elapsed_sec"`
}

func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]Info, 0, len(m.sessions))
	for _, s := range m.sessions {
		infos = append(infos, Info{
			ID:         s.ID(),
			PatientRef: s.PatientRef(),
			State:      s.State(),
			ElapsedSec: s.ElapsedSec(),
		})
	}
	return infos
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// StartReaper launches the background loop that expires abandoned sessions.
func (m *Manager) StartReaper() {
	m.reaperStop = make(chan struct{})
	m.reaperDone = make(chan struct{})

	ticker := m.clk.Ticker(reaperInterval)
	go func() {
		defer close(m.reaperDone)
		defer ticker.Stop()
		for {
			select {
			case <-m.reaperStop:
				return
			case <-ticker.C:
				m.reap()
			}
		}
	}()
}

func (m *Manager) reap() {
	now := m.clk.Now()

	m.mu.RLock()
	stale := make([]*Session, 0)
	for _, s := range m.sessions {
		if now.Sub(s.lastTransitionAt()) < m.idleTimeout {
			continue
		}
		stale = append(stale, s)
	}
	m.mu.RUnlock()

	for _, s := range stale {
		switch s.State() {
		case StateIdle, StatePaused:
			m.log.Info("expiring abandoned session", "session_id", s.ID(), "state", s.State())
			if s.State() == StateIdle {
				m.Remove(s.ID())
			} else {
				_, _ = s.End(context.Background())
			}
		case StateEnded:
			m.log.Info("dropping ended session", "session_id", s.ID())
			m.Remove(s.ID())
		}
	}
}

// Close ends every live session and stops the reaper.
func (m *Manager) Close() error {
	if m.reaperStop != nil {
		close(m.reaperStop)
		<-m.reaperDone
	}

	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		if s.State() == StateActive || s.State() == StatePaused {
			_, _ = s.End(context.Background())
		}
	}
	return nil
}
