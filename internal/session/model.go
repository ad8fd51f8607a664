package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/eleven-am/insight-backend/internal/alerting"
	"github.com/eleven-am/insight-backend/internal/landmark"
	"github.com/eleven-am/insight-backend/internal/metrics"
	"github.com/eleven-am/insight-backend/internal/narrative"
	"github.com/eleven-am/insight-backend/internal/report"
	"github.com/eleven-am/insight-backend/internal/shared"
)

type State string

const (
	StateIdle   State = "idle"
	StateActive State = "active"
	StatePaused State = "paused"
	StateEnded  State = "ended"
)

var (
	ErrConsentRequired = errors.New("consent required")
	ErrNotStarted      = errors.New("session not started")
)

// MetricSample is one row of the session's metric history, appended by the
// sampler on its cadence and immutable afterwards.
type MetricSample struct {
	ElapsedSec       int     `json:"session_elapsed_sec"`
	EyeContactPct    float64 `json:"eye_contact_pct"`
	GazeStabilityPct float64 `json:"gaze_stability_pct"`
	BreathingBpm     float64 `json:"breathing_bpm"`
	DominantEmotion  string  `json:"dominant_emotion"`
}

// Event is what the session pushes to its sink: state changes, new samples,
// new alerts, and the final report.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const (
	EventState  = "state"
	EventSample = "sample"
	EventAlert  = "alert"
	EventReport = "report"
)

// EventSink receives session events for fan-out to connected dashboards. It
// must not call back into the session.
type EventSink func(sessionID string, evt Event)

type Config struct {
	PatientRef     string
	Consent        bool
	Baselines      alerting.Baselines
	Metrics        metrics.Config
	SampleInterval time.Duration
	Clock          clock.Clock
	Narrative      narrative.Generator
	Events         EventSink
	Log            *slog.Logger
}

// Session owns all mutable state for one clinical session: the state
// machine, the extractor engine, the metric history, and the alert log.
// Every mutation happens under one mutex; the gateway read pump, the sampler
// goroutine, and the HTTP handlers are the only writers.
type Session struct {
	mu sync.Mutex

	id         string
	patientRef string
	consent    bool
	baselines  alerting.Baselines

	state             State
	startedAt         time.Time
	pausedAt          time.Time
	endedAt           time.Time
	accumulatedPaused time.Duration
	lastTransition    time.Time

	clk            clock.Clock
	engine         *metrics.Engine
	sampleInterval time.Duration

	history     []MetricSample
	alertLog    *alerting.Log
	report      *report.SessionReport
	reportReady chan struct{}

	gen    narrative.Generator
	events EventSink
	log    *slog.Logger

	samplerStop chan struct{}
	samplerDone chan struct{}
	dropped     uint64
}

func New(cfg Config) *Session {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 3 * time.Second
	}

	id := shared.NewID("ses_")
	return &Session{
		id:             id,
		patientRef:     cfg.PatientRef,
		consent:        cfg.Consent,
		baselines:      cfg.Baselines,
		state:          StateIdle,
		clk:            cfg.Clock,
		engine:         metrics.NewEngine(cfg.Metrics),
		sampleInterval: cfg.SampleInterval,
		alertLog:       alerting.NewLog(),
		reportReady:    make(chan struct{}),
		gen:            cfg.Narrative,
		events:         cfg.Events,
		log:            cfg.Log.With("session_id", id),
		lastTransition: cfg.Clock.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) PatientRef() string {
	return s.patientRef
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Baselines() alerting.Baselines {
	return s.baselines
}

// ElapsedSec is session time: wall-clock since start minus time spent
// paused. It is zero while Idle, frozen while Paused, and fixed once Ended.
func (s *Session) ElapsedSec() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(s.elapsedLocked(s.clk.Now()).Seconds())
}

func (s *Session) elapsedLocked(now time.Time) time.Duration {
	switch s.state {
	case StateIdle:
		return 0
	case StatePaused:
		return s.pausedAt.Sub(s.startedAt) - s.accumulatedPaused
	case StateEnded:
		return s.endedAt.Sub(s.startedAt) - s.accumulatedPaused
	default:
		return now.Sub(s.startedAt) - s.accumulatedPaused
	}
}

// Start moves Idle to Active and begins sampling. Starting a session that is
// not Idle is a caller-side race and is ignored.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.consent {
		return ErrConsentRequired
	}
	if s.state != StateIdle {
		return nil
	}

	now := s.clk.Now()
	s.state = StateActive
	s.startedAt = now
	s.lastTransition = now
	s.startSamplerLocked()

	s.log.Info("session started", "patient_ref", s.patientRef)
	s.emit(Event{Type: EventState, Payload: s.state})
	return nil
}

// Pause suspends sampling and freezes the elapsed clock. No-op unless Active.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return
	}

	now := s.clk.Now()
	s.state = StatePaused
	s.pausedAt = now
	s.lastTransition = now
	s.stopSamplerLocked()

	s.log.Info("session paused", "elapsed_sec", int(s.elapsedLocked(now).Seconds()))
	s.emit(Event{Type: EventState, Payload: s.state})
}

// Resume folds the paused interval into accumulatedPaused and restarts
// sampling. Rolling buffers are kept, so estimates do not cold-start.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return
	}

	now := s.clk.Now()
	s.accumulatedPaused += now.Sub(s.pausedAt)
	s.state = StateActive
	s.lastTransition = now
	s.startSamplerLocked()

	s.log.Info("session resumed", "paused_total_ms", s.accumulatedPaused.Milliseconds())
	s.emit(Event{Type: EventState, Payload: s.state})
}

// End is terminal and one-way: it stops sampling, freezes history, and
// builds the report exactly once. The report is published only after the
// narrative resolves, so a reader never observes it half-built. Ending an
// Ended session waits for that publication and returns the same report;
// ending an Idle session reports ErrNotStarted.
func (s *Session) End(ctx context.Context) (*report.SessionReport, error) {
	s.mu.Lock()

	switch s.state {
	case StateIdle:
		s.mu.Unlock()
		return nil, ErrNotStarted
	case StateEnded:
		s.mu.Unlock()
		<-s.reportReady
		s.mu.Lock()
		r := s.report
		s.mu.Unlock()
		return r, nil
	case StatePaused:
		s.accumulatedPaused += s.clk.Now().Sub(s.pausedAt)
	}

	now := s.clk.Now()
	s.state = StateEnded
	s.endedAt = now
	s.lastTransition = now
	s.stopSamplerLocked()

	durationSec := int(s.elapsedLocked(now).Seconds())
	samples := make([]report.Sample, len(s.history))
	for i, m := range s.history {
		samples[i] = report.Sample{
			ElapsedSec:       m.ElapsedSec,
			EyeContactPct:    m.EyeContactPct,
			GazeStabilityPct: m.GazeStabilityPct,
			BreathingBpm:     m.BreathingBpm,
			DominantEmotion:  m.DominantEmotion,
		}
	}
	alerts := s.alertLog.Entries()

	r := report.Build(report.BuildInput{
		SessionID:   s.id,
		PatientRef:  s.patientRef,
		DurationSec: durationSec,
		Samples:     samples,
		Alerts:      alerts,
		Baselines:   s.baselines,
		Now:         now,
	})
	s.mu.Unlock()

	// the narrative call can take seconds and must not hold the session
	// lock; the report stays local until it is complete, so Report readers
	// never see it mutate
	r.Narrative = s.generateNarrative(ctx, r)

	s.mu.Lock()
	s.report = r
	s.mu.Unlock()
	close(s.reportReady)

	s.log.Info("session ended",
		"duration_sec", durationSec,
		"samples", len(samples),
		"alerts", len(alerts))

	s.emit(Event{Type: EventState, Payload: StateEnded})
	s.emit(Event{Type: EventReport, Payload: r})
	return r, nil
}

func (s *Session) generateNarrative(ctx context.Context, r *report.SessionReport) string {
	if s.gen == nil {
		return narrative.Fallback
	}

	messages := make([]string, len(r.Alerts))
	for i, a := range r.Alerts {
		messages[i] = a.Message
	}

	var dominant string
	var best float64
	for label, share := range r.EmotionBreakdown {
		if share > best {
			dominant = label
			best = share
		}
	}

	text, err := s.gen.Generate(ctx, narrative.Summary{
		DurationSec:          r.DurationSec,
		AvgEyeContactPct:     r.Statistics[report.MetricEyeContact].Avg,
		AvgGazeStabilityPct:  r.Statistics[report.MetricGazeStability].Avg,
		AvgBreathingBpm:      r.Statistics[report.MetricBreathing].Avg,
		BaselineBreathingBpm: s.baselines.BreathingBpm,
		BaselineEyeContact:   s.baselines.EyeContactPct,
		DominantEmotion:      dominant,
		AlertMessages:        messages,
	})
	if err != nil {
		s.log.Warn("narrative generation failed, using fallback", "error", err)
		return narrative.Fallback
	}
	return text
}

// Observe feeds one snapshot from the landmark source into the extractor
// engine. Snapshots arriving while the session is not Active are dropped.
// A nil snapshot is a no-face tick; extractors hold their last values.
// The engine call happens under the session lock so a frame in flight when
// Pause wins the lock cannot land in the rolling buffers.
func (s *Session) Observe(snap *landmark.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		s.dropped++
		return
	}
	s.engine.Observe(snap)
}

func (s *Session) LatestSample() (MetricSample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return MetricSample{}, false
	}
	return s.history[len(s.history)-1], true
}

func (s *Session) History() []MetricSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MetricSample(nil), s.history...)
}

func (s *Session) Alerts() []alerting.Alert {
	return s.alertLog.Entries()
}

// Report returns the final report, nil until the session has ended.
func (s *Session) Report() *report.SessionReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

func (s *Session) lastTransitionAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTransition
}

func (s *Session) emit(evt Event) {
	if s.events == nil {
		return
	}
	s.events(s.id, evt)
}
