package alerting

import (
	"fmt"
	"time"
)

type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type Alert struct {
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Minute    int       `json:"minute"`
	Timestamp time.Time `json:"timestamp"`
}

// Baselines are therapist-supplied per-session inputs. The evaluator and the
// report aggregator read them; nothing mutates them.
type Baselines struct {
	BreathingBpm  float64 `json:"breathing_bpm"`
	EyeContactPct float64 `json:"eye_contact_pct"`
}

// Sample is the slice of a metric sample the rules need.
type Sample struct {
	ElapsedSec       int
	EyeContactPct    float64
	GazeStabilityPct float64
	BreathingBpm     float64
}

const (
	hyperventilationBpm   = 25
	breathingElevatedMult = 1.5
	lowEyeContactPct      = 20
	lowEyeContactAfterSec = 45
	fixedGazePct          = 95
	fixedGazeAfterSec     = 90
	rapidGazePct          = 30
)

// Evaluate runs every rule against one sample. Rules are independent; any
// number may fire. Deduplication is the Log's concern, not this function's.
func Evaluate(s Sample, b Baselines, now time.Time) []Alert {
	minute := s.ElapsedSec / 60
	var alerts []Alert

	add := func(sev Severity, msg string) {
		alerts = append(alerts, Alert{
			Severity:  sev,
			Message:   msg,
			Minute:    minute,
			Timestamp: now,
		})
	}

	switch {
	case s.BreathingBpm > hyperventilationBpm:
		add(SeverityCritical, fmt.Sprintf("Hyperventilation detected (%.0f breaths/min)", s.BreathingBpm))
	case b.BreathingBpm > 0 && s.BreathingBpm > b.BreathingBpm*breathingElevatedMult:
		add(SeverityWarning, fmt.Sprintf("Breathing rate increased 50%% (%.0f bpm)", s.BreathingBpm))
	}

	if s.EyeContactPct < lowEyeContactPct && s.ElapsedSec > lowEyeContactAfterSec {
		add(SeverityWarning, fmt.Sprintf("Minimal eye contact for extended period (%.0f%%)", s.EyeContactPct))
	}

	if s.GazeStabilityPct > fixedGazePct && s.ElapsedSec > fixedGazeAfterSec {
		add(SeverityWarning, "Gaze patterns suggest possible dissociation")
	}

	if s.GazeStabilityPct < rapidGazePct {
		add(SeverityWarning, "Rapid eye movement suggesting heightened anxiety")
	}

	return alerts
}
