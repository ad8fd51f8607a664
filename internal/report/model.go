package report

import (
	"time"

	"github.com/eleven-am/insight-backend/internal/alerting"
)

// Metric keys used in Statistics and Insights.
const (
	MetricEyeContact    = "eye_contact_pct"
	MetricGazeStability = "gaze_stability_pct"
	MetricBreathing     = "breathing_bpm"
)

type SegmentStatus string

const (
	SegmentStable  SegmentStatus = "stable"
	SegmentMild    SegmentStatus = "mild_variation"
	SegmentNotable SegmentStatus = "notable_markers"
	SegmentNoData  SegmentStatus = "no_data"
)

type Stats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	StdDev float64 `json:"std_dev"`
	Count  int     `json:"count"`
}

type TimelineSegment struct {
	StartMinute int           `json:"start_minute"`
	EndMinute   int           `json:"end_minute"`
	Status      SegmentStatus `json:"status"`
	Note        string        `json:"note,omitempty"`
}

// SessionReport is built exactly once when a session ends and never mutated
// afterwards. It serializes to a flat JSON document for export.
type SessionReport struct {
	SessionID        string                `json:"session_id"`
	PatientRef       string                `json:"patient_ref"`
	DurationSec      int                   `json:"duration_sec"`
	Statistics       map[string]Stats      `json:"statistics"`
	Insights         map[string]string     `json:"insights"`
	EmotionBreakdown map[string]float64    `json:"emotion_breakdown,omitempty"`
	Timeline         []TimelineSegment     `json:"timeline"`
	AlertCount       int                   `json:"alert_count"`
	Alerts           []alerting.Alert      `json:"alerts"`
	Baselines        alerting.Baselines    `json:"baselines"`
	Narrative        string                `json:"narrative"`
	GeneratedAt      time.Time             `json:"generated_at"`
}
