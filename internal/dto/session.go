package dto

import "time"

type CreateSessionRequest struct {
	PatientRef            string  `json:"patient_ref"`
	Consent               bool    `json:"consent"`
	BaselineBreathingBpm  float64 `json:"baseline_breathing_bpm,omitempty"`
	BaselineEyeContactPct float64 `json:"baseline_eye_contact_pct,omitempty"`
}

type Baselines struct {
	BreathingBpm  float64 `json:"breathing_bpm"`
	EyeContactPct float64 `json:"eye_contact_pct"`
}

type MetricSample struct {
	ElapsedSec       int     `json:"session_elapsed_sec"`
	EyeContactPct    float64 `json:"eye_contact_pct"`
	GazeStabilityPct float64 `json:"gaze_stability_pct"`
	BreathingBpm     float64 `json:"breathing_bpm"`
	DominantEmotion  string  `json:"dominant_emotion"`
}

type Alert struct {
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Minute    int       `json:"minute"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionResponse struct {
	ID           string        `json:"id"`
	PatientRef   string        `json:"patient_ref"`
	State        string        `json:"state"`
	ElapsedSec   int           `json:"elapsed_sec"`
	Baselines    Baselines     `json:"baselines"`
	LatestSample *MetricSample `json:"latest_sample,omitempty"`
	Alerts       []Alert       `json:"alerts"`
}

type SessionSummary struct {
	ID         string `json:"id"`
	PatientRef string `json:"patient_ref"`
	State      string `json:"state"`
	ElapsedSec int    `json:"elapsed_sec"`
}

type SessionListResponse struct {
	Total    int              `json:"total"`
	Sessions []SessionSummary `json:"sessions"`
}
