package narrative

import "time"

// Fallback replaces the narrative when the collaborator errors or times out;
// the rest of the report is unaffected.
const Fallback = "Narrative analysis unavailable."

// Summary is the structured numeric input handed to the text-generation
// collaborator. The string it returns is embedded verbatim in the report and
// never parsed.
type Summary struct {
	DurationSec          int
	AvgEyeContactPct     float64
	AvgGazeStabilityPct  float64
	AvgBreathingBpm      float64
	BaselineBreathingBpm float64
	BaselineEyeContact   float64
	DominantEmotion      string
	AlertMessages        []string
}

type Config struct {
	URL     string
	Model   string
	Timeout time.Duration
}
