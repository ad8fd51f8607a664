package metrics

import "time"

// Config carries the tuning constants for the extractors. The defaults are
// reasonable starting points, not a validated clinical calibration; every
// deployment is expected to tune them via bootstrap config.
type Config struct {
	// GazeWindow bounds the nose-tip position buffer by wall-clock age.
	GazeWindow time.Duration
	// GazeMinSamples is the fill required before stability is computed;
	// below it the extractor reports GazeDefaultPct.
	GazeMinSamples int
	// GazeDefaultPct is the insufficient-data stability value, chosen high
	// so session start does not read as instability.
	GazeDefaultPct float64

	// BreathWindow bounds the lip-separation buffer; it must cover at least
	// one full respiratory cycle.
	BreathWindow time.Duration
	// BreathMinSamples is the fill required before a new rate estimate.
	BreathMinSamples int
	// BreathPeakEpsilon sets the peak threshold at mean*(1+epsilon).
	BreathPeakEpsilon float64
	// BreathRefractory is the minimum sample gap between counted peaks,
	// preventing one breath from counting twice.
	BreathRefractory int
}

func DefaultConfig() Config {
	return Config{
		GazeWindow:        2 * time.Second,
		GazeMinSamples:    10,
		GazeDefaultPct:    90,
		BreathWindow:      10 * time.Second,
		BreathMinSamples:  50,
		BreathPeakEpsilon: 0.015,
		BreathRefractory:  5,
	}
}
