package bootstrap

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddr string
	LogLevel   string

	NarrativeURL     string
	NarrativeModel   string
	NarrativeTimeout time.Duration

	SampleInterval time.Duration

	BaselineBreathingBpm  float64
	BaselineEyeContactPct float64

	GazeWindow        time.Duration
	GazeMinSamples    int
	GazeDefaultPct    float64
	BreathWindow      time.Duration
	BreathMinSamples  int
	BreathPeakEpsilon float64
	BreathRefractory  int

	SessionIdleTimeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		NarrativeURL:     getEnv("NARRATIVE_URL", "http://localhost:11434"),
		NarrativeModel:   getEnv("NARRATIVE_MODEL", "llama3.2"),
		NarrativeTimeout: getEnvDuration("NARRATIVE_TIMEOUT_MS", 30*time.Second),

		SampleInterval: getEnvDuration("SAMPLE_INTERVAL_MS", 3*time.Second),

		BaselineBreathingBpm:  getEnvFloat("BASELINE_BREATHING_BPM", 14),
		BaselineEyeContactPct: getEnvFloat("BASELINE_EYE_CONTACT_PCT", 60),

		GazeWindow:        getEnvDuration("GAZE_WINDOW_MS", 2*time.Second),
		GazeMinSamples:    getEnvInt("GAZE_MIN_SAMPLES", 10),
		GazeDefaultPct:    getEnvFloat("GAZE_DEFAULT_PCT", 90),
		BreathWindow:      getEnvDuration("BREATH_WINDOW_MS", 10*time.Second),
		BreathMinSamples:  getEnvInt("BREATH_MIN_SAMPLES", 50),
		BreathPeakEpsilon: getEnvFloat("BREATH_PEAK_EPSILON", 0.015),
		BreathRefractory:  getEnvInt("BREATH_REFRACTORY", 5),

		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT_MS", 2*time.Hour),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if ms, err := strconv.Atoi(value); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}
