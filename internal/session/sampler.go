package session

import (
	"github.com/eleven-am/insight-backend/internal/alerting"
)

// The sampler runs on a fixed cadence while the session is Active. It reads
// whatever the engine currently holds; it never waits for a fresh frame, so
// inference jitter only ever means a slightly stale sample.

func (s *Session) startSamplerLocked() {
	stop := make(chan struct{})
	done := make(chan struct{})
	s.samplerStop = stop
	s.samplerDone = done

	ticker := s.clk.Ticker(s.sampleInterval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.sample()
			}
		}
	}()
}

// stopSamplerLocked signals the sampler goroutine. The goroutine may still
// be mid-tick, but sample() re-checks the state under the session lock, so
// no sample or alert lands after a transition out of Active.
func (s *Session) stopSamplerLocked() {
	if s.samplerStop != nil {
		close(s.samplerStop)
		s.samplerStop = nil
	}
}

func (s *Session) sample() {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return
	}

	now := s.clk.Now()
	elapsed := int(s.elapsedLocked(now).Seconds())
	vals := s.engine.Current()

	sample := MetricSample{
		ElapsedSec:       elapsed,
		EyeContactPct:    vals.EyeContactPct,
		GazeStabilityPct: vals.GazeStabilityPct,
		BreathingBpm:     vals.BreathingBpm,
		DominantEmotion:  vals.DominantEmotion,
	}
	s.history = append(s.history, sample)

	alerts := alerting.Evaluate(alerting.Sample{
		ElapsedSec:       elapsed,
		EyeContactPct:    vals.EyeContactPct,
		GazeStabilityPct: vals.GazeStabilityPct,
		BreathingBpm:     vals.BreathingBpm,
	}, s.baselines, now)

	var kept []alerting.Alert
	for _, a := range alerts {
		if s.alertLog.Add(a, elapsed) {
			kept = append(kept, a)
		}
	}
	s.mu.Unlock()

	s.emit(Event{Type: EventSample, Payload: sample})
	for _, a := range kept {
		s.log.Warn("alert raised",
			"severity", a.Severity,
			"message", a.Message,
			"minute", a.Minute)
		s.emit(Event{Type: EventAlert, Payload: a})
	}
}
