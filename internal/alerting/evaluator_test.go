package alerting

import (
	"strings"
	"testing"
	"time"
)

var calmBaselines = Baselines{BreathingBpm: 14, EyeContactPct: 60}

func calmSample(elapsedSec int) Sample {
	return Sample{
		ElapsedSec:       elapsedSec,
		EyeContactPct:    70,
		GazeStabilityPct: 85,
		BreathingBpm:     14,
	}
}

func TestEvaluate_CalmSampleRaisesNothing(t *testing.T) {
	got := Evaluate(calmSample(300), calmBaselines, time.Now())
	if len(got) != 0 {
		t.Errorf("expected no alerts, got %v", got)
	}
}

func TestEvaluate_Hyperventilation(t *testing.T) {
	s := calmSample(300)
	s.BreathingBpm = 26

	got := Evaluate(s, calmBaselines, time.Now())
	if len(got) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(got))
	}
	if got[0].Severity != SeverityCritical {
		t.Errorf("expected critical, got %s", got[0].Severity)
	}
	if !strings.Contains(got[0].Message, "Hyperventilation") {
		t.Errorf("unexpected message %q", got[0].Message)
	}
	if got[0].Minute != 5 {
		t.Errorf("expected minute 5, got %d", got[0].Minute)
	}
}

func TestEvaluate_ElevatedBreathingIsWarning(t *testing.T) {
	s := calmSample(300)
	s.BreathingBpm = 22 // over 14*1.5 but under the critical cutoff

	got := Evaluate(s, calmBaselines, time.Now())
	if len(got) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(got))
	}
	if got[0].Severity != SeverityWarning {
		t.Errorf("expected warning, got %s", got[0].Severity)
	}
	if !strings.Contains(got[0].Message, "Breathing rate increased") {
		t.Errorf("unexpected message %q", got[0].Message)
	}
}

func TestEvaluate_BreathingRulesAreExclusive(t *testing.T) {
	// 26 bpm trips both thresholds but only the critical rule fires
	s := calmSample(300)
	s.BreathingBpm = 26

	got := Evaluate(s, calmBaselines, time.Now())
	if len(got) != 1 {
		t.Errorf("expected exactly 1 breathing alert, got %d: %v", len(got), got)
	}
}

func TestEvaluate_ZeroBaselineSkipsElevatedRule(t *testing.T) {
	s := calmSample(300)
	s.BreathingBpm = 22

	got := Evaluate(s, Baselines{}, time.Now())
	if len(got) != 0 {
		t.Errorf("no baseline should mean no elevated-breathing alert, got %v", got)
	}
}

func TestEvaluate_LowEyeContactGatedByElapsed(t *testing.T) {
	s := calmSample(30)
	s.EyeContactPct = 10

	if got := Evaluate(s, calmBaselines, time.Now()); len(got) != 0 {
		t.Errorf("rule should not fire at 30s, got %v", got)
	}

	s.ElapsedSec = 46
	got := Evaluate(s, calmBaselines, time.Now())
	if len(got) != 1 {
		t.Fatalf("expected 1 alert at 46s, got %d", len(got))
	}
	if !strings.Contains(got[0].Message, "Minimal eye contact") {
		t.Errorf("unexpected message %q", got[0].Message)
	}
}

func TestEvaluate_FixedGazeGatedByElapsed(t *testing.T) {
	s := calmSample(60)
	s.GazeStabilityPct = 97

	if got := Evaluate(s, calmBaselines, time.Now()); len(got) != 0 {
		t.Errorf("rule should not fire at 60s, got %v", got)
	}

	s.ElapsedSec = 91
	got := Evaluate(s, calmBaselines, time.Now())
	if len(got) != 1 {
		t.Fatalf("expected 1 alert at 91s, got %d", len(got))
	}
	if !strings.Contains(got[0].Message, "dissociation") {
		t.Errorf("unexpected message %q", got[0].Message)
	}
}

func TestEvaluate_RapidGazeFiresImmediately(t *testing.T) {
	s := calmSample(5)
	s.GazeStabilityPct = 25

	got := Evaluate(s, calmBaselines, time.Now())
	if len(got) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(got))
	}
	if !strings.Contains(got[0].Message, "anxiety") {
		t.Errorf("unexpected message %q", got[0].Message)
	}
}

func TestEvaluate_MultipleRulesStack(t *testing.T) {
	s := Sample{
		ElapsedSec:       120,
		EyeContactPct:    5,
		GazeStabilityPct: 10,
		BreathingBpm:     28,
	}

	got := Evaluate(s, calmBaselines, time.Now())
	if len(got) != 3 {
		t.Errorf("expected hyperventilation, eye contact and rapid gaze, got %d: %v", len(got), got)
	}
}
