package metrics

import (
	"math"
	"testing"

	"github.com/eleven-am/insight-backend/internal/landmark"
)

func breathSnapshot(ts int64, separation float64) *landmark.Snapshot {
	return &landmark.Snapshot{
		Points: map[string]landmark.Point{
			landmark.NoseTip:  {X: 320, Y: 200},
			landmark.UpperLip: {X: 320, Y: 200 + separation},
		},
		CapturedAtMs: ts,
		FrameWidth:   640,
		FrameHeight:  480,
	}
}

// separation oscillating at freqHz around a 40px mean
func feedBreathing(b *Breathing, fromMs, toMs, stepMs int64, freqHz float64) float64 {
	var got float64
	for ts := fromMs; ts < toMs; ts += stepMs {
		sec := float64(ts) / 1000
		sep := 40 + 2*math.Sin(2*math.Pi*freqHz*sec)
		got = b.Update(breathSnapshot(ts, sep))
	}
	return got
}

func TestBreathing_HoldsUntilWindowFills(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBreathing(cfg)

	for i := 0; i < cfg.BreathMinSamples-1; i++ {
		got := b.Update(breathSnapshot(int64(i*100), 40))
		if got != breathingRestingBpm {
			t.Fatalf("sample %d: expected resting default %v, got %v", i, float64(breathingRestingBpm), got)
		}
	}
}

func TestBreathing_EstimatesRateFromPeaks(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBreathing(cfg)

	// 0.25 Hz breathing = 15 bpm, sampled at 10 fps for 30s
	got := feedBreathing(b, 0, 30000, 100, 0.25)

	if got < 10 || got > 20 {
		t.Errorf("expected estimate near 15 bpm for 0.25Hz signal, got %v", got)
	}
}

func TestBreathing_ClampsToRange(t *testing.T) {
	cfg := DefaultConfig()

	fast := NewBreathing(cfg)
	gotFast := feedBreathing(fast, 0, 30000, 100, 1.5) // 90 bpm signal
	if gotFast > breathingMaxBpm {
		t.Errorf("estimate %v exceeds max %v", gotFast, float64(breathingMaxBpm))
	}

	flat := NewBreathing(cfg)
	var gotFlat float64
	for ts := int64(0); ts < 30000; ts += 100 {
		gotFlat = flat.Update(breathSnapshot(ts, 40)) // no peaks at all
	}
	if gotFlat < breathingMinBpm {
		t.Errorf("estimate %v below min %v", gotFlat, float64(breathingMinBpm))
	}
}

func TestBreathing_SmoothsAgainstPrevious(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBreathing(cfg)

	feedBreathing(b, 0, 20000, 100, 0.25)
	before := b.Current()

	// one more sample can move the estimate at most half way to the raw
	// clamp bounds
	after := feedBreathing(b, 20000, 20100, 100, 0.25)
	if math.Abs(after-before) > (breathingMaxBpm-breathingMinBpm)/2 {
		t.Errorf("single step moved estimate from %v to %v", before, after)
	}
}

func TestBreathing_MissingLipHoldsValue(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBreathing(cfg)

	before := feedBreathing(b, 0, 15000, 100, 0.25)

	noLip := &landmark.Snapshot{
		Points:       map[string]landmark.Point{landmark.NoseTip: {X: 320, Y: 200}},
		CapturedAtMs: 15100,
	}
	for i := 0; i < 10; i++ {
		if got := b.Update(noLip); got != before {
			t.Fatalf("missing upper lip should hold %v, got %v", before, got)
		}
	}
}
