package metrics

import (
	"github.com/eleven-am/insight-backend/internal/landmark"
)

const (
	breathingMinBpm = 8
	breathingMaxBpm = 30

	// resting adult rate, reported until the window fills
	breathingRestingBpm = 14
)

// Breathing estimates breaths per minute from the vertical separation between
// nose tip and upper lip, a proxy for the facial micro-movement that tracks
// respiration. Peaks in the separation series are counted over the window's
// observed span and smoothed one step against the previous estimate.
type Breathing struct {
	cfg    Config
	window *scalarWindow
	last   float64
}

func NewBreathing(cfg Config) *Breathing {
	return &Breathing{
		cfg:    cfg,
		window: newScalarWindow(cfg.BreathWindow),
		last:   breathingRestingBpm,
	}
}

func (b *Breathing) Update(snap *landmark.Snapshot) float64 {
	if !snap.HasPoints(landmark.NoseTip, landmark.UpperLip) {
		return b.last
	}
	nose, _ := snap.Point(landmark.NoseTip)
	lip, _ := snap.Point(landmark.UpperLip)

	b.window.Append(snap.CapturedAtMs, lip.Y-nose.Y)
	if b.window.Len() < b.cfg.BreathMinSamples {
		return b.last
	}

	spanMs := b.window.SpanMs()
	if spanMs <= 0 {
		return b.last
	}

	peaks := b.countPeaks()
	raw := float64(peaks) / (float64(spanMs) / 1000) * 60
	raw = clampBpm(raw)

	b.last = (raw + b.last) / 2
	return b.last
}

// countPeaks finds local maxima above mean*(1+epsilon), skipping
// BreathRefractory samples after each hit so a single breath is not counted
// twice.
func (b *Breathing) countPeaks() int {
	vals := b.window.vals

	var mean float64
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	threshold := mean * (1 + b.cfg.BreathPeakEpsilon)

	peaks := 0
	lastPeak := -b.cfg.BreathRefractory
	for i := 1; i < len(vals)-1; i++ {
		if vals[i] <= threshold {
			continue
		}
		if vals[i] < vals[i-1] || vals[i] < vals[i+1] {
			continue
		}
		if i-lastPeak < b.cfg.BreathRefractory {
			continue
		}
		peaks++
		lastPeak = i
	}
	return peaks
}

func (b *Breathing) Current() float64 {
	return b.last
}

func clampBpm(v float64) float64 {
	if v < breathingMinBpm {
		return breathingMinBpm
	}
	if v > breathingMaxBpm {
		return breathingMaxBpm
	}
	return v
}
