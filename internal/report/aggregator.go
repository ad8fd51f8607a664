package report

import (
	"math"
	"time"

	"github.com/eleven-am/insight-backend/internal/alerting"
)

// timeline granularity
const segmentMinutes = 5

// Sample is one aggregation input row, in elapsed-time order.
type Sample struct {
	ElapsedSec       int
	EyeContactPct    float64
	GazeStabilityPct float64
	BreathingBpm     float64
	DominantEmotion  string
}

type BuildInput struct {
	SessionID   string
	PatientRef  string
	DurationSec int
	Samples     []Sample
	Alerts      []alerting.Alert
	Baselines   alerting.Baselines
	Now         time.Time
}

// Build reduces a session's full metric history into the final report. It is
// total: zero samples produce zeroed statistics and an explicit no-data
// timeline, never a division by zero.
func Build(in BuildInput) *SessionReport {
	r := &SessionReport{
		SessionID:   in.SessionID,
		PatientRef:  in.PatientRef,
		DurationSec: in.DurationSec,
		Statistics: map[string]Stats{
			MetricEyeContact:    computeStats(in.Samples, func(s Sample) float64 { return s.EyeContactPct }),
			MetricGazeStability: computeStats(in.Samples, func(s Sample) float64 { return s.GazeStabilityPct }),
			MetricBreathing:     computeStats(in.Samples, func(s Sample) float64 { return s.BreathingBpm }),
		},
		EmotionBreakdown: emotionBreakdown(in.Samples),
		AlertCount:       len(in.Alerts),
		Alerts:           append([]alerting.Alert(nil), in.Alerts...),
		Baselines:        in.Baselines,
		GeneratedAt:      in.Now,
	}

	r.Insights = buildInsights(r.Statistics, in.Baselines)
	r.Timeline = buildTimeline(in.Samples, in.Baselines)

	return r
}

func computeStats(samples []Sample, value func(Sample) float64) Stats {
	if len(samples) == 0 {
		return Stats{}
	}

	st := Stats{
		Min:   value(samples[0]),
		Max:   value(samples[0]),
		Count: len(samples),
	}

	var sum float64
	for _, s := range samples {
		v := value(s)
		sum += v
		if v < st.Min {
			st.Min = v
		}
		if v > st.Max {
			st.Max = v
		}
	}
	st.Avg = sum / float64(len(samples))

	var sq float64
	for _, s := range samples {
		d := value(s) - st.Avg
		sq += d * d
	}
	st.StdDev = math.Sqrt(sq / float64(len(samples)))

	return st
}

// emotionBreakdown is the share of samples each dominant label held.
func emotionBreakdown(samples []Sample) map[string]float64 {
	if len(samples) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, s := range samples {
		label := s.DominantEmotion
		if label == "" {
			label = "neutral"
		}
		counts[label]++
	}
	breakdown := make(map[string]float64, len(counts))
	for label, n := range counts {
		breakdown[label] = float64(n) / float64(len(samples))
	}
	return breakdown
}

func buildTimeline(samples []Sample, b alerting.Baselines) []TimelineSegment {
	if len(samples) == 0 {
		return []TimelineSegment{{
			StartMinute: 0,
			EndMinute:   0,
			Status:      SegmentNoData,
			Note:        "no data collected",
		}}
	}

	lastMinute := samples[len(samples)-1].ElapsedSec / 60
	var timeline []TimelineSegment
	for start := 0; start <= lastMinute; start += segmentMinutes {
		end := start + segmentMinutes

		var seg []Sample
		for _, s := range samples {
			minute := s.ElapsedSec / 60
			if minute >= start && minute < end {
				seg = append(seg, s)
			}
		}
		if len(seg) == 0 {
			continue
		}

		status, note := classifySegment(seg, b)
		timeline = append(timeline, TimelineSegment{
			StartMinute: start,
			EndMinute:   end,
			Status:      status,
			Note:        note,
		})
	}
	return timeline
}

func classifySegment(seg []Sample, b alerting.Baselines) (SegmentStatus, string) {
	breath := computeStats(seg, func(s Sample) float64 { return s.BreathingBpm })
	eye := computeStats(seg, func(s Sample) float64 { return s.EyeContactPct })
	gaze := computeStats(seg, func(s Sample) float64 { return s.GazeStabilityPct })

	switch {
	case b.BreathingBpm > 0 && breath.Avg > b.BreathingBpm*1.3:
		return SegmentNotable, "elevated breathing rate"
	case eye.Avg < 20:
		return SegmentNotable, "minimal eye contact"
	case gaze.Avg > 95:
		return SegmentNotable, "fixed gaze"
	case gaze.Avg < 30:
		return SegmentNotable, "rapid gaze movement"
	case breath.StdDev > 2 || gaze.StdDev > 10 || eye.StdDev > 15:
		return SegmentMild, "fluctuating readings"
	default:
		return SegmentStable, ""
	}
}
