package report

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/eleven-am/insight-backend/internal/alerting"
)

var testBaselines = alerting.Baselines{BreathingBpm: 14, EyeContactPct: 60}

func steadySamples(n, stepSec int) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = Sample{
			ElapsedSec:       i * stepSec,
			EyeContactPct:    70,
			GazeStabilityPct: 85,
			BreathingBpm:     14,
			DominantEmotion:  "neutral",
		}
	}
	return samples
}

func TestBuild_ZeroSamples(t *testing.T) {
	r := Build(BuildInput{
		SessionID:   "ses_empty",
		PatientRef:  "anon-1",
		DurationSec: 0,
		Baselines:   testBaselines,
		Now:         time.Now(),
	})

	for _, key := range []string{MetricEyeContact, MetricGazeStability, MetricBreathing} {
		st := r.Statistics[key]
		if st.Count != 0 {
			t.Errorf("%s: expected count 0, got %d", key, st.Count)
		}
		if st.Avg != 0 || st.StdDev != 0 || st.Min != 0 || st.Max != 0 {
			t.Errorf("%s: expected zeroed stats, got %+v", key, st)
		}
	}

	if len(r.Timeline) != 1 || r.Timeline[0].Status != SegmentNoData {
		t.Errorf("expected single no_data segment, got %v", r.Timeline)
	}
	if r.EmotionBreakdown != nil {
		t.Errorf("expected no emotion breakdown, got %v", r.EmotionBreakdown)
	}
}

func TestBuild_ConstantValuesStatistics(t *testing.T) {
	// twenty minutes of unchanging readings at one sample per 3s
	samples := steadySamples(400, 3)
	r := Build(BuildInput{
		SessionID:   "ses_steady",
		DurationSec: 1200,
		Samples:     samples,
		Baselines:   testBaselines,
		Now:         time.Now(),
	})

	st := r.Statistics[MetricBreathing]
	if st.Count != 400 {
		t.Errorf("expected 400 samples, got %d", st.Count)
	}
	if st.Avg != 14 || st.Min != 14 || st.Max != 14 {
		t.Errorf("constant input should yield avg=min=max=14, got %+v", st)
	}
	if st.StdDev != 0 {
		t.Errorf("constant input should yield std dev 0, got %v", st.StdDev)
	}

	for _, seg := range r.Timeline {
		if seg.Status != SegmentStable {
			t.Errorf("segment %d-%d: expected stable, got %s", seg.StartMinute, seg.EndMinute, seg.Status)
		}
	}
	if r.AlertCount != 0 {
		t.Errorf("expected 0 alerts, got %d", r.AlertCount)
	}
}

func TestComputeStats_PopulationStdDev(t *testing.T) {
	samples := []Sample{
		{BreathingBpm: 10},
		{BreathingBpm: 14},
		{BreathingBpm: 18},
	}
	st := computeStats(samples, func(s Sample) float64 { return s.BreathingBpm })

	if st.Min != 10 || st.Max != 18 {
		t.Errorf("expected min 10 max 18, got %+v", st)
	}
	if st.Avg != 14 {
		t.Errorf("expected avg 14, got %v", st.Avg)
	}
	want := math.Sqrt(32.0 / 3.0)
	if math.Abs(st.StdDev-want) > 1e-9 {
		t.Errorf("expected population std dev %v, got %v", want, st.StdDev)
	}
}

func TestEmotionBreakdown_Shares(t *testing.T) {
	samples := []Sample{
		{DominantEmotion: "happy"},
		{DominantEmotion: "happy"},
		{DominantEmotion: "sad"},
		{DominantEmotion: ""}, // counts as neutral
	}
	got := emotionBreakdown(samples)

	if math.Abs(got["happy"]-0.5) > 1e-9 {
		t.Errorf("expected happy 0.5, got %v", got["happy"])
	}
	if math.Abs(got["sad"]-0.25) > 1e-9 {
		t.Errorf("expected sad 0.25, got %v", got["sad"])
	}
	if math.Abs(got["neutral"]-0.25) > 1e-9 {
		t.Errorf("expected neutral 0.25, got %v", got["neutral"])
	}
}

func TestBuildTimeline_SegmentsByFiveMinutes(t *testing.T) {
	// 12 minutes of data lands in segments 0-5, 5-10 and 10-15
	samples := steadySamples(240, 3)
	timeline := buildTimeline(samples, testBaselines)

	if len(timeline) != 3 {
		t.Fatalf("expected 3 segments, got %d: %v", len(timeline), timeline)
	}
	wantStarts := []int{0, 5, 10}
	for i, seg := range timeline {
		if seg.StartMinute != wantStarts[i] || seg.EndMinute != wantStarts[i]+segmentMinutes {
			t.Errorf("segment %d: got %d-%d", i, seg.StartMinute, seg.EndMinute)
		}
	}
}

func TestClassifySegment_NotableMarkers(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Sample)
		note   string
	}{
		{"elevated breathing", func(s *Sample) { s.BreathingBpm = 20 }, "elevated breathing rate"},
		{"minimal eye contact", func(s *Sample) { s.EyeContactPct = 10 }, "minimal eye contact"},
		{"fixed gaze", func(s *Sample) { s.GazeStabilityPct = 97 }, "fixed gaze"},
		{"rapid gaze", func(s *Sample) { s.GazeStabilityPct = 20 }, "rapid gaze movement"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			seg := steadySamples(10, 3)
			for i := range seg {
				c.mutate(&seg[i])
			}
			status, note := classifySegment(seg, testBaselines)
			if status != SegmentNotable {
				t.Errorf("expected notable_markers, got %s", status)
			}
			if note != c.note {
				t.Errorf("expected note %q, got %q", c.note, note)
			}
		})
	}
}

func TestClassifySegment_MildVariation(t *testing.T) {
	seg := steadySamples(10, 3)
	for i := range seg {
		if i%2 == 0 {
			seg[i].BreathingBpm = 11
		} else {
			seg[i].BreathingBpm = 17 // swing of 3 around the mean
		}
	}
	status, _ := classifySegment(seg, testBaselines)
	if status != SegmentMild {
		t.Errorf("expected mild_variation, got %s", status)
	}
}

func TestSessionReport_JSONShape(t *testing.T) {
	r := Build(BuildInput{
		SessionID:   "ses_json",
		PatientRef:  "anon-2",
		DurationSec: 600,
		Samples:     steadySamples(200, 3),
		Alerts: []alerting.Alert{
			{Severity: alerting.SeverityWarning, Message: "test", Minute: 1, Timestamp: time.Now()},
		},
		Baselines: testBaselines,
		Now:       time.Now(),
	})
	r.Narrative = "all quiet"

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"session_id", "statistics", "insights", "timeline", "alert_count", "alerts", "baselines", "narrative", "generated_at"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("missing key %q in report JSON", key)
		}
	}
	if doc["alert_count"].(float64) != 1 {
		t.Errorf("expected alert_count 1, got %v", doc["alert_count"])
	}
}

func TestSessionReport_RoundTripPreservesStatistics(t *testing.T) {
	// varied values so avg and stddev are non-trivial floats
	samples := make([]Sample, 90)
	for i := range samples {
		samples[i] = Sample{
			ElapsedSec:       i * 3,
			EyeContactPct:    55 + float64(i%7)*3.5,
			GazeStabilityPct: 80 + float64(i%5)*2.25,
			BreathingBpm:     12 + float64(i%4)*1.75,
			DominantEmotion:  "neutral",
		}
	}
	original := Build(BuildInput{
		SessionID:   "ses_roundtrip",
		DurationSec: 270,
		Samples:     samples,
		Baselines:   testBaselines,
		Now:         time.Now().UTC(),
	})

	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded SessionReport
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{MetricEyeContact, MetricGazeStability, MetricBreathing} {
		want, got := original.Statistics[key], decoded.Statistics[key]
		if got.Min != want.Min || got.Max != want.Max {
			t.Errorf("%s: min/max changed across round trip: %+v vs %+v", key, want, got)
		}
		if got.Avg != want.Avg || got.StdDev != want.StdDev {
			t.Errorf("%s: avg/stddev changed across round trip: %+v vs %+v", key, want, got)
		}
		if got.Count != want.Count {
			t.Errorf("%s: count changed across round trip: %d vs %d", key, want.Count, got.Count)
		}
	}
	if len(decoded.Timeline) != len(original.Timeline) {
		t.Errorf("timeline length changed: %d vs %d", len(original.Timeline), len(decoded.Timeline))
	}
}
