package report

import (
	"fmt"

	"github.com/eleven-am/insight-backend/internal/alerting"
)

// Per-metric qualitative text derived from statistics and baselines. This is
// rule-based generation; the free-text narrative comes from the external
// collaborator and lives in SessionReport.Narrative.
func buildInsights(stats map[string]Stats, b alerting.Baselines) map[string]string {
	insights := make(map[string]string, 3)
	insights[MetricBreathing] = breathingInsight(stats[MetricBreathing], b)
	insights[MetricEyeContact] = eyeContactInsight(stats[MetricEyeContact], b)
	insights[MetricGazeStability] = gazeInsight(stats[MetricGazeStability])
	return insights
}

func breathingInsight(s Stats, b alerting.Baselines) string {
	if s.Count == 0 {
		return "No breathing data collected."
	}
	switch {
	case b.BreathingBpm > 0 && s.Avg > b.BreathingBpm*1.3:
		return fmt.Sprintf("Breathing averaged %.1f bpm against a baseline of %.0f, indicating elevated, sustained stress.", s.Avg, b.BreathingBpm)
	case s.StdDev > 3:
		return fmt.Sprintf("Breathing rate was highly variable (std dev %.1f bpm), suggesting intermittent distress.", s.StdDev)
	default:
		return fmt.Sprintf("Breathing averaged %.1f bpm, within the expected range of the baseline.", s.Avg)
	}
}

func eyeContactInsight(s Stats, b alerting.Baselines) string {
	if s.Count == 0 {
		return "No eye contact data collected."
	}
	switch {
	case b.EyeContactPct > 0 && s.Avg < b.EyeContactPct*0.6:
		return fmt.Sprintf("Eye contact averaged %.0f%%, well below the baseline of %.0f%%; possible avoidance or discomfort.", s.Avg, b.EyeContactPct)
	case b.EyeContactPct > 0 && s.Avg < b.EyeContactPct:
		return fmt.Sprintf("Eye contact averaged %.0f%%, somewhat below the baseline of %.0f%%.", s.Avg, b.EyeContactPct)
	default:
		return fmt.Sprintf("Eye contact averaged %.0f%%, consistent with baseline.", s.Avg)
	}
}

func gazeInsight(s Stats) string {
	if s.Count == 0 {
		return "No gaze data collected."
	}
	switch {
	case s.StdDev > 15:
		return fmt.Sprintf("Gaze stability was highly variable (std dev %.1f), consistent with scanning or hypervigilance.", s.StdDev)
	case s.Avg > 95:
		return fmt.Sprintf("Gaze was unusually fixed (average stability %.0f%%); worth reviewing for dissociative episodes.", s.Avg)
	case s.Avg < 50:
		return fmt.Sprintf("Gaze stability averaged %.0f%%, on the restless end of the range.", s.Avg)
	default:
		return fmt.Sprintf("Gaze stability averaged %.0f%%, steady throughout.", s.Avg)
	}
}
