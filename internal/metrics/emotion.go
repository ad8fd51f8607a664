package metrics

import (
	"github.com/eleven-am/insight-backend/internal/landmark"
)

const EmotionNeutral = "neutral"

// Emotion keeps the latest normalized expression distribution. Frames that
// carry no expression scores leave the previous distribution in place; before
// any scores arrive the distribution is empty and Dominant reports neutral.
type Emotion struct {
	dist map[string]float64
}

func NewEmotion() *Emotion {
	return &Emotion{}
}

func (e *Emotion) Update(snap *landmark.Snapshot) {
	if snap == nil || len(snap.ExpressionScores) == 0 {
		return
	}
	e.dist = normalizeScores(snap.ExpressionScores)
}

// Dominant is the label with the highest score, neutral when no expression
// data has been seen.
func (e *Emotion) Dominant() string {
	if len(e.dist) == 0 {
		return EmotionNeutral
	}
	best := EmotionNeutral
	bestScore := -1.0
	for _, label := range landmark.KnownEmotions {
		if score, ok := e.dist[label]; ok && score > bestScore {
			best = label
			bestScore = score
		}
	}
	return best
}

func (e *Emotion) Distribution() map[string]float64 {
	out := make(map[string]float64, len(e.dist))
	for k, v := range e.dist {
		out[k] = v
	}
	return out
}

// normalizeScores clamps each known-label score to [0,1], scales the set down
// if it sums past 1, and assigns any remainder to neutral so the distribution
// always sums to 1.
func normalizeScores(scores map[string]float64) map[string]float64 {
	dist := make(map[string]float64, len(landmark.KnownEmotions))

	var sum float64
	for _, label := range landmark.KnownEmotions {
		if label == EmotionNeutral {
			continue
		}
		score, ok := scores[label]
		if !ok {
			continue
		}
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		dist[label] = score
		sum += score
	}

	if sum > 1 {
		for label := range dist {
			dist[label] /= sum
		}
		sum = 1
	}

	neutral := 1 - sum
	if explicit, ok := scores[EmotionNeutral]; ok && explicit >= 0 && explicit < neutral {
		// the classifier's own neutral score wins when it is smaller than
		// the remainder; the difference stays unassigned
		neutral = explicit
	}
	dist[EmotionNeutral] = neutral

	return dist
}
