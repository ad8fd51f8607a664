package metrics

import (
	"sync"

	"github.com/eleven-am/insight-backend/internal/landmark"
)

// Values is the engine's current smoothed state, read by the sampler on its
// own cadence regardless of how often Observe has run.
type Values struct {
	EyeContactPct    float64
	GazeStabilityPct float64
	BreathingBpm     float64
	DominantEmotion  string
	Emotions         map[string]float64
}

// Engine owns one canonical extractor per metric. Observe runs once per
// processed frame (best effort, as fast as the source delivers); Current is
// safe to read concurrently and never blocks on a fresh frame.
type Engine struct {
	mu sync.Mutex

	eyeContact *EyeContact
	gaze       *Gaze
	breathing  *Breathing
	emotion    *Emotion

	frames  uint64
	noFace  uint64
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		eyeContact: NewEyeContact(),
		gaze:       NewGaze(cfg),
		breathing:  NewBreathing(cfg),
		emotion:    NewEmotion(),
	}
}

// Observe feeds one snapshot through every extractor. A nil snapshot is the
// no-face tick: every extractor holds its previous value, whether the gap is
// one frame or a thousand.
func (e *Engine) Observe(snap *landmark.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.frames++
	if snap == nil {
		e.noFace++
		return
	}

	e.eyeContact.Update(snap)
	e.gaze.Update(snap)
	e.breathing.Update(snap)
	e.emotion.Update(snap)
}

func (e *Engine) Current() Values {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Values{
		EyeContactPct:    e.eyeContact.Current(),
		GazeStabilityPct: e.gaze.Current(),
		BreathingBpm:     e.breathing.Current(),
		DominantEmotion:  e.emotion.Dominant(),
		Emotions:         e.emotion.Distribution(),
	}
}

// FrameCounts reports processed frames and how many carried no face.
func (e *Engine) FrameCounts() (frames, noFace uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames, e.noFace
}
