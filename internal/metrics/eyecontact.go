package metrics

import (
	"math"

	"github.com/eleven-am/insight-backend/internal/landmark"
)

// deviation at or beyond which eye contact reads as 0%
const eyeContactMaxDeviation = 0.4

// EyeContact maps the nose tip's normalized deviation from image center to a
// percentage. A centered face reads 100, a face at the frame edge reads 0.
// Frames without the nose tip leave the previous value untouched.
type EyeContact struct {
	last float64
}

func NewEyeContact() *EyeContact {
	// centered until the first detection says otherwise
	return &EyeContact{last: 100}
}

func (e *EyeContact) Update(snap *landmark.Snapshot) float64 {
	nose, ok := snap.Point(landmark.NoseTip)
	if !ok || snap.FrameWidth <= 0 || snap.FrameHeight <= 0 {
		return e.last
	}

	dx := math.Abs(nose.X-snap.FrameWidth/2) / snap.FrameWidth
	dy := math.Abs(nose.Y-snap.FrameHeight/2) / snap.FrameHeight
	deviation := dx + dy

	e.last = clampPct(100 * (1 - deviation/eyeContactMaxDeviation))
	return e.last
}

func (e *EyeContact) Current() float64 {
	return e.last
}
