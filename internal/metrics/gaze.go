package metrics

import (
	"math"

	"github.com/eleven-am/insight-backend/internal/landmark"
)

// pixels of positional variance that cost one stability point
const gazeVariancePerPct = 0.25

// Gaze measures how steady the nose tip sits inside a short rolling window.
// It reports Config.GazeDefaultPct until the window holds GazeMinSamples
// entries, so session start never reads as spurious instability.
type Gaze struct {
	cfg    Config
	window *pointWindow
	last   float64
}

func NewGaze(cfg Config) *Gaze {
	return &Gaze{
		cfg:    cfg,
		window: newPointWindow(cfg.GazeWindow),
		last:   cfg.GazeDefaultPct,
	}
}

func (g *Gaze) Update(snap *landmark.Snapshot) float64 {
	nose, ok := snap.Point(landmark.NoseTip)
	if !ok {
		return g.last
	}

	g.window.Append(snap.CapturedAtMs, nose.X, nose.Y)
	if g.window.Len() < g.cfg.GazeMinSamples {
		g.last = g.cfg.GazeDefaultPct
		return g.last
	}

	g.last = clampPct(100 - g.variance()/gazeVariancePerPct)
	return g.last
}

// variance is the mean Euclidean distance of each window entry from the
// window centroid, in pixels.
func (g *Gaze) variance() float64 {
	n := float64(g.window.Len())
	var cx, cy float64
	for i := range g.window.xs {
		cx += g.window.xs[i]
		cy += g.window.ys[i]
	}
	cx /= n
	cy /= n

	var total float64
	for i := range g.window.xs {
		total += math.Hypot(g.window.xs[i]-cx, g.window.ys[i]-cy)
	}
	return total / n
}

func (g *Gaze) Current() float64 {
	return g.last
}
