package metrics

import "time"

// pointWindow is a time-bounded FIFO of 2-D positions. Eviction is by
// capture-timestamp age rather than count, so a variable frame rate does not
// change the effective averaging window.
type pointWindow struct {
	maxAge  time.Duration
	atMs    []int64
	xs      []float64
	ys      []float64
}

func newPointWindow(maxAge time.Duration) *pointWindow {
	return &pointWindow{maxAge: maxAge}
}

func (w *pointWindow) Append(atMs int64, x, y float64) {
	w.atMs = append(w.atMs, atMs)
	w.xs = append(w.xs, x)
	w.ys = append(w.ys, y)
	w.evict(atMs)
}

func (w *pointWindow) evict(nowMs int64) {
	cutoff := nowMs - w.maxAge.Milliseconds()
	i := 0
	for i < len(w.atMs) && w.atMs[i] < cutoff {
		i++
	}
	if i > 0 {
		w.atMs = w.atMs[i:]
		w.xs = w.xs[i:]
		w.ys = w.ys[i:]
	}
}

func (w *pointWindow) Len() int {
	return len(w.atMs)
}

// scalarWindow is the single-value counterpart used by the breathing
// extractor.
type scalarWindow struct {
	maxAge time.Duration
	atMs   []int64
	vals   []float64
}

func newScalarWindow(maxAge time.Duration) *scalarWindow {
	return &scalarWindow{maxAge: maxAge}
}

func (w *scalarWindow) Append(atMs int64, v float64) {
	w.atMs = append(w.atMs, atMs)
	w.vals = append(w.vals, v)

	cutoff := atMs - w.maxAge.Milliseconds()
	i := 0
	for i < len(w.atMs) && w.atMs[i] < cutoff {
		i++
	}
	if i > 0 {
		w.atMs = w.atMs[i:]
		w.vals = w.vals[i:]
	}
}

func (w *scalarWindow) Len() int {
	return len(w.atMs)
}

// SpanMs is the capture-time distance between the oldest and newest entry.
func (w *scalarWindow) SpanMs() int64 {
	if len(w.atMs) < 2 {
		return 0
	}
	return w.atMs[len(w.atMs)-1] - w.atMs[0]
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
