package landmark

// Landmark names the extractors depend on. The capture client may send more;
// anything beyond these is carried but ignored.
const (
	NoseTip  = "noseTip"
	UpperLip = "upperLip"
)

// KnownEmotions is the label set produced by the expression classifier.
// Scores for labels outside this set are dropped during normalization.
var KnownEmotions = []string{
	"angry", "disgust", "fear", "happy", "sad", "surprise", "neutral",
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is one processed frame from the external face-landmark model.
// A nil *Snapshot means no face was detected that tick; consumers hold their
// previous values rather than treating absence as a reset.
type Snapshot struct {
	Points           map[string]Point   `json:"points,omitempty"`
	ExpressionScores map[string]float64 `json:"expression_scores,omitempty"`
	CapturedAtMs     int64              `json:"captured_at_ms"`
	FrameWidth       float64            `json:"frame_width"`
	FrameHeight      float64            `json:"frame_height"`
}

func (s *Snapshot) Point(name string) (Point, bool) {
	if s == nil || s.Points == nil {
		return Point{}, false
	}
	p, ok := s.Points[name]
	return p, ok
}

func (s *Snapshot) HasPoints(names ...string) bool {
	for _, name := range names {
		if _, ok := s.Point(name); !ok {
			return false
		}
	}
	return true
}
