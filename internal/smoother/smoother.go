// Package smoother maintains the cumulative camera path and emits, via a
// delay line, the correction that makes the smoothed path match a
// windowed moving average of the raw one. A scene cut (confidence-0
// Motion) resets the path and flushes the delay line with partial
// windows.
package smoother

import "github.com/ivlev/stabilize/internal/motion"

// Smoother tracks the cumulative path for the current segment in a bounded
// buffer sized by the largest smoothing half-width W: the look-ahead plus
// the trailing half of the next centered window, at most 2*W+1 cumulative
// motions.
type Smoother struct {
	params    motion.Params
	maxWindow int

	cumulative motion.Motion
	buf        []motion.Motion // buf[i] is the raw cumulative motion at absolute segment index bufStart+i
	bufStart   int
	emitted    int // next absolute index to emit a correction for
}

// New constructs a Smoother for the given Params.
func New(params motion.Params) *Smoother {
	return &Smoother{
		params:     params,
		maxWindow:  params.MaxWindow(),
		cumulative: motion.Identity(),
	}
}

// Process feeds one raw per-frame Motion in and returns zero or more newly
// ready corrections (in order) plus whether this call was itself a scene
// cut. Corrections lag their triggering frame by up to MaxWindow frames;
// call Flush at end of stream to drain whatever remains buffered.
func (s *Smoother) Process(m motion.Motion) (corrections []motion.Motion, sceneCut bool) {
	if m.IsSceneCut() {
		flushed := s.drain(s.bufStart + len(s.buf) - 1)
		s.reset()
		return flushed, true
	}

	s.cumulative = s.cumulative.Then(m)
	s.buf = append(s.buf, s.cumulative)
	headAbs := s.bufStart + len(s.buf) - 1

	for s.emitted+s.maxWindow <= headAbs {
		corrections = append(corrections, s.correctionFor(s.emitted))
		s.emitted++
	}
	s.trim()
	return corrections, false
}

// Flush drains every buffered-but-not-yet-emitted correction, applying
// edge-clamp padding for the missing future samples. Call once after the
// last frame of the stream.
func (s *Smoother) Flush() []motion.Motion {
	headAbs := s.bufStart + len(s.buf) - 1
	return s.drain(headAbs)
}

func (s *Smoother) drain(headAbs int) []motion.Motion {
	var out []motion.Motion
	for s.emitted <= headAbs {
		out = append(out, s.correctionFor(s.emitted))
		s.emitted++
	}
	return out
}

func (s *Smoother) reset() {
	s.cumulative = motion.Identity()
	s.buf = []motion.Motion{motion.Identity()}
	s.bufStart = 0
	s.emitted = 0
}

// at returns the raw cumulative motion at absolute segment index i,
// edge-clamping to the current segment's known range [0, headAbs].
func (s *Smoother) at(i int) motion.Motion {
	headAbs := s.bufStart + len(s.buf) - 1
	if i < 0 {
		i = 0
	}
	if i > headAbs {
		i = headAbs
	}
	pos := i - s.bufStart
	if pos < 0 {
		pos = 0
	}
	if pos >= len(s.buf) {
		pos = len(s.buf) - 1
	}
	return s.buf[pos]
}

// correctionFor computes the correction K_t for absolute segment index t
// such that C_t.Then(K_t) equals the smoothed path S_t.
func (s *Smoother) correctionFor(t int) motion.Motion {
	smoothed := motion.Motion{
		Shift: motion.Vec2{
			X: s.windowAverage(t, s.params.XSmooth, func(m motion.Motion) float64 { return m.Shift.X }),
			Y: s.windowAverage(t, s.params.YSmooth, func(m motion.Motion) float64 { return m.Shift.Y }),
		},
		Scale: s.windowAverage(t, s.params.ScaleSmooth, func(m motion.Motion) float64 { return m.Scale }),
		Alpha: s.windowAverage(t, s.params.AlphaSmooth, func(m motion.Motion) float64 { return m.Alpha }),
	}
	current := s.at(t)
	return current.Inverse().Then(smoothed)
}

func (s *Smoother) windowAverage(t, halfWidth int, component func(motion.Motion) float64) float64 {
	sum := 0.0
	n := 0
	for i := t - halfWidth; i <= t+halfWidth; i++ {
		sum += component(s.at(i))
		n++
	}
	return sum / float64(n)
}

// trim drops buffered entries that no future call can still need, bounding
// memory to O(maxWindow).
func (s *Smoother) trim() {
	minNeeded := s.emitted - s.maxWindow
	for s.bufStart < minNeeded && len(s.buf) > 1 {
		s.buf = s.buf[1:]
		s.bufStart++
	}
}
