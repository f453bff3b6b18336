package scoring

import "fmt"

// Engine builds frame sequences for one variant.
type Engine struct {
	config RuleConfig
	parse  parseFunc
}

// NewEngine validates cfg and returns an engine for it.
func NewEngine(cfg RuleConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{config: cfg, parse: parsers[cfg.Parser]}, nil
}

func (e *Engine) Config() RuleConfig { return e.config }

// New returns a sequence with every frame waiting for its first roll.
func (e *Engine) New() *Frames {
	f, _ := e.Framify(nil)
	return f
}

// Framify cuts rolls into the variant's frames. Each frame's window starts
// where the previous frame's triggering rolls end, so bonus rolls are read
// again as the next frame's normal rolls.
func (e *Engine) Framify(rolls []int) (*Frames, error) {
	for i, r := range rolls {
		if err := e.checkRoll(r); err != nil {
			return nil, fmt.Errorf("roll %d: %w", i+1, err)
		}
	}

	seq := &Frames{engine: e, list: make([]*Frame, 0, e.config.NumberOfFrames), rolls: clone(rolls)}
	remaining := rolls
	for n := 1; n <= e.config.NumberOfFrames; n++ {
		res, err := e.parse(remaining, e.config.TriggeringRules)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", n, err)
		}
		frame := newFrame(turnRuleFor(n, e.config.NumberOfFrames))
		frame.apply(res, take(remaining, res.RollsToScoreCount))
		seq.list = append(seq.list, frame)

		remaining = remaining[len(take(remaining, res.TriggeringRollCount)):]
	}
	seq.accepting = seq.acceptingFrames()
	return seq, nil
}

// checkRoll bounds a single roll to 0..Pins. The pins standing in a rack are
// not tracked, so two rolls summing past Pins in one frame are accepted.
func (e *Engine) checkRoll(pins int) error {
	if pins < 0 || pins > e.config.Pins {
		return fmt.Errorf("%w: %d is outside 0..%d", ErrInvalidRoll, pins, e.config.Pins)
	}
	return nil
}

// Frames is the ordered, fixed-length frame list of one player's game.
type Frames struct {
	engine *Engine
	list   []*Frame
	rolls  []int

	// accepting lists the frames that read the next incoming roll. A frame
	// waiting for bonus rolls shares each roll with the frame after it.
	accepting []int
}

func (s *Frames) Config() RuleConfig { return s.engine.config }
func (s *Frames) Len() int { return len(s.list) }

// Frame returns the frame at zero-based index i, the same indexing as
// Accepting and Each. Frame(0) is frame number 1 for TurnComplete.
func (s *Frames) Frame(i int) *Frame { return s.list[i] }

// Each calls fn for every frame in order.
func (s *Frames) Each(fn func(i int, f *Frame)) {
	for i, f := range s.list {
		fn(i, f)
	}
}

// Rolls returns the raw pin-falls entered so far.
func (s *Frames) Rolls() []int { return clone(s.rolls) }

// Accepting returns the indexes of the frames that will read the next roll.
func (s *Frames) Accepting() []int { return append([]int(nil), s.accepting...) }

// Complete reports whether no frame is waiting for rolls.
func (s *Frames) Complete() bool { return len(s.accepting) == 0 }

// RunningScores has one entry per frame. Once a frame's running score is
// absent, every later entry is absent too.
func (s *Frames) RunningScores() []Score {
	out := make([]Score, 0, len(s.list))
	prev := Points(0)
	for _, f := range s.list {
		prev = f.RunningScore(prev)
		out = append(out, prev)
	}
	return out
}

// Score is the last known running score, or absent before the first frame
// is complete.
func (s *Frames) Score() Score {
	last := Absent()
	for _, rs := range s.RunningScores() {
		if !rs.Valid {
			break
		}
		last = rs
	}
	return last
}

// TurnComplete reports whether the player may stop rolling for the
// one-based frameNumber.
func (s *Frames) TurnComplete(frameNumber int) bool {
	if frameNumber < 1 || frameNumber > len(s.list) {
		return true
	}
	return s.list[frameNumber-1].TurnComplete()
}

// AppendRoll feeds one pin-fall to every accepting frame, re-parsing each
// frame's window and re-deriving its status.
func (s *Frames) AppendRoll(pins int) error {
	if err := s.engine.checkRoll(pins); err != nil {
		return err
	}
	if len(s.accepting) == 0 {
		return ErrGameComplete
	}

	results := make([]ParseResult, len(s.accepting))
	for k, i := range s.accepting {
		raw := append(clone(s.list[i].raw), pins)
		res, err := s.engine.parse(raw, s.engine.config.TriggeringRules)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i+1, err)
		}
		results[k] = res
	}
	for k, i := range s.accepting {
		frame := s.list[i]
		frame.apply(results[k], append(clone(frame.raw), pins))
	}
	s.rolls = append(s.rolls, pins)
	s.accepting = s.acceptingFrames()
	return nil
}

// acceptingFrames lists every unfinished frame whose window has begun. A
// window begins once all earlier frames have their normal rolls, which is
// what lets a strike's bonus roll also open the following frame.
func (s *Frames) acceptingFrames() []int {
	var out []int
	for i, f := range s.list {
		if f.status.AcceptsRoll() {
			out = append(out, i)
		}
		if !f.NormalRollsComplete() {
			break
		}
	}
	return out
}
