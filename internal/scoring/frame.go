package scoring

// TurnRule decides when a player may stop rolling for a frame.
type TurnRule int

const (
	// TurnGeneral ends the turn once the normal rolls are in.
	TurnGeneral TurnRule = iota
	// TurnFinalFrame also waits for the bonus rolls, since no later frame
	// will supply them.
	TurnFinalFrame
)

func turnRuleFor(frameNumber, numberOfFrames int) TurnRule {
	if frameNumber == numberOfFrames {
		return TurnFinalFrame
	}
	return TurnGeneral
}

func (t TurnRule) complete(f *Frame) bool {
	if t == TurnFinalFrame {
		return f.NormalRollsComplete() && f.BonusRollsComplete()
	}
	return f.NormalRollsComplete()
}

// Frame holds the scored values of a frame's triggering rolls and of the
// bonus rolls borrowed from the frames after it.
type Frame struct {
	NormalRolls []int
	BonusRolls  []int

	raw    []int
	status Status
	turn   TurnRule
}

func newFrame(turn TurnRule) *Frame {
	return &Frame{NormalRolls: []int{}, BonusRolls: []int{}, turn: turn}
}

// apply replaces the frame's contents with a parse of its raw window.
func (f *Frame) apply(res ParseResult, raw []int) {
	n := res.TriggeringRollCount
	if n > len(res.Scored) {
		n = len(res.Scored)
	}
	f.NormalRolls = clone(res.Scored[:n])
	f.BonusRolls = clone(res.Scored[n:])
	f.raw = clone(raw)
	f.status = Classify(res.TriggeringRollCount, res.RollsToScoreCount, len(raw))
}

func (f *Frame) Status() Status { return f.status }
func (f *Frame) TurnRule() TurnRule { return f.turn }
func (f *Frame) NormalRollsComplete() bool { return f.status.NormalRollsComplete() }
func (f *Frame) BonusRollsComplete() bool { return f.status.BonusRollsComplete() }
func (f *Frame) TurnComplete() bool { return f.turn.complete(f) }

// Rolls returns the scored values, normal rolls first.
func (f *Frame) Rolls() []int {
	out := make([]int, 0, len(f.NormalRolls)+len(f.BonusRolls))
	out = append(out, f.NormalRolls...)
	return append(out, f.BonusRolls...)
}

// Score is absent until every roll the frame depends on is known.
func (f *Frame) Score() Score {
	if f.status != StatusComplete {
		return Absent()
	}
	return Points(sum(f.NormalRolls) + sum(f.BonusRolls))
}

// RunningScore adds this frame's score to the running score of the frame
// before it. An absent score on either side makes the result absent.
func (f *Frame) RunningScore(previous Score) Score {
	return previous.Add(f.Score())
}
