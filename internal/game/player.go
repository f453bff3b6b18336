package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/kiliankoe/bowling/internal/scoring"
)

// RollFilter rewrites a roll before it reaches the scoring engine.
type RollFilter func(pins int) int

// Cheat reports any roll below 5 as 8.
func Cheat(pins int) int {
	if pins < 5 {
		return 8
	}
	return pins
}

type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Variant  string    `json:"variant"`
	JoinedAt time.Time `json:"joinedAt"`

	frames *scoring.Frames
	filter RollFilter
}

func NewPlayer(name string, engine *scoring.Engine) *Player {
	return &Player{
		ID:       uuid.NewString(),
		Name:     name,
		Variant:  engine.Config().Name,
		JoinedAt: time.Now().UTC(),
		frames:   engine.New(),
	}
}

// NewCheater returns a player whose low rolls are quietly improved.
func NewCheater(name string, engine *scoring.Engine) *Player {
	p := NewPlayer(name, engine)
	p.filter = Cheat
	return p
}

func (p *Player) Cheating() bool { return p.filter != nil }

// Roll records one roll, passing it through the player's filter first.
func (p *Player) Roll(pins int) error {
	if p.filter != nil {
		pins = p.filter(pins)
	}
	return p.frames.AppendRoll(pins)
}

func (p *Player) TurnComplete(frameNumber int) bool { return p.frames.TurnComplete(frameNumber) }
func (p *Player) Score() scoring.Score { return p.frames.Score() }
func (p *Player) Rolls() []int { return p.frames.Rolls() }
func (p *Player) NumFrames() int { return p.frames.Len() }
func (p *Player) Done() bool { return p.frames.Complete() }
func (p *Player) Card() scoring.Card { return p.frames.Card() }
