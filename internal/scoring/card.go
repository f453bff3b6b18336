package scoring

// Card is a read-only snapshot of a frame sequence for renderers and
// event payloads.
type Card struct {
	Variant         string      `json:"variant"`
	MaxRollsPerTurn int         `json:"maxRollsPerTurn"`
	Pins            int         `json:"pins"`
	Frames          []FrameCard `json:"frames"`
}

type FrameCard struct {
	Number       int    `json:"number"`
	NormalRolls  []int  `json:"normalRolls"`
	BonusRolls   []int  `json:"bonusRolls"`
	Status       Status `json:"status"`
	Score        Score  `json:"score"`
	RunningScore Score  `json:"runningScore"`
}

// Card snapshots the sequence. Later rolls do not change the result.
func (s *Frames) Card() Card {
	running := s.RunningScores()
	c := Card{
		Variant:         s.engine.config.Name,
		MaxRollsPerTurn: s.engine.config.MaxRollsPerTurn,
		Pins:            s.engine.config.Pins,
		Frames:          make([]FrameCard, len(s.list)),
	}
	for i, f := range s.list {
		c.Frames[i] = FrameCard{
			Number:       i + 1,
			NormalRolls:  clone(f.NormalRolls),
			BonusRolls:   clone(f.BonusRolls),
			Status:       f.status,
			Score:        f.Score(),
			RunningScore: running[i],
		}
	}
	return c
}

// RunningScores returns the running score column of the card.
func (c Card) RunningScores() []Score {
	out := make([]Score, len(c.Frames))
	for i, f := range c.Frames {
		out[i] = f.RunningScore
	}
	return out
}

// Total is the last known running score on the card.
func (c Card) Total() Score {
	last := Absent()
	for _, f := range c.Frames {
		if !f.RunningScore.Valid {
			break
		}
		last = f.RunningScore
	}
	return last
}
