package scoring

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Status tells how much of a frame's scoring window is known.
type Status int

const (
	StatusMissingNormalRolls Status = iota
	StatusMissingBonusRolls
	StatusComplete
)

func (s Status) String() string {
	switch s {
	case StatusMissingNormalRolls:
		return "missing normal rolls"
	case StatusMissingBonusRolls:
		return "missing bonus rolls"
	case StatusComplete:
		return "complete"
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// Classify derives a frame's status from a parse of its window and the
// number of rolls available in that window.
func Classify(triggeringRollCount, rollsToScoreCount, available int) Status {
	switch {
	case available >= rollsToScoreCount:
		return StatusComplete
	case available < triggeringRollCount:
		return StatusMissingNormalRolls
	default:
		return StatusMissingBonusRolls
	}
}

func (s Status) NormalRollsComplete() bool { return s != StatusMissingNormalRolls }
func (s Status) BonusRollsComplete() bool { return s == StatusComplete }

// AcceptsRoll reports whether a frame in this status still reads incoming rolls.
func (s Status) AcceptsRoll() bool { return s != StatusComplete }

// Score is a frame or running score that may not be known yet. The zero
// value is absent; absent scores must never be added into a total.
type Score struct {
	Value int
	Valid bool
}

func Points(v int) Score { return Score{Value: v, Valid: true} }

// Absent is the score of a frame that is still waiting for rolls.
func Absent() Score { return Score{} }

// Int returns the value and whether it is known.
func (s Score) Int() (int, bool) { return s.Value, s.Valid }

// Add returns s+o, or absent if either side is absent.
func (s Score) Add(o Score) Score {
	if !s.Valid || !o.Valid {
		return Absent()
	}
	return Points(s.Value + o.Value)
}

// String renders an absent score as the empty string.
func (s Score) String() string {
	if !s.Valid {
		return ""
	}
	return strconv.Itoa(s.Value)
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(s.Value)), nil
}

func (s *Score) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = Absent()
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = Points(v)
	return nil
}
