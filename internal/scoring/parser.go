package scoring

import "fmt"

// ParseResult describes the frame found at the head of a roll window.
// Scored may be shorter than RollsToScoreCount when the window is short,
// and its values are not necessarily the raw pin-falls.
type ParseResult struct {
	TriggeringRollCount int
	RollsToScoreCount   int
	Scored              []int
}

type parseFunc func(rolls []int, rules []TriggeringRule) (ParseResult, error)

var parsers = map[ParserKind]parseFunc{
	ParserStandard: parseStandard,
	ParserLowball:  parseLowball,
}

// Parse runs the parser selected by kind over the head of rolls.
func Parse(kind ParserKind, rolls []int, rules []TriggeringRule) (ParseResult, error) {
	fn, ok := parsers[kind]
	if !ok {
		return ParseResult{}, fmt.Errorf("%w: unknown parser %d", ErrConfiguration, int(kind))
	}
	return fn(rolls, rules)
}

func parseStandard(rolls []int, rules []TriggeringRule) (ParseResult, error) {
	for _, r := range rules {
		if sum(take(rolls, r.TriggeringRollCount)) < r.TriggeringValueThreshold {
			continue
		}
		return ParseResult{
			TriggeringRollCount: r.TriggeringRollCount,
			RollsToScoreCount:   r.RollsToScoreCount,
			Scored:              clone(take(rolls, r.RollsToScoreCount)),
		}, nil
	}
	return ParseResult{}, fmt.Errorf("%w: no triggering rule matches rolls %v", ErrConfiguration, rolls)
}

// parseLowball ignores the rule table. A miss (0) is the good ball in
// lowball: a first-ball miss is a strike, a second-ball miss a spare.
func parseLowball(rolls []int, _ []TriggeringRule) (ParseResult, error) {
	switch {
	case len(rolls) > 0 && rolls[0] == 0:
		scored := []int{10}
		for i := 1; i < len(rolls) && i < 3; i++ {
			if rolls[i] == 0 {
				scored = append(scored, 10-rolls[i-1])
			} else {
				scored = append(scored, rolls[i])
			}
		}
		return ParseResult{TriggeringRollCount: 1, RollsToScoreCount: 3, Scored: scored}, nil

	case len(rolls) > 1 && rolls[1] == 0:
		scored := []int{rolls[0], 10 - rolls[0]}
		if len(rolls) > 2 {
			if rolls[2] == 0 {
				scored = append(scored, 10)
			} else {
				scored = append(scored, rolls[2])
			}
		}
		return ParseResult{TriggeringRollCount: 2, RollsToScoreCount: 3, Scored: scored}, nil
	}
	return ParseResult{TriggeringRollCount: 2, RollsToScoreCount: 2, Scored: clone(take(rolls, 2))}, nil
}

func take(rolls []int, n int) []int {
	if n > len(rolls) {
		n = len(rolls)
	}
	if n < 0 {
		n = 0
	}
	return rolls[:n]
}

func sum(rolls []int) int {
	total := 0
	for _, r := range rolls {
		total += r
	}
	return total
}

func clone(rolls []int) []int {
	return append([]int{}, rolls...)
}
