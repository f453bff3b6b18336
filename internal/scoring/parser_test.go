package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStandard(t *testing.T) {
	// strike, spare, hug, open
	rules := []TriggeringRule{
		{TriggeringRollCount: 1, TriggeringValueThreshold: 11, RollsToScoreCount: 4},
		{TriggeringRollCount: 2, TriggeringValueThreshold: 11, RollsToScoreCount: 4},
		{TriggeringRollCount: 2, TriggeringValueThreshold: 8, RollsToScoreCount: 3},
		{TriggeringRollCount: 2, TriggeringValueThreshold: 0, RollsToScoreCount: 2},
	}

	tests := []struct {
		name  string
		rolls []int
		want  ParseResult
	}{
		{"strike with all bonus rolls", []int{11, 12, 13, 14}, ParseResult{1, 4, []int{11, 12, 13, 14}}},
		{"strike with some bonus rolls", []int{11, 12}, ParseResult{1, 4, []int{11, 12}}},
		{"strike without bonus rolls", []int{11}, ParseResult{1, 4, []int{11}}},
		{"spare with all bonus rolls", []int{7, 4, 1, 2}, ParseResult{2, 4, []int{7, 4, 1, 2}}},
		{"spare with some bonus rolls", []int{7, 4, 1}, ParseResult{2, 4, []int{7, 4, 1}}},
		{"spare without bonus rolls", []int{7, 4}, ParseResult{2, 4, []int{7, 4}}},
		{"hug with all bonus rolls", []int{4, 4, 1}, ParseResult{2, 3, []int{4, 4, 1}}},
		{"hug without bonus rolls", []int{4, 4}, ParseResult{2, 3, []int{4, 4}}},
		{"open frame", []int{1, 2}, ParseResult{2, 2, []int{1, 2}}},
		{"open frame ignores later rolls", []int{1, 2, 9, 9}, ParseResult{2, 2, []int{1, 2}}},
		{"empty window falls through to catch-all", nil, ParseResult{2, 2, []int{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(ParserStandard, tt.rolls, rules)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStandardWithoutCatchAll(t *testing.T) {
	rules := []TriggeringRule{{TriggeringRollCount: 1, TriggeringValueThreshold: 10, RollsToScoreCount: 3}}

	_, err := Parse(ParserStandard, []int{3, 4}, rules)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestParseLowball(t *testing.T) {
	tests := []struct {
		name  string
		rolls []int
		want  ParseResult
	}{
		{"strike with all bonus rolls", []int{0, 1, 2}, ParseResult{1, 3, []int{10, 1, 2}}},
		{"strike with some bonus rolls", []int{0, 1}, ParseResult{1, 3, []int{10, 1}}},
		{"strike without bonus rolls", []int{0}, ParseResult{1, 3, []int{10}}},
		{"strike followed by strike", []int{0, 0, 4}, ParseResult{1, 3, []int{10, 10, 4}}},
		{"three strikes", []int{0, 0, 0}, ParseResult{1, 3, []int{10, 10, 10}}},
		{"strike followed by spare", []int{0, 3, 0}, ParseResult{1, 3, []int{10, 3, 7}}},
		{"spare with all bonus rolls", []int{1, 0, 2}, ParseResult{2, 3, []int{1, 9, 2}}},
		{"spare with strike bonus", []int{4, 0, 0}, ParseResult{2, 3, []int{4, 6, 10}}},
		{"spare without bonus rolls", []int{1, 0}, ParseResult{2, 3, []int{1, 9}}},
		{"open frame", []int{1, 2}, ParseResult{2, 2, []int{1, 2}}},
		{"open frame missing second roll", []int{1}, ParseResult{2, 2, []int{1}}},
		{"empty window", nil, ParseResult{2, 2, []int{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(ParserLowball, tt.rolls, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUnknownKind(t *testing.T) {
	_, err := Parse(ParserKind(42), []int{1}, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}
