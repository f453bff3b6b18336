package scoresheet

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/kiliankoe/bowling/internal/events"
	"github.com/kiliankoe/bowling/internal/scoring"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func repeat(rolls []int, n int) []int {
	var out []int
	for i := 0; i < n; i++ {
		out = append(out, rolls...)
	}
	return out
}

func cardFor(t *testing.T, cfg scoring.RuleConfig, rolls []int) scoring.Card {
	t.Helper()
	e, err := scoring.NewEngine(cfg)
	require.NoError(t, err)
	f, err := e.Framify(rolls)
	require.NoError(t, err)
	return f.Card()
}

var (
	incompleteGame = []int{10, 10, 10, 1, 2, 3, 3, 4, 0}
	completeGame   = append(append([]int{}, incompleteGame...), append([]int{7, 3}, repeat([]int{3, 4}, 3)...)...)
	duckpinGame    = append([]int{10, 10, 10, 1, 2, 3, 3, 3, 0, 4, 0, 0, 7, 3}, repeat([]int{3, 4, 1}, 3)...)
)

func TestDetailed(t *testing.T) {
	tests := []struct {
		name  string
		cfg   scoring.RuleConfig
		rolls []int
		want  string
	}{
		{
			name:  "incomplete game",
			cfg:   scoring.TenPin,
			rolls: incompleteGame,
			want: "FRAME: |--1-----|--2-----|--3-----|--4-----|--5-----|--6-----|--7-----|--8-----|--9-----|-10-----|\n" +
				"PINS:  | 10.    | 10.    | 10.    |  1.  2 |  3.  3 |  4.  0 |   .    |   .    |   .    |   .    |\n" +
				"BONUS: | 10. 10 | 10.  1 |  1.  2 |   .    |   .    |   .    |   .    |   .    |   .    |   .    |\n" +
				"SCORE: | 30     | 21     | 13     |  3     |  6     |  4     |        |        |        |        |\n" +
				"TOTAL: | 30     | 51     | 64     | 67     | 73     | 77     |        |        |        |        |\n",
		},
		{
			name:  "complete game",
			cfg:   scoring.TenPin,
			rolls: completeGame,
			want: "FRAME: |--1-----|--2-----|--3-----|--4-----|--5-----|--6-----|--7-----|--8-----|--9-----|-10-----|\n" +
				"PINS:  | 10.    | 10.    | 10.    |  1.  2 |  3.  3 |  4.  0 |  7.  3 |  3.  4 |  3.  4 |  3.  4 |\n" +
				"BONUS: | 10. 10 | 10.  1 |  1.  2 |   .    |   .    |   .    |  3.    |   .    |   .    |   .    |\n" +
				"SCORE: | 30     | 21     | 13     |  3     |  6     |  4     | 13     |  7     |  7     |  7     |\n" +
				"TOTAL: | 30     | 51     | 64     | 67     | 73     | 77     | 90     | 97     |104     |111     |\n",
		},
		{
			name:  "three roll frames",
			cfg:   scoring.DuckPin,
			rolls: duckpinGame,
			want: "FRAME: |--1---------|--2---------|--3---------|--4---------|--5---------|--6---------|--7---------|--8---------|--9---------|-10---------|\n" +
				"PINS:  | 10.   .    | 10.   .    | 10.   .    |  1.  2.  3 |  3.  3.  0 |  4.  0.  0 |  7.  3.    |  3.  4.  1 |  3.  4.  1 |  3.  4.  1 |\n" +
				"BONUS: | 10. 10.    | 10.  1.    |  1.  2.    |   .   .    |   .   .    |   .   .    |  3.   .    |   .   .    |   .   .    |   .   .    |\n" +
				"SCORE: | 30         | 21         | 13         |  6         |  6         |  4         | 13         |  8         |  8         |  8         |\n" +
				"TOTAL: | 30         | 51         | 64         | 70         | 76         | 80         | 93         |101         |109         |117         |\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Detailed{}.Render(&buf, cardFor(t, tt.cfg, tt.rolls)))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestClassicCompleteGameInColor(t *testing.T) {
	want := "\n+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+\n" +
		"|  F1   |  F2   |  F3   |  F4   |  F5   |  F6   |  F7   |  F8   |  F9   |    F10    |\n" +
		"+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+\n" +
		"|   | \x1b[32mX\x1b[0m |   | \x1b[32mX\x1b[0m |   | \x1b[32mX\x1b[0m | 1 | 2 | 3 | 3 | 4 | 0 | 7 | \x1b[38;5;214m/\x1b[0m | 3 | 4 | 3 | 4 | 3 | 4 |   |\n" +
		"|   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┻━━ |\n" +
		"|  \x1b[1m30\x1b[0m   |  \x1b[1m51\x1b[0m   |  \x1b[1m64\x1b[0m   |  \x1b[1m67\x1b[0m   |  \x1b[1m73\x1b[0m   |  \x1b[1m77\x1b[0m   |  \x1b[1m90\x1b[0m   |  \x1b[1m97\x1b[0m   |  \x1b[1m104\x1b[0m  |    \x1b[1m111\x1b[0m    |\n" +
		"+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+\n"

	var buf bytes.Buffer
	require.NoError(t, Classic{Color: true}.Render(&buf, cardFor(t, scoring.TenPin, completeGame)))
	assert.Equal(t, want, buf.String())
}

func TestClassicPartialGame(t *testing.T) {
	want := "\n+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+\n" +
		"|  F1   |  F2   |  F3   |  F4   |  F5   |  F6   |  F7   |  F8   |  F9   |    F10    |\n" +
		"+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+\n" +
		"| 7 | / |   | X | 1 | 2 |   |   |   |   |   |   |   |   |   |   |   |   |   |   |   |\n" +
		"|   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┻━━ |\n" +
		"|  20   |  33   |  36   |       |       |       |       |       |       |           |\n" +
		"+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+\n"

	var buf bytes.Buffer
	require.NoError(t, Classic{}.Render(&buf, cardFor(t, scoring.TenPin, []int{7, 3, 10, 1, 2})))
	assert.Equal(t, want, buf.String())
}

func TestClassicSpareAfterGutterBall(t *testing.T) {
	want := "\n+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+\n" +
		"|  F1   |  F2   |  F3   |  F4   |  F5   |  F6   |  F7   |  F8   |  F9   |    F10    |\n" +
		"+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+\n" +
		"| 0 | / | 3 | 4 |   |   |   |   |   |   |   |   |   |   |   |   |   |   |   |   |   |\n" +
		"|   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┙   ┕━━━┻━━ |\n" +
		"|  13   |  20   |       |       |       |       |       |       |       |           |\n" +
		"+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+\n"

	var buf bytes.Buffer
	require.NoError(t, Classic{}.Render(&buf, cardFor(t, scoring.TenPin, []int{0, 10, 3, 4})))
	assert.Equal(t, want, buf.String())
}

func TestClassicDuckpinSpareAfterTwoGutterBalls(t *testing.T) {
	var got strings.Builder
	for _, c := range (Classic{}).frameMarks([]int{0, 0, 10}, 10, 3) {
		got.WriteString(c.text)
	}
	assert.Equal(t, "00/", got.String())
}

func TestClassicFinalFrameMarks(t *testing.T) {
	s := Classic{}
	tests := []struct {
		rolls []int
		want  string
	}{
		{[]int{10, 10, 10}, "XXX"},
		{[]int{10, 3, 7}, "X3/"},
		{[]int{10, 10, 4}, "XX4"},
		{[]int{7, 3, 10}, "7/X"},
		{[]int{0, 10, 5}, "0/5"},
		{[]int{3, 4}, "34 "},
		{nil, "   "},
	}
	for _, tt := range tests {
		var got strings.Builder
		for _, c := range s.finalMarks(tt.rolls, 10, 3) {
			got.WriteString(c.text)
		}
		assert.Equal(t, tt.want, got.String(), "rolls %v", tt.rolls)
	}
}

func TestClassicDuckpinSeparatorFitsRow(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Classic{}.Render(&buf, cardFor(t, scoring.DuckPin, duckpinGame)))

	lines := strings.Split(strings.TrimPrefix(buf.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	width := len([]rune(lines[0]))
	for i, l := range lines[:6] {
		assert.Equal(t, width, len([]rune(l)), "line %d: %q", i, l)
	}
	assert.Contains(t, lines[4], "┕━━━┻━━━┙")
	assert.Contains(t, lines[5], "117")
}

func TestWriteXLSX(t *testing.T) {
	entries := []Entry{
		{Player: "Fee", Card: cardFor(t, scoring.TenPin, completeGame)},
		{Player: "Fie", Card: cardFor(t, scoring.TenPin, []int{10, 3})},
		{Player: "Fee", Card: cardFor(t, scoring.Lowball, []int{1, 0, 2})},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, entries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Fee", "Fie", "Fee (2)"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Player", "Variant", "Score"}, summary[0])
	assert.Equal(t, []string{"Fee", "TENPIN", "111"}, summary[1])
	assert.Equal(t, []string{"Fie", "TENPIN"}, summary[2])
	assert.Equal(t, []string{"Fee", "LOWBALL", "12"}, summary[3])

	rows, err := f.GetRows("Fee")
	require.NoError(t, err)
	assert.Equal(t, []string{"Frame", "Pins", "Bonus", "Score", "Total"}, rows[0])
	assert.Equal(t, []string{"1", "10", "10 10", "30", "30"}, rows[1])
	assert.Equal(t, []string{"10", "3 4", "", "7", "111"}, rows[10])

	rows, err = f.GetRows("Fie")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "10", "3"}, rows[1])
}

func TestWriteChart(t *testing.T) {
	entries := []Entry{
		{Player: "Fee", Card: cardFor(t, scoring.TenPin, completeGame)},
		{Player: "Fie", Card: cardFor(t, scoring.DuckPin, nil)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChart(&buf, entries))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")), "expected a PNG")

	assert.ErrorIs(t, WriteChart(io.Discard, nil), ErrNothingToChart)
}

type failingRenderer struct{}

func (failingRenderer) Render(io.Writer, scoring.Card) error { return errors.New("out of ink") }

func TestObserverRendersEveryTurn(t *testing.T) {
	bus := events.NewBus(zerolog.Nop())
	defer bus.Close()

	var out bytes.Buffer
	obs := NewObserver(Detailed{}, &out)
	require.NoError(t, obs.Attach(context.Background(), bus))

	require.NoError(t, bus.PublishTurn(events.TurnCompleted{Player: "Fee", Frame: 1, Card: cardFor(t, scoring.TenPin, []int{6, 2})}))
	require.NoError(t, bus.PublishTurn(events.TurnCompleted{Player: "Fee", Frame: 2, Card: cardFor(t, scoring.TenPin, []int{6, 2, 10})}))

	sheets := strings.Count(out.String(), "FRAME: |")
	assert.Equal(t, 2, sheets)
	assert.Contains(t, out.String(), "TOTAL: |  8     |        |")
}

func TestObserverWrapsRenderErrors(t *testing.T) {
	obs := NewObserver(failingRenderer{}, io.Discard)
	err := obs.Handle(events.TurnCompleted{Player: "Moe", Frame: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Moe frame 4")
}
