package scoresheet

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kiliankoe/bowling/internal/scoring"
)

// Renderer writes one player's card.
type Renderer interface {
	Render(w io.Writer, c scoring.Card) error
}

// Detailed prints five aligned lines: frame numbers, normal rolls, bonus
// rolls, frame scores and running totals. Unknown scores stay blank.
type Detailed struct{}

func (Detailed) Render(w io.Writer, c scoring.Card) error {
	numbers := make([]string, len(c.Frames))
	totals := make([]string, len(c.Frames))
	pins := make([][]int, len(c.Frames))
	bonus := make([][]int, len(c.Frames))
	scores := make([][]int, len(c.Frames))
	for i, f := range c.Frames {
		numbers[i] = strconv.Itoa(f.Number)
		totals[i] = f.RunningScore.String()
		pins[i] = f.NormalRolls
		bonus[i] = f.BonusRolls
		if v, ok := f.Score.Int(); ok {
			scores[i] = []int{v}
		}
	}

	bw := bufio.NewWriter(w)
	lines := []string{
		dasherized(summaryLine("FRAME", numbers, c.MaxRollsPerTurn)),
		detailLine("PINS", pins, c.MaxRollsPerTurn, ". "),
		detailLine("BONUS", bonus, c.MaxRollsPerTurn, ". "),
		detailLine("SCORE", scores, c.MaxRollsPerTurn, "  "),
		summaryLine("TOTAL", totals, c.MaxRollsPerTurn),
	}
	for _, l := range lines {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func summaryLine(title string, items []string, rolls int) string {
	cells := make([]string, len(items))
	for i, item := range items {
		cells[i] = fmt.Sprintf("%-*s", (rolls-1)*4, fmt.Sprintf("%3s", item)) + "    "
	}
	return enclosed(title, cells)
}

func detailLine(title string, lists [][]int, rolls int, sep string) string {
	cells := make([]string, len(lists))
	for i, list := range lists {
		cells[i] = " " + strings.Join(details(list, rolls), sep) + " "
	}
	return enclosed(title, cells)
}

// details formats exactly n two-character slots.
func details(list []int, n int) []string {
	out := make([]string, 0, n)
	for _, v := range list {
		if len(out) == n {
			break
		}
		out = append(out, fmt.Sprintf("%2d", v))
	}
	for len(out) < n {
		out = append(out, "  ")
	}
	return out
}

func enclosed(title string, cells []string) string {
	return fmt.Sprintf("%-6s |", title+":") + strings.Join(cells, "|") + "|"
}

// dasherized replaces the blanks after the "FRAME: |" prefix with dashes.
func dasherized(line string) string {
	if len(line) <= 8 {
		return line
	}
	return line[:8] + strings.ReplaceAll(line[8:], " ", "-")
}
