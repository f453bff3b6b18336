package scoresheet

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kiliankoe/bowling/internal/scoring"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiOrange = "\x1b[38;5;214m"
	ansiBright = "\x1b[1m"
)

// Classic draws the boxed sheet found above bowling lanes: one column per
// roll, strikes as X, spares as /, and running totals under each frame.
// The final frame gets one extra column for its bonus roll.
type Classic struct {
	// Color adds ANSI colors to marks and totals.
	Color bool
}

type align int

const (
	alignLeft align = iota
	alignCenter
)

type cell struct {
	text  string
	style string
	span  int
	align align
}

func (s Classic) Render(w io.Writer, c scoring.Card) error {
	n := len(c.Frames)
	if n == 0 {
		return nil
	}
	perFrame := c.MaxRollsPerTurn
	finalCols := perFrame + 1
	numCols := (n-1)*perFrame + finalCols

	header := make([]cell, 0, n)
	totals := make([]cell, 0, n)
	marks := make([]cell, 0, numCols)
	for i, f := range c.Frames {
		span := perFrame
		var rolls []cell
		if i == n-1 {
			span = finalCols
			rolls = s.finalMarks(append(append([]int{}, f.NormalRolls...), f.BonusRolls...), c.Pins, span)
		} else {
			rolls = s.frameMarks(f.NormalRolls, c.Pins, span)
		}
		header = append(header, cell{text: "F" + strconv.Itoa(f.Number), span: span, align: alignCenter})
		marks = append(marks, rolls...)
		totals = append(totals, s.total(f.RunningScore, span))
	}

	g := newGrid(numCols)
	g.addRow(header)
	g.addSeparator()
	g.addRow(marks)
	g.addRow([]cell{{text: scoreSeparator(n, perFrame), span: numCols, align: alignLeft}})
	g.addRow(totals)

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}
	if err := g.write(bw); err != nil {
		return err
	}
	return bw.Flush()
}

func (s Classic) total(rs scoring.Score, span int) cell {
	c := cell{text: rs.String(), span: span, align: alignCenter}
	if s.Color && rs.Valid {
		c.style = ansiBright
	}
	return c
}

// frameMarks right-aligns a strike and otherwise marks rolls left to right.
func (s Classic) frameMarks(rolls []int, pins, cols int) []cell {
	if len(rolls) == 1 && rolls[0] == pins {
		out := blanks(cols - 1)
		return append(out, s.strike())
	}
	return pad(s.markRolls(rolls, pins), cols)
}

func (s Classic) finalMarks(rolls []int, pins, cols int) []cell {
	return pad(s.markRolls(rolls, pins), cols)
}

// markRolls tracks the standing pins so a fresh rack knocked flat is a
// strike and the rest of a rack knocked down is a spare, even after a gutter
// ball.
func (s Classic) markRolls(rolls []int, pins int) []cell {
	out := make([]cell, 0, len(rolls))
	standing, fresh := pins, true
	for _, v := range rolls {
		switch {
		case fresh && v == pins:
			out = append(out, s.strike())
		case !fresh && v == standing:
			out = append(out, s.spare())
			standing, fresh = pins, true
		default:
			out = append(out, cell{text: strconv.Itoa(v), span: 1, align: alignCenter})
			standing -= v
			fresh = false
			if standing <= 0 {
				standing, fresh = pins, true
			}
		}
	}
	return out
}

func (s Classic) strike() cell {
	c := cell{text: "X", span: 1, align: alignCenter}
	if s.Color {
		c.style = ansiGreen
	}
	return c
}

func (s Classic) spare() cell {
	c := cell{text: "/", span: 1, align: alignCenter}
	if s.Color {
		c.style = ansiOrange
	}
	return c
}

func blanks(n int) []cell {
	out := make([]cell, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, cell{text: " ", span: 1, align: alignCenter})
	}
	return out
}

func pad(cells []cell, n int) []cell {
	if len(cells) >= n {
		return cells[:n]
	}
	return append(cells, blanks(n-len(cells))...)
}

// scoreSeparator draws the bracket under each frame's rolls that leads down
// to its running total.
func scoreSeparator(frames, perFrame int) string {
	var b strings.Builder
	b.WriteString("  ")
	link := strings.Repeat("┻━━━", max(perFrame-2, 0))
	for i := 0; i < frames-1; i++ {
		b.WriteString("┕━━━" + link + "┙" + "   ")
	}
	b.WriteString("┕━━━" + link + "┻━━")
	return b.String()
}

// grid lays out rows of cells over fixed columns. Every column is as wide as
// its widest single-column cell, plus one blank on each side.
type grid struct {
	widths []int
	rows   [][]cell // nil row is a separator
}

func newGrid(cols int) *grid {
	g := &grid{widths: make([]int, cols)}
	for i := range g.widths {
		g.widths[i] = 1
	}
	return g
}

func (g *grid) addRow(cells []cell) {
	col := 0
	for _, c := range cells {
		if c.span == 1 && col < len(g.widths) {
			g.widths[col] = max(g.widths[col], utf8.RuneCountInString(c.text))
		}
		col += c.span
	}
	g.rows = append(g.rows, cells)
}

func (g *grid) addSeparator() { g.rows = append(g.rows, nil) }

func (g *grid) border() string {
	var b strings.Builder
	b.WriteString("+")
	for _, w := range g.widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("+")
	}
	return b.String()
}

// inner is the content width of a cell starting at col and spanning span
// columns, excluding its outer padding.
func (g *grid) inner(col, span int) int {
	w := 0
	for i := col; i < col+span && i < len(g.widths); i++ {
		w += g.widths[i] + 2
	}
	return w + (span - 1) - 2
}

func (g *grid) write(w *bufio.Writer) error {
	border := g.border()
	lines := []string{border}
	for _, row := range g.rows {
		if row == nil {
			lines = append(lines, border)
			continue
		}
		var b strings.Builder
		b.WriteString("|")
		col := 0
		for _, c := range row {
			b.WriteString(" ")
			b.WriteString(c.render(g.inner(col, c.span)))
			b.WriteString(" |")
			col += c.span
		}
		lines = append(lines, b.String())
	}
	lines = append(lines, border)
	for _, l := range lines {
		if _, err := w.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (c cell) render(width int) string {
	n := utf8.RuneCountInString(c.text)
	left, right := 0, max(width-n, 0)
	if c.align == alignCenter {
		left = right / 2
		right -= left
	}
	text := c.text
	if c.style != "" && strings.TrimSpace(text) != "" {
		text = c.style + text + ansiReset
	}
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}
