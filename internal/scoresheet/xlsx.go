package scoresheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kiliankoe/bowling/internal/scoring"
	"github.com/xuri/excelize/v2"
)

// Entry is one player's card in a multi-player export.
type Entry struct {
	Player string
	Card   scoring.Card
}

const summarySheet = "Summary"

var frameHeader = []interface{}{"Frame", "Pins", "Bonus", "Score", "Total"}

// WriteXLSX writes a workbook with a summary sheet and one sheet per player.
func WriteXLSX(w io.Writer, entries []Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	if err := f.SetSheetRow(summarySheet, "A1", &[]interface{}{"Player", "Variant", "Score"}); err != nil {
		return err
	}

	used := map[string]bool{strings.ToLower(summarySheet): true}
	for i, e := range entries {
		row := []interface{}{e.Player, e.Card.Variant, scoreCell(e.Card.Total())}
		if err := f.SetSheetRow(summarySheet, cellName(1, i+2), &row); err != nil {
			return err
		}

		name := sheetName(e.Player, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet for %s: %w", e.Player, err)
		}
		if err := writeCard(f, name, e.Card); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeCard(f *excelize.File, sheet string, c scoring.Card) error {
	if err := f.SetSheetRow(sheet, "A1", &frameHeader); err != nil {
		return err
	}
	for i, fr := range c.Frames {
		row := []interface{}{
			fr.Number,
			joinRolls(fr.NormalRolls),
			joinRolls(fr.BonusRolls),
			scoreCell(fr.Score),
			scoreCell(fr.RunningScore),
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// scoreCell leaves unknown scores as empty cells.
func scoreCell(s scoring.Score) interface{} {
	if v, ok := s.Int(); ok {
		return v
	}
	return nil
}

func joinRolls(rolls []int) string {
	parts := make([]string, len(rolls))
	for i, r := range rolls {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, " ")
}

// sheetName makes a worksheet name within Excel's 31 character limit that no
// other sheet uses, ignoring case.
func sheetName(player string, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(player))
	if base == "" {
		base = "Player"
	}
	base = truncate(base, 27)
	name := base
	for n := 2; used[strings.ToLower(name)]; n++ {
		name = base + " (" + strconv.Itoa(n) + ")"
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
