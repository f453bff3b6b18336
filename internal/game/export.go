package game

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportResults appends the game's results to a plain-text log file.
func ExportResults(g *Game, filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if info, err := os.Stat(filename); err == nil && info.Size() > 0 {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if fileExists {
		// spacing between games
		if _, err := io.WriteString(file, "\n\n"); err != nil {
			return fmt.Errorf("failed to write to file: %w", err)
		}
	}
	return WriteResults(file, g, time.Now())
}

// WriteResults writes the results block for g as of now.
func WriteResults(w io.Writer, g *Game, now time.Time) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Bowling Results - Game %s\n", g.Code))
	sb.WriteString(fmt.Sprintf("Started: %s\n", g.CreatedAt.Local().Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	players := g.Players()
	sb.WriteString("Players:\n")
	for _, p := range players {
		cheat := ""
		if p.Cheating() {
			cheat = " (cheater)"
		}
		sb.WriteString(fmt.Sprintf("- %s: %s%s\n", p.Name, p.Variant, cheat))
	}
	sb.WriteString("\n")

	for _, p := range players {
		sb.WriteString(fmt.Sprintf("%s\n", p.Name))
		sb.WriteString(strings.Repeat("-", 40) + "\n")
		card := p.Card()
		totals := make([]string, 0, len(card.Frames))
		for _, f := range card.Frames {
			t := f.RunningScore.String()
			if t == "" {
				t = "-"
			}
			totals = append(totals, t)
		}
		sb.WriteString(fmt.Sprintf("Rolls:  %s\n", joinInts(p.Rolls())))
		sb.WriteString(fmt.Sprintf("Totals: %s\n\n", strings.Join(totals, " ")))
	}

	sb.WriteString("Final standings:\n")
	for i, s := range g.Standings() {
		score := s.Score.String()
		if score == "" {
			score = "-"
		}
		sb.WriteString(fmt.Sprintf("%d. %s: %s points\n", i+1, s.Name, score))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Game ended at %s\n", now.Local().Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
