package scoresheet

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNothingToChart = errors.New("no players to chart")

var seriesColors = []drawing.Color{
	drawing.ColorFromHex("2f6f4f"),
	drawing.ColorFromHex("d4a017"),
	drawing.ColorFromHex("8b3a3a"),
	drawing.ColorFromHex("3a5f8b"),
	drawing.ColorFromHex("6b4f8b"),
}

// WriteChart renders every player's known running scores as a PNG line
// chart, one line per player starting at zero before the first frame.
func WriteChart(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return ErrNothingToChart
	}

	maxFrames, maxScore := 1, 10
	series := make([]chart.Series, 0, len(entries))
	for i, e := range entries {
		xs := []float64{0}
		ys := []float64{0}
		for _, fr := range e.Card.Frames {
			v, ok := fr.RunningScore.Int()
			if !ok {
				break
			}
			xs = append(xs, float64(fr.Number))
			ys = append(ys, float64(v))
			maxScore = max(maxScore, v)
		}
		maxFrames = max(maxFrames, len(e.Card.Frames))

		color := seriesColors[i%len(seriesColors)]
		series = append(series, chart.ContinuousSeries{
			Name:    e.Player,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
		})
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Frame",
			Range:          &chart.ContinuousRange{Min: 0, Max: float64(maxFrames)},
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.0f", v) },
		},
		YAxis: chart.YAxis{
			Name:  "Running score",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxScore)},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v)
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
