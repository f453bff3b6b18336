package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kiliankoe/bowling/internal/config"
	"github.com/kiliankoe/bowling/internal/events"
	"github.com/kiliankoe/bowling/internal/game"
	"github.com/kiliankoe/bowling/internal/metrics"
	"github.com/kiliankoe/bowling/internal/scoresheet"
	"github.com/kiliankoe/bowling/internal/scoring"
	"github.com/kiliankoe/bowling/internal/tracing"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const version = "v1.0.0-dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		zerologlog.Error().Err(err).Msg("bowling")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "bowling",
		Usage:   "keep score at the lanes",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "bowling.yaml", Usage: "path to the YAML configuration file"},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error (overrides config)"},
			&cli.StringFlag{Name: "trace-file", Usage: "append OpenTelemetry spans as JSON to this file (overrides config)"},
		},
		Commands: []*cli.Command{
			playCommand(),
			scoreCommand(),
			variantsCommand(),
		},
	}
}

// setup loads the configuration, installs the global logger and tracer
// provider, and returns a shutdown that flushes the traces.
func setup(c *cli.Context) (config.Config, *scoring.Catalog, func(), error) {
	noop := func() {}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, nil, noop, err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if path := c.String("trace-file"); path != "" {
		cfg.TraceFile = path
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, nil, noop, fmt.Errorf("log level: %w", err)
	}

	// zerolog setup; stdout belongs to the game
	zerolog.TimeFieldFormat = time.RFC3339
	var out io.Writer = os.Stderr
	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	zerologlog.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()

	cat, err := cfg.Catalog()
	if err != nil {
		return cfg, nil, noop, err
	}

	flush, err := tracing.Setup(cfg.TraceFile)
	if err != nil {
		return cfg, nil, noop, err
	}
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := flush(ctx); err != nil {
			zerologlog.Error().Err(err).Str("file", cfg.TraceFile).Msg("flush traces")
		}
	}
	return cfg, cat, shutdown, nil
}

func renderer(sheet string, color bool) scoresheet.Renderer {
	if sheet == "classic" {
		return scoresheet.Classic{Color: color}
	}
	return scoresheet.Detailed{}
}

// isTerminal reports whether w is a terminal that understands ANSI colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play a game on the console",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "cheater", Usage: "player name that cheats (repeatable)"},
			&cli.StringFlag{Name: "sheet", Usage: "scoresheet after each turn: detailed or classic"},
			&cli.StringFlag{Name: "results-file", Usage: "append a results summary to this file"},
			&cli.StringFlag{Name: "xlsx", Usage: "write the final scoresheets to this XLSX file"},
			&cli.StringFlag{Name: "chart", Usage: "write a PNG chart of the running scores to this file"},
			&cli.StringFlag{Name: "metrics-file", Usage: "write prometheus metrics in textfile format to this file"},
		},
		Action: func(c *cli.Context) error {
			cfg, cat, shutdown, err := setup(c)
			if err != nil {
				return err
			}
			defer shutdown()
			if v := c.String("sheet"); v != "" {
				cfg.Sheet = v
			}
			if v := c.String("results-file"); v != "" {
				cfg.ResultsFile = v
			}
			if v := c.String("metrics-file"); v != "" {
				cfg.MetricsFile = v
			}
			cfg.Cheaters = append(cfg.Cheaters, c.StringSlice("cheater")...)
			if err := cfg.Validate(); err != nil {
				return err
			}
			log := zerologlog.Logger

			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()

			bus := events.NewBus(log)
			defer bus.Close()
			out := c.App.Writer
			observer := scoresheet.NewObserver(renderer(cfg.Sheet, isTerminal(out)), out)
			if err := observer.Attach(ctx, bus); err != nil {
				return err
			}

			rec := metrics.New(nil)
			console := game.NewConsole(c.App.Reader, out, game.NewManager(cat, cfg.Cheaters))
			console.SetBus(bus)
			console.SetMetrics(rec)
			console.SetTracer(otel.Tracer("bowling"))
			console.SetLogger(log)
			console.SetDefaultVariant(cfg.DefaultVariant)

			g, err := console.Play(ctx)
			if err != nil {
				return err
			}

			if cfg.ResultsFile != "" {
				if err := game.ExportResults(g, cfg.ResultsFile); err != nil {
					return err
				}
				log.Info().Str("file", cfg.ResultsFile).Msg("results exported")
			}
			entries := make([]scoresheet.Entry, 0, len(g.Players()))
			for _, p := range g.Players() {
				entries = append(entries, scoresheet.Entry{Player: p.Name, Card: p.Card()})
			}
			if path := c.String("xlsx"); path != "" {
				if err := writeFile(path, func(w io.Writer) error { return scoresheet.WriteXLSX(w, entries) }); err != nil {
					return err
				}
			}
			if path := c.String("chart"); path != "" {
				if err := writeFile(path, func(w io.Writer) error { return scoresheet.WriteChart(w, entries) }); err != nil {
					return err
				}
			}
			if cfg.MetricsFile != "" {
				if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "score a list of rolls",
		ArgsUsage: "ROLL...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "variant", Aliases: []string{"v"}, Usage: "variant to score (default from config)"},
			&cli.StringFlag{Name: "sheet", Usage: "detailed or classic"},
			&cli.BoolFlag{Name: "json", Usage: "print the card as JSON"},
		},
		Action: func(c *cli.Context) error {
			cfg, cat, shutdown, err := setup(c)
			if err != nil {
				return err
			}
			defer shutdown()
			variant := cfg.DefaultVariant
			if v := c.String("variant"); v != "" {
				variant = v
			}
			if v := c.String("sheet"); v != "" {
				cfg.Sheet = v
			}
			rc, err := cat.Lookup(variant)
			if err != nil {
				return err
			}
			engine, err := scoring.NewEngine(rc)
			if err != nil {
				return err
			}

			rolls, err := parseRolls(c.Args().Slice())
			if err != nil {
				return err
			}
			_, span := otel.Tracer("bowling").Start(c.Context, "score", trace.WithAttributes(
				attribute.String("variant", rc.Name),
				attribute.Int("rolls", len(rolls)),
			))
			defer span.End()
			frames, err := engine.Framify(rolls)
			if err != nil {
				span.RecordError(err)
				return err
			}
			zerologlog.Debug().Str("variant", rc.Name).Ints("rolls", rolls).Msg("scored")

			out := c.App.Writer
			if c.Bool("json") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(frames.Card())
			}
			if err := renderer(cfg.Sheet, isTerminal(out)).Render(out, frames.Card()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Score: %s\n", frames.Score())
			return nil
		},
	}
}

func variantsCommand() *cli.Command {
	return &cli.Command{
		Name:  "variants",
		Usage: "list the known variants",
		Action: func(c *cli.Context) error {
			_, cat, shutdown, err := setup(c)
			if err != nil {
				return err
			}
			defer shutdown()
			for _, name := range cat.Names() {
				v, _ := cat.Lookup(name)
				fmt.Fprintf(c.App.Writer, "%-10s frames=%d rolls/turn=%d pins=%d parser=%s\n",
					v.Name, v.NumberOfFrames, v.MaxRollsPerTurn, v.Pins, v.Parser)
			}
			return nil
		},
	}
}

// parseRolls accepts rolls as separate arguments or comma separated.
func parseRolls(args []string) ([]int, error) {
	var rolls []int
	for _, arg := range args {
		for _, f := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("roll %q: %w", f, scoring.ErrInvalidRoll)
			}
			rolls = append(rolls, v)
		}
	}
	return rolls, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	zerologlog.Info().Str("file", path).Msg("written")
	return nil
}
