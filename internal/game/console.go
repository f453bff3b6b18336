package game

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kiliankoe/bowling/internal/events"
	"github.com/kiliankoe/bowling/internal/metrics"
	"github.com/kiliankoe/bowling/internal/scoring"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrInputClosed = errors.New("input closed before the game finished")

const defaultPlayers = "Larry, Curly, Moe"

// Console runs a game over a line-oriented text stream, asking for player
// names, each player's variant, and then every roll frame by frame.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	manager        *Manager
	defaultVariant string

	bus     *events.Bus
	metrics *metrics.Recorder
	tracer  trace.Tracer
	log     zerolog.Logger
}

func NewConsole(in io.Reader, out io.Writer, m *Manager) *Console {
	return &Console{
		in:             bufio.NewReader(in),
		out:            out,
		manager:        m,
		defaultVariant: scoring.TenPin.Name,
		tracer:         otel.Tracer("github.com/kiliankoe/bowling/internal/game"),
		log:            zerolog.Nop(),
	}
}

func (c *Console) SetBus(b *events.Bus) { c.bus = b }
func (c *Console) SetMetrics(r *metrics.Recorder) { c.metrics = r }
func (c *Console) SetTracer(t trace.Tracer) { c.tracer = t }
func (c *Console) SetLogger(l zerolog.Logger) { c.log = l }
func (c *Console) SetDefaultVariant(name string) { c.defaultVariant = strings.ToUpper(name) }

// Play runs one complete game and returns it once the final scores are
// printed. The game is closed in the manager either way.
func (c *Console) Play(ctx context.Context) (*Game, error) {
	ctx, span := c.tracer.Start(ctx, "game.play")
	defer span.End()

	g := c.manager.CreateGame()
	defer c.manager.Close(g.Code)
	span.SetAttributes(attribute.String("game.code", g.Code))
	if err := c.seatPlayers(g); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return g, err
	}

	numFrames, err := g.NumFrames()
	if err != nil {
		return g, err
	}
	for frame := 1; frame <= numFrames; frame++ {
		for _, p := range g.Players() {
			if err := c.playTurn(ctx, g, p, frame); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return g, err
			}
		}
	}

	c.printf("\n\nGame over, thanks for playing!")
	c.printf("\nFinal Scores:")
	for _, p := range g.Players() {
		c.printf("\n  %s %s", p.Name, p.Score())
		if v, ok := p.Score().Int(); ok {
			c.metrics.FinalScore(p.Variant, v)
		}
	}
	c.printf("\n")
	c.metrics.GameOver()
	c.log.Info().Str("game", g.Code).Int("players", len(g.Players())).Msg("game over")
	return g, nil
}

func (c *Console) seatPlayers(g *Game) error {
	c.printf("\nWho's playing? (%s) >", defaultPlayers)
	line, err := c.listen(defaultPlayers)
	if err != nil {
		return err
	}
	names := splitNames(line)
	if len(names) == 0 {
		names = splitNames(defaultPlayers)
	}

	for _, name := range names {
		for {
			c.printf("\nWhich game would %s like to play? (%s) >", name, c.defaultVariant)
			variant, err := c.listen(c.defaultVariant)
			if err != nil {
				return err
			}
			p, err := g.Join(name, variant)
			if errors.Is(err, scoring.ErrUnknownVariant) {
				c.log.Warn().Str("player", name).Str("variant", variant).Strs("known", c.manager.Catalog().Names()).Msg("unknown variant")
				continue
			}
			if err != nil {
				return err
			}
			c.log.Debug().Str("game", g.Code).Str("player", p.Name).Str("variant", p.Variant).Bool("cheater", p.Cheating()).Msg("player joined")
			break
		}
	}
	return nil
}

func (c *Console) playTurn(ctx context.Context, g *Game, p *Player, frame int) error {
	_, span := c.tracer.Start(ctx, "game.turn", trace.WithAttributes(
		attribute.String("player.name", p.Name),
		attribute.String("player.variant", p.Variant),
		attribute.Int("frame", frame),
	))
	defer span.End()

	c.printf("\n\n%s now starting frame %d", p.Name, frame)
	for !p.TurnComplete(frame) {
		c.printf("\n Roll? >")
		line, err := c.listen("0")
		if err != nil {
			return err
		}
		pins, err := strconv.Atoi(line)
		if err != nil {
			c.log.Warn().Str("player", p.Name).Str("input", line).Msg("not a number, roll again")
			continue
		}
		if err := g.Roll(p.ID, pins); err != nil {
			if errors.Is(err, scoring.ErrInvalidRoll) {
				c.metrics.Rejected(p.Variant, "invalid_roll")
				c.log.Warn().Err(err).Str("player", p.Name).Msg("roll rejected")
				continue
			}
			return fmt.Errorf("%s frame %d: %w", p.Name, frame, err)
		}
		c.metrics.Roll(p.Variant)
	}
	c.metrics.Turn(p.Variant)

	if c.bus != nil {
		ev := events.TurnCompleted{GameCode: g.Code, PlayerID: p.ID, Player: p.Name, Frame: frame, Card: p.Card()}
		if err := c.bus.PublishTurn(ev); err != nil {
			c.log.Error().Err(err).Str("player", p.Name).Int("frame", frame).Msg("publish turn")
		}
	}
	return nil
}

// listen reads one line, returning def for a blank line.
func (c *Console) listen(def string) (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

func splitNames(line string) []string {
	var names []string
	for _, n := range strings.Split(strings.ReplaceAll(line, " ", ""), ",") {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}
