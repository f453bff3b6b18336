package scoresheet

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/kiliankoe/bowling/internal/events"
)

// Observer prints a fresh scoresheet every time a player finishes a turn.
type Observer struct {
	renderer Renderer

	mu  sync.Mutex
	out io.Writer
}

func NewObserver(r Renderer, out io.Writer) *Observer {
	return &Observer{renderer: r, out: out}
}

// Attach subscribes the observer to the bus's turn events.
func (o *Observer) Attach(ctx context.Context, bus *events.Bus) error {
	return bus.OnTurn(ctx, o.Handle)
}

func (o *Observer) Handle(ev events.TurnCompleted) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.renderer.Render(o.out, ev.Card); err != nil {
		return fmt.Errorf("render scoresheet for %s frame %d: %w", ev.Player, ev.Frame, err)
	}
	return nil
}
