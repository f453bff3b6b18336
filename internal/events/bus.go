package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/kiliankoe/bowling/internal/scoring"
	"github.com/rs/zerolog"
)

// TopicTurnCompleted carries a TurnCompleted after every finished turn.
const TopicTurnCompleted = "bowling.turn.completed"

var ErrBusClosed = errors.New("event bus closed")

// TurnCompleted is the snapshot published once a player finishes a turn.
type TurnCompleted struct {
	GameCode string       `json:"gameCode"`
	PlayerID string       `json:"playerId"`
	Player   string       `json:"player"`
	Frame    int          `json:"frame"`
	Card     scoring.Card `json:"card"`
}

// Bus is an in-process publish/subscribe channel for game events. Publish
// returns only after every subscriber has handled the message, so
// subscribers observe turns in order.
type Bus struct {
	pubsub *gochannel.GoChannel
	log    zerolog.Logger
}

func NewBus(log zerolog.Logger) *Bus {
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		BlockPublishUntilSubscriberAck: true,
	}, NewLoggerAdapter(log))
	return &Bus{pubsub: pubsub, log: log}
}

func (b *Bus) PublishTurn(ev TurnCompleted) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal turn event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("game", ev.GameCode)
	msg.Metadata.Set("player", ev.PlayerID)
	if err := b.pubsub.Publish(TopicTurnCompleted, msg); err != nil {
		return fmt.Errorf("publish turn event: %w", err)
	}
	return nil
}

// OnTurn calls fn for every TurnCompleted published after it returns, until
// ctx is done or the bus is closed. Handler errors are logged; the message
// is acknowledged either way.
func (b *Bus) OnTurn(ctx context.Context, fn func(TurnCompleted) error) error {
	msgs, err := b.pubsub.Subscribe(ctx, TopicTurnCompleted)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBusClosed, err)
	}
	go func() {
		for msg := range msgs {
			var ev TurnCompleted
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				b.log.Error().Err(err).Str("msg_id", msg.UUID).Msg("decode turn event")
			} else if err := fn(ev); err != nil {
				b.log.Error().Err(err).Str("player", ev.Player).Int("frame", ev.Frame).Msg("turn handler failed")
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
