package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-duel/internal/entity"
)

// DefaultEventChannel is used when no channel is configured.
const DefaultEventChannel = "tictactoe:events"

type EventRepository interface {
	Publish(ctx context.Context, event entity.GameEvent) error
}

type redisEvents struct {
	client  *redis.Client
	channel string
}

func NewEventRepository(client *redis.Client, channel string) EventRepository {
	if channel == "" {
		channel = DefaultEventChannel
	}

	return &redisEvents{
		client:  client,
		channel: channel,
	}
}

// Publish - sends the event to every subscriber of the channel.
func (that *redisEvents) Publish(ctx context.Context, event entity.GameEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	if err = that.client.Publish(ctx, that.channel, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Kind, err)
	}

	return nil
}
