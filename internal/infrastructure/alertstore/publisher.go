package alertstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/arbiscout/backend/internal/domain"
)

// DefaultStream is the Redis stream notification consumers read from
const DefaultStream = "alerts.detected"

// StreamPublisher pushes alerts onto a Redis stream for the external
// notification layer (Telegram/Slack/email workers) to consume.
type StreamPublisher struct {
	client *redis.Client
	stream string
}

// NewStreamPublisher creates a publisher writing to the given stream name
func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamPublisher{client: client, stream: stream}
}

// Publish appends an alert to the stream as a JSON payload
func (p *StreamPublisher) Publish(ctx context.Context, alert domain.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"alert": string(payload),
		},
	}).Err(); err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", p.stream, err)
	}
	return nil
}
