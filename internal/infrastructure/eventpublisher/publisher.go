// Package eventpublisher delivers ledger events to external systems.
package eventpublisher

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/iho/pocketledger/internal/domain"
	"github.com/iho/pocketledger/internal/usecase"
)

// LogPublisher logs events instead of sending them anywhere. It is used when
// no events backend is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "events").Logger()}
}

// Publish logs the event at debug level.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.Event) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Str("user_id", event.UserID).
		RawJSON("payload", payload).
		Msg("event")

	return nil
}

// Recorder counts publication outcomes.
type Recorder interface {
	EventPublished(eventType string, err error)
}

// Instrumented wraps a publisher and reports every outcome to a Recorder.
type Instrumented struct {
	next     usecase.EventPublisher
	recorder Recorder
}

// WithMetrics wraps next so that each Publish is counted.
func WithMetrics(next usecase.EventPublisher, recorder Recorder) *Instrumented {
	return &Instrumented{next: next, recorder: recorder}
}

// Publish forwards to the wrapped publisher.
func (p *Instrumented) Publish(ctx context.Context, event *domain.Event) error {
	err := p.next.Publish(ctx, event)
	p.recorder.EventPublished(event.Type, err)
	return err
}

func marshal(event *domain.Event) ([]byte, error) {
	return json.Marshal(event)
}
