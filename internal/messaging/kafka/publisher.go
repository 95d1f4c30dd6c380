package kafka

import (
	"context"
	"errors"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

var errPublisherNotInitialized = errors.New("kafka publisher is not initialized")

// Publisher реализует domain.EventPublisher поверх Producer.
type Publisher struct {
	producer *Producer
	topic    string
}

// NewPublisher создаёт паблишер в заданный topic (по умолчанию TopicLifecycleEvents).
func NewPublisher(producer *Producer, topic string) *Publisher {
	if topic == "" {
		topic = TopicLifecycleEvents
	}
	return &Publisher{producer: producer, topic: topic}
}

// Publish упаковывает событие в Envelope и отправляет его.
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	if p == nil || p.producer == nil {
		return errPublisherNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	envelope, err := NewEnvelope(event)
	if err != nil {
		return err
	}
	return p.producer.Send(p.topic, envelope)
}

// NoopPublisher отбрасывает события; используется, когда Kafka не настроена.
type NoopPublisher struct{}

// Publish ничего не делает.
func (NoopPublisher) Publish(context.Context, domain.Event) error {
	return nil
}

var (
	_ domain.EventPublisher = (*Publisher)(nil)
	_ domain.EventPublisher = NoopPublisher{}
)
