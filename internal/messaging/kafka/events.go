package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

// TopicLifecycleEvents — topic по умолчанию для событий каталога и заказов.
const TopicLifecycleEvents = "backoffice.lifecycle.events"

// Kafka headers, дублирующие поля конверта для фильтрации без разбора payload.
const (
	HeaderEventID   = "x-event-id"
	HeaderEventType = "x-event-type"
)

// Envelope — формат сообщения в topic.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope упаковывает доменное событие, присваивая ему новый EventID.
func NewEnvelope(event domain.Event) (Envelope, error) {
	occurred := event.Occurred
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	envelope := Envelope{
		EventID:    uuid.NewString(),
		EventType:  string(event.Type),
		Key:        event.Key,
		OccurredAt: occurred.UTC(),
	}
	if event.Payload != nil {
		payload, err := json.Marshal(event.Payload)
		if err != nil {
			return Envelope{}, fmt.Errorf("marshal %s payload: %w", event.Type, err)
		}
		envelope.Payload = payload
	}
	return envelope, nil
}
