package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/backoffice/internal/domain"
)

func newTestProducer(t *testing.T) (*Producer, *mocks.SyncProducer) {
	t.Helper()
	mockProducer := mocks.NewSyncProducer(t, nil)
	return newProducer(mockProducer, log.WithField("component", "kafka-producer-test")), mockProducer
}

func TestProducer_Send(t *testing.T) {
	producer, mockProducer := newTestProducer(t)

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var envelope Envelope
		if err := json.Unmarshal(value, &envelope); err != nil {
			return err
		}
		if envelope.EventType != string(domain.EventOrderPlaced) || envelope.Key != "1" {
			return fmt.Errorf("unexpected envelope %+v", envelope)
		}
		return nil
	})

	envelope, err := NewEnvelope(domain.Event{Type: domain.EventOrderPlaced, Key: "1"})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if err := producer.Send(TopicLifecycleEvents, envelope); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_Send_Error(t *testing.T) {
	producer, mockProducer := newTestProducer(t)

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	envelope, err := NewEnvelope(domain.Event{Type: domain.EventOrderShipped, Key: "7"})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if err := producer.Send(TopicLifecycleEvents, envelope); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewEnvelope(t *testing.T) {
	occurred := time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC)
	payload := map[string]any{"number": 3, "total": "60.50"}

	envelope, err := NewEnvelope(domain.Event{
		Type:     domain.EventOrderPlaced,
		Key:      "3",
		Payload:  payload,
		Occurred: occurred,
	})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}

	if _, err := uuid.Parse(envelope.EventID); err != nil {
		t.Fatalf("event id must be a uuid: %v", err)
	}
	if !envelope.OccurredAt.Equal(occurred) {
		t.Errorf("expected occurred %s, got %s", occurred, envelope.OccurredAt)
	}

	var decoded map[string]any
	if err := json.Unmarshal(envelope.Payload, &decoded); err != nil {
		t.Fatalf("payload must be valid json: %v", err)
	}
	if decoded["total"] != "60.50" {
		t.Errorf("unexpected payload %v", decoded)
	}

	other, err := NewEnvelope(domain.Event{Type: domain.EventOrderPlaced, Key: "3"})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if other.EventID == envelope.EventID {
		t.Error("each envelope must get its own event id")
	}
	if other.OccurredAt.IsZero() || other.Payload != nil {
		t.Errorf("unexpected defaults: %+v", other)
	}
}

func TestNewEnvelope_UnmarshalablePayload(t *testing.T) {
	_, err := NewEnvelope(domain.Event{Type: domain.EventItemCreated, Payload: make(chan int)})
	if err == nil {
		t.Fatal("expected marshal error")
	}
}

func TestPublisher_Publish(t *testing.T) {
	producer, mockProducer := newTestProducer(t)
	publisher := NewPublisher(producer, "")

	mockProducer.ExpectSendMessageAndSucceed()

	if err := publisher.Publish(context.Background(), domain.Event{Type: domain.EventItemCreated, Key: "A000001"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if publisher.topic != TopicLifecycleEvents {
		t.Errorf("expected default topic, got %s", publisher.topic)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestPublisher_Guards(t *testing.T) {
	var nilPublisher *Publisher
	if err := nilPublisher.Publish(context.Background(), domain.Event{}); err == nil {
		t.Fatal("expected error for nil publisher")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	producer, mockProducer := newTestProducer(t)
	if err := NewPublisher(producer, "custom").Publish(ctx, domain.Event{}); err == nil {
		t.Fatal("expected context error")
	}
	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}

	if err := (NoopPublisher{}).Publish(context.Background(), domain.Event{}); err != nil {
		t.Fatalf("noop publisher must not fail: %v", err)
	}
}
