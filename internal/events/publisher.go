package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lendhive/service-rental/pkg/kafka"
)

const publishTimeout = 5 * time.Second

// Publisher emits booking lifecycle events. Publishing is fire-and-forget:
// a broker failure must never fail the operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, data any)
}

// KafkaPublisher wraps the shared producer with CloudEvent envelopes.
type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
	log      *zap.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, source string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source, log: log}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType, key string, data any) {
	event, err := kafka.NewCloudEvent(p.source, eventType, data)
	if err != nil {
		p.log.Error("build event envelope", zap.String("type", eventType), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.producer.PublishEvent(ctx, TopicBookingEvents, key, event); err != nil {
		p.log.Error("publish event",
			zap.String("type", eventType),
			zap.String("key", key),
			zap.Error(err))
	}
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, string, any) {}
