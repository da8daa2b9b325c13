package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
)

// EventPublisher defines the interface for publishing lifecycle events.
type EventPublisher interface {
	PublishLifecycleEvent(ctx context.Context, event *LifecycleEvent) error
	Close() error
}

// KafkaEventPublisher implements EventPublisher using Watermill with Kafka.
type KafkaEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topicName string
}

// PublisherConfig holds configuration for the event publisher.
type PublisherConfig struct {
	KafkaBrokers []string
	TopicName    string
	Logger       *slog.Logger
}

// SubscriberConfig holds configuration for the event subscriber.
type SubscriberConfig struct {
	KafkaBrokers  []string
	ConsumerGroup string
	Logger        *slog.Logger
}

// NewKafkaEventPublisher creates a new Kafka-based event publisher using Watermill.
func NewKafkaEventPublisher(config PublisherConfig) (*KafkaEventPublisher, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	publisherConfig := kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}

	publisher, err := kafka.NewPublisher(publisherConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &KafkaEventPublisher{
		publisher: publisher,
		logger:    config.Logger,
		topicName: config.TopicName,
	}, nil
}

// NewKafkaEventSubscriber creates the consumer side of the Kafka bus.
func NewKafkaEventSubscriber(config SubscriberConfig) (message.Subscriber, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:       config.KafkaBrokers,
		ConsumerGroup: config.ConsumerGroup,
		Unmarshaler:   kafka.DefaultMarshaler{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}

	return subscriber, nil
}

// PublishLifecycleEvent publishes a lifecycle event to Kafka.
func (p *KafkaEventPublisher) PublishLifecycleEvent(ctx context.Context, event *LifecycleEvent) error {
	msg, err := marshalEvent(event)
	if err != nil {
		return err
	}

	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		p.logger.Error("Failed to publish lifecycle event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		return fmt.Errorf("failed to publish lifecycle event: %w", err)
	}

	p.logger.Info("Published lifecycle event",
		"event_id", event.ID,
		"event_type", event.Type,
		"topic", p.topicName)

	return nil
}

// Close closes the publisher and releases resources.
func (p *KafkaEventPublisher) Close() error {
	return p.publisher.Close()
}

// ChannelEventPublisher publishes through an in-process Watermill pub/sub,
// used in development and single-binary deployments.
type ChannelEventPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
	topicName string
}

func NewChannelEventPublisher(publisher message.Publisher, topicName string, logger *slog.Logger) *ChannelEventPublisher {
	return &ChannelEventPublisher{
		publisher: publisher,
		logger:    logger,
		topicName: topicName,
	}
}

func (p *ChannelEventPublisher) PublishLifecycleEvent(ctx context.Context, event *LifecycleEvent) error {
	msg, err := marshalEvent(event)
	if err != nil {
		return err
	}

	if err := p.publisher.Publish(p.topicName, msg); err != nil {
		return fmt.Errorf("failed to publish lifecycle event: %w", err)
	}

	p.logger.Debug("Published lifecycle event in-process",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

// Close is a no-op: the shared channel is owned by whoever created it.
func (p *ChannelEventPublisher) Close() error {
	return nil
}

func marshalEvent(event *LifecycleEvent) (*message.Message, error) {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lifecycle event: %w", err)
	}

	msg := message.NewMessage(event.ID, eventBytes)
	msg.Metadata.Set("event_type", string(event.Type))
	msg.Metadata.Set("source", event.Source)
	msg.Metadata.Set("version", event.Version)
	msg.Metadata.Set("idempotency_key", event.IdempotencyKey)
	msg.Metadata.Set("timestamp", event.Timestamp.Format(time.RFC3339))

	return msg, nil
}

// MockEventPublisher is a mock implementation for testing.
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []LifecycleEvent
	Logger *slog.Logger
}

// NewMockEventPublisher creates a new mock event publisher.
func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{
		Events: make([]LifecycleEvent, 0),
		Logger: logger,
	}
}

// PublishLifecycleEvent stores the event in memory (for testing).
func (m *MockEventPublisher) PublishLifecycleEvent(ctx context.Context, event *LifecycleEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, *event)
	m.Logger.Info("Mock: Published lifecycle event",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}

// Close is a no-op for the mock publisher.
func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns all published events (for testing).
func (m *MockEventPublisher) GetPublishedEvents() []LifecycleEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LifecycleEvent, len(m.Events))
	copy(out, m.Events)
	return out
}

// ClearEvents clears all published events (for testing).
func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = m.Events[:0]
}
