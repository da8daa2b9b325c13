package config

import (
	"log/slog"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/eduMindSolutions/platform-service/internal/events"
)

// EventConfig holds configuration for the lifecycle event bus.
type EventConfig struct {
	Enabled        bool   `env:"EVENTS_ENABLED" envDefault:"true"`
	Publisher      string `env:"EVENTS_PUBLISHER" envDefault:"kafka"` // kafka, channel or mock
	KafkaBrokers   string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	LifecycleTopic string `env:"LIFECYCLE_TOPIC" envDefault:"user_lifecycle"`
	ConsumerGroup  string `env:"EVENTS_CONSUMER_GROUP" envDefault:"platform-service-mailer"`
}

// GetKafkaBrokers returns Kafka brokers as a slice.
func (c *EventConfig) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// CreateEventPublisher creates an event publisher based on configuration.
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.LifecycleTopic)

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.LifecycleTopic,
			Logger:       logger,
		})
	case "channel":
		logger.Info("Using in-process channel event publisher")
		return events.NewChannelEventPublisher(c.channelPubSub(logger), c.LifecycleTopic, logger), nil
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", "publisher", c.Publisher)
		return events.NewMockEventPublisher(logger), nil
	}
}

// CreateEventSubscriber creates the subscriber side of the bus for the email
// dispatcher. Returns nil when no consumable transport is configured (mock
// publisher or events disabled).
func (c *EventConfig) CreateEventSubscriber(logger *slog.Logger) (message.Subscriber, error) {
	if !c.Enabled {
		return nil, nil
	}

	switch c.Publisher {
	case "kafka":
		return events.NewKafkaEventSubscriber(events.SubscriberConfig{
			KafkaBrokers:  c.GetKafkaBrokers(),
			ConsumerGroup: c.ConsumerGroup,
			Logger:        logger,
		})
	case "channel":
		return c.channelPubSub(logger), nil
	default:
		return nil, nil
	}
}

// channelPubSub lazily builds the shared in-process pub/sub. The same
// instance must back both publisher and subscriber for messages to flow.
func (c *EventConfig) channelPubSub(logger *slog.Logger) *gochannel.GoChannel {
	if sharedChannel == nil {
		sharedChannel = gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewSlogLogger(logger),
		)
	}
	return sharedChannel
}

var sharedChannel *gochannel.GoChannel
