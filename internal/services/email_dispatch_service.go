package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/eduMindSolutions/platform-service/internal/cache"
	"github.com/eduMindSolutions/platform-service/internal/events"
	"github.com/eduMindSolutions/platform-service/internal/mailer"
)

// claimTTL bounds how long an idempotency key stays claimed. Redeliveries
// inside the window are dropped; after it the transition email could in
// principle be sent again, which at-least-once delivery already allows.
const emailClaimTTL = 24 * time.Hour

// EmailDispatcher consumes lifecycle events from the bus and turns them into
// emails. Sending is decoupled from the transition that produced the event:
// a slow or failing mail provider never blocks a registration or approval.
type EmailDispatcher struct {
	mailer mailer.Mailer
	cache  cache.CacheService
	logger *slog.Logger
}

func NewEmailDispatcher(m mailer.Mailer, cacheService cache.CacheService, logger *slog.Logger) *EmailDispatcher {
	return &EmailDispatcher{
		mailer: m,
		cache:  cacheService,
		logger: logger,
	}
}

// Register attaches the dispatcher to a Watermill router.
func (d *EmailDispatcher) Register(router *message.Router, subscriber message.Subscriber, topic string) {
	router.AddNoPublisherHandler(
		"lifecycle_email_dispatcher",
		topic,
		subscriber,
		d.Handle,
	)
}

// lifecycleEnvelope defers payload decoding until the event type is known.
type lifecycleEnvelope struct {
	ID             string           `json:"id"`
	Type           events.EventType `json:"type"`
	IdempotencyKey string           `json:"idempotency_key"`
	Data           json.RawMessage  `json:"data"`
}

// Handle processes one lifecycle event. Returning an error nacks the message
// so the bus redelivers it; the idempotency claim keeps redeliveries of
// already-sent emails from going out twice.
func (d *EmailDispatcher) Handle(msg *message.Message) error {
	var envelope lifecycleEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		// Malformed payloads can never succeed; ack and drop.
		d.logger.Error("Dropping malformed lifecycle event",
			"message_id", msg.UUID,
			"error", err)
		return nil
	}

	ctx := msg.Context()
	claimKey := "email_sent:" + envelope.IdempotencyKey

	claimed, err := d.cache.Claim(ctx, claimKey, emailClaimTTL)
	if err != nil {
		return fmt.Errorf("failed to claim idempotency key %s: %w", envelope.IdempotencyKey, err)
	}
	if !claimed {
		d.logger.Debug("Skipping already-dispatched lifecycle event",
			"event_id", envelope.ID,
			"idempotency_key", envelope.IdempotencyKey)
		return nil
	}

	if err := d.dispatch(msg, &envelope); err != nil {
		// Release the claim so the redelivery gets another attempt.
		if delErr := d.cache.Delete(ctx, claimKey); delErr != nil {
			d.logger.Error("Failed to release idempotency claim",
				"idempotency_key", envelope.IdempotencyKey,
				"error", delErr)
		}
		return err
	}

	d.logger.Info("Lifecycle email dispatched",
		"event_id", envelope.ID,
		"event_type", envelope.Type)
	return nil
}

func (d *EmailDispatcher) dispatch(msg *message.Message, envelope *lifecycleEnvelope) error {
	ctx := msg.Context()

	switch envelope.Type {
	case events.EventUserRegistered:
		var data events.UserRegisteredEvent
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return fmt.Errorf("failed to decode registration event: %w", err)
		}
		return d.mailer.NotifyAdminsOfRegistration(ctx, data.Email, data.DisplayName, data.Role)

	case events.EventUserApproved:
		var data events.UserApprovedEvent
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return fmt.Errorf("failed to decode approval event: %w", err)
		}
		if err := d.mailer.NotifyUserOfApproval(ctx, data.Email, data.DisplayName); err != nil {
			return err
		}
		if data.ApproverEmail != "" {
			if err := d.mailer.NotifyApproverOfApproval(ctx, data.Email, data.ApproverEmail); err != nil {
				// The user email already went out; log and ack rather than
				// redeliver and double-send it.
				d.logger.Error("Failed to send approver confirmation",
					"approver_email", data.ApproverEmail,
					"error", err)
			}
		}
		return nil

	case events.EventUserActivated:
		var data events.UserActivatedEvent
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return fmt.Errorf("failed to decode activation event: %w", err)
		}
		return d.mailer.NotifyUserOfActivation(ctx, data.Email, data.DisplayName)

	default:
		d.logger.Warn("Ignoring unknown lifecycle event type",
			"event_id", envelope.ID,
			"event_type", envelope.Type)
		return nil
	}
}
