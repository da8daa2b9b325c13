package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/eduMindSolutions/platform-service/internal/config"
)

var (
	ErrInvalidConfig     = errors.New("invalid mailer config")
	ErrFailedToSendEmail = errors.New("failed to send email")
)

type postmarkClient struct {
	client *postmark.Client
	cfg    config.MailerConfig
}

// NewPostmarkClient creates a Postmark-backed email sender. Both tokens are
// required so broken credentials fail at startup, not on the first send.
func NewPostmarkClient(cfg config.MailerConfig) (EmailSender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: POSTMARK_SERVER_TOKEN is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: POSTMARK_ACCOUNT_TOKEN is required", ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: MAILER_SENDER_EMAIL is required", ErrInvalidConfig)
	}

	return &postmarkClient{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		cfg:    cfg,
	}, nil
}

func (c *postmarkClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	resp, err := c.client.SendEmail(ctx, postmark.Email{
		From:       c.cfg.SenderEmail,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}
