package mailer

import (
	"context"
	"log/slog"
	"sync"
)

// DevSender logs outgoing email instead of delivering it. It also records
// sent messages so tests can assert on them.
type DevSender struct {
	mu     sync.Mutex
	logger *slog.Logger
	Sent   []SendEmailParams
}

func NewDevSender(logger *slog.Logger) *DevSender {
	return &DevSender{logger: logger}
}

func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	d.mu.Lock()
	d.Sent = append(d.Sent, params)
	d.mu.Unlock()

	d.logger.Info("Dev mailer: email suppressed",
		"to", params.SendTo,
		"subject", params.Subject,
		"tag", params.Tag)
	return nil
}

// SentEmails returns a copy of everything sent so far.
func (d *DevSender) SentEmails() []SendEmailParams {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]SendEmailParams, len(d.Sent))
	copy(out, d.Sent)
	return out
}
