package mailer

import (
	"context"
	"fmt"

	"github.com/eduMindSolutions/platform-service/internal/config"
)

// EmailSender is the transport boundary. Implementations deliver a single
// message; everything above it is template assembly.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	Tag      string `json:"tag,omitempty"`
}

// Mailer exposes the three lifecycle email entry points consumed by the
// dispatcher. All calls are best-effort: the caller logs failures and relies
// on bus redelivery, nothing is transactional with notification rows.
type Mailer interface {
	NotifyAdminsOfRegistration(ctx context.Context, userEmail, displayName, role string) error
	NotifyUserOfApproval(ctx context.Context, userEmail, displayName string) error
	NotifyApproverOfApproval(ctx context.Context, userEmail, approverEmail string) error
	NotifyUserOfActivation(ctx context.Context, userEmail, displayName string) error
}

type mailer struct {
	sender EmailSender
	cfg    config.MailerConfig
}

// New builds the platform mailer on top of a transport.
func New(sender EmailSender, cfg config.MailerConfig) Mailer {
	return &mailer{sender: sender, cfg: cfg}
}

func (m *mailer) NotifyAdminsOfRegistration(ctx context.Context, userEmail, displayName, role string) error {
	body := fmt.Sprintf(
		`<p>A new user has registered and is pending approval.</p>
<p><strong>%s</strong> (%s) signed up as %s.</p>
<p><a href="%s/admin/accounts">Review pending users</a></p>`,
		displayName, userEmail, role, m.cfg.SiteURL)

	return m.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   m.cfg.AdminEmail,
		Subject:  "New user registration pending approval",
		BodyHTML: body,
		Tag:      "user-registration",
	})
}

func (m *mailer) NotifyUserOfApproval(ctx context.Context, userEmail, displayName string) error {
	body := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Your account has been approved! You now have full access to the platform.</p>
<p><a href="%s/dashboard">Access your dashboard</a></p>`,
		displayName, m.cfg.SiteURL)

	return m.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   userEmail,
		Subject:  "Account approved - Welcome to eduMindSolutions!",
		BodyHTML: body,
		Tag:      "user-approved",
	})
}

func (m *mailer) NotifyApproverOfApproval(ctx context.Context, userEmail, approverEmail string) error {
	body := fmt.Sprintf(
		`<p>You approved the account for %s. The user has been notified.</p>`,
		userEmail)

	return m.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   approverEmail,
		Subject:  fmt.Sprintf("User %s approved", userEmail),
		BodyHTML: body,
		Tag:      "user-approved-admin",
	})
}

func (m *mailer) NotifyUserOfActivation(ctx context.Context, userEmail, displayName string) error {
	body := fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Your account is now active and you can start using all platform features.</p>
<p><a href="%s/profile">Complete your profile</a></p>`,
		displayName, m.cfg.SiteURL)

	return m.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   userEmail,
		Subject:  "Account activated",
		BodyHTML: body,
		Tag:      "account-activated",
	})
}
