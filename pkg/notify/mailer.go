package notify

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/mrz1836/postmark"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MailerConfig configures the Postmark-backed purchase mailer.
type MailerConfig struct {
	ServerToken  string `env:"POSTMARK_SERVER_TOKEN,required"`
	AccountToken string `env:"POSTMARK_ACCOUNT_TOKEN,required"`
	SenderEmail  string `env:"POSTMARK_SENDER_EMAIL,required"`
	SupportEmail string `env:"POSTMARK_SUPPORT_EMAIL,required"`
}

// Mailer sends transactional purchase emails through Postmark. It is an
// optional companion to the in-app notifier: receipts and billing-failure
// notices are worth a durable channel, limit warnings are not.
type Mailer struct {
	client *postmark.Client
	config MailerConfig
}

// NewMailer creates a Postmark mailer. Both tokens and both addresses are
// required so misconfiguration surfaces at startup rather than on the first
// purchase.
func NewMailer(cfg MailerConfig) (*Mailer, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("%w: ServerToken is required", ErrInvalidMailerConfig)
	}
	if cfg.AccountToken == "" {
		return nil, fmt.Errorf("%w: AccountToken is required", ErrInvalidMailerConfig)
	}
	if !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidMailerConfig)
	}
	if !emailRegex.MatchString(cfg.SupportEmail) {
		return nil, fmt.Errorf("%w: SupportEmail must be a valid email address", ErrInvalidMailerConfig)
	}

	return &Mailer{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		config: cfg,
	}, nil
}

// SendReceipt emails a purchase confirmation for the given plan.
func (m *Mailer) SendReceipt(ctx context.Context, to, planName string) error {
	subject := "Your premium subscription is active"
	body := fmt.Sprintf(
		"<p>Thanks for subscribing!</p><p>Your <strong>%s</strong> plan is now active. "+
			"Unlimited tracking, daily recipe generation and the Oracle are unlocked on this account.</p>",
		planName,
	)
	return m.send(ctx, to, subject, "purchase-receipt", body)
}

// SendBillingFailure emails a payment-problem notice with a support pointer.
func (m *Mailer) SendBillingFailure(ctx context.Context, to string) error {
	subject := "We could not process your payment"
	body := fmt.Sprintf(
		"<p>Your latest subscription payment did not go through. Premium features stay "+
			"active until the end of the paid period.</p><p>If this keeps happening, reply to "+
			"this email or contact <a href=\"mailto:%s\">%s</a>.</p>",
		m.config.SupportEmail, m.config.SupportEmail,
	)
	return m.send(ctx, to, subject, "billing-failure", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, tag, htmlBody string) error {
	if !emailRegex.MatchString(to) {
		return fmt.Errorf("%w: invalid recipient %q", ErrFailedToSendEmail, to)
	}

	resp, err := m.client.SendEmail(ctx, postmark.Email{
		From:       m.config.SenderEmail,
		ReplyTo:    m.config.SupportEmail,
		To:         to,
		Subject:    subject,
		Tag:        tag,
		HTMLBody:   htmlBody,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}
	return nil
}
