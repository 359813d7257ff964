// Package mail sends the association's transactional email (confirmation and
// sign-in links) over SMTP, localized to the recipient's language.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	gomail "github.com/wneessen/go-mail"

	"github.com/alamal-ev/website/internal/locale"
)

// Sender is what handlers depend on; tests substitute a fake.
type Sender interface {
	SendMagicLink(ctx context.Context, to string, loc locale.Locale, token string) error
	SendMembershipConfirmation(ctx context.Context, to string, loc locale.Locale, name, token string) error
	SendEducationConfirmation(ctx context.Context, to string, loc locale.Locale, name, token string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	BaseURL  string
}

// Client delivers mail through an SMTP relay. Transient relay failures are
// retried with exponential backoff before the error is surfaced.
type Client struct {
	cfg    Config
	client *gomail.Client
}

func NewClient(cfg Config) (*Client, error) {
	c := &Client{cfg: cfg}
	if cfg.Host == "" {
		return c, nil
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	smtp, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	c.client = smtp
	return c, nil
}

// Configured returns true if an SMTP host is set.
func (c *Client) Configured() bool {
	return c.cfg.Host != ""
}

func (c *Client) send(ctx context.Context, to, subject, text, html string) error {
	if !c.Configured() {
		return fmt.Errorf("mail client not configured: missing SMTP host")
	}

	msg := gomail.NewMsg()
	if err := msg.From(c.cfg.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, text)
	msg.AddAlternativeString(gomail.TypeTextHTML, html)

	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := c.client.DialAndSendWithContext(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func (c *Client) SendMagicLink(ctx context.Context, to string, loc locale.Locale, token string) error {
	link := fmt.Sprintf("%s/%s/auth/verify?token=%s", c.cfg.BaseURL, loc, token)
	subject, text, html := render(magicLinkTemplates, loc, link)
	return c.send(ctx, to, subject, text, html)
}

func (c *Client) SendMembershipConfirmation(ctx context.Context, to string, loc locale.Locale, name, token string) error {
	link := fmt.Sprintf("%s/api/membership/confirm?token=%s&locale=%s", c.cfg.BaseURL, token, loc)
	subject, text, html := render(membershipTemplates, loc, name, link)
	return c.send(ctx, to, subject, text, html)
}

func (c *Client) SendEducationConfirmation(ctx context.Context, to string, loc locale.Locale, name, token string) error {
	link := fmt.Sprintf("%s/api/education-registration/confirm?token=%s&locale=%s", c.cfg.BaseURL, token, loc)
	subject, text, html := render(educationTemplates, loc, name, link)
	return c.send(ctx, to, subject, text, html)
}
