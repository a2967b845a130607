package mail

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"
	"strings"

	gomail "github.com/wneessen/go-mail"
)

//go:generate mockgen -source=sender.go -destination=mock/mock_sender.go -package=mock

var (
	ErrNotConfigured = errors.New("smtp is not configured")
	ErrNoRecipients  = errors.New("at least one recipient is required")
)

const implicitTLSPort = 465

// Message is a plain-text email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender submits messages and returns the Message-ID of the submitted mail.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Config holds SMTP submission settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender submits mail through an SMTP relay.
type SMTPSender struct {
	cfg Config
}

// NewSMTPSender creates a sender. A missing host is reported on Send, not here,
// so the rest of the server can start without SMTP.
func NewSMTPSender(cfg Config) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Configured reports whether an SMTP host is set.
func (s *SMTPSender) Configured() bool {
	return s.cfg.Host != ""
}

// Send dials the relay, submits one message and returns its Message-ID.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}

	m, err := buildMessage(s.cfg.From, msg)
	if err != nil {
		return "", err
	}

	client, err := gomail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return "", fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return "", fmt.Errorf("submit mail: %w", err)
	}

	return messageID(m), nil
}

func (s *SMTPSender) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.cfg.Port == implicitTLSPort {
		opts = append(opts, gomail.WithSSL())
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}

func buildMessage(from string, msg Message) (*gomail.Msg, error) {
	if from == "" {
		return nil, errors.New("sender address is not configured")
	}

	m := gomail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return m, nil
}

func messageID(m *gomail.Msg) string {
	if ids := m.GetGenHeader(gomail.HeaderMessageID); len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// ParseRecipients splits a comma-separated address list and validates every address.
func ParseRecipients(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoRecipients
	}

	list, err := netmail.ParseAddressList(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient list: %w", err)
	}

	recipients := make([]string, 0, len(list))
	for _, addr := range list {
		recipients = append(recipients, addr.Address)
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}
	return recipients, nil
}
