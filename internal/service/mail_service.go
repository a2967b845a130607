package service

import (
	"context"
	"errors"
	"strings"

	"meetnotes/backend/internal/logger"
	"meetnotes/backend/internal/metrics"
	"meetnotes/backend/internal/model"
	"meetnotes/backend/internal/service/mail"
)

// DefaultMailSubject is used when the caller omits a subject.
const DefaultMailSubject = "Meeting Summary"

// MailService emails summaries.
type MailService interface {
	// Send validates the request before any SMTP connection is attempted.
	// to is a comma-separated address list.
	Send(ctx context.Context, to, subject, body string) (*model.MailResult, error)
}

type mailService struct {
	sender  mail.Sender
	metrics *metrics.Metrics
}

func NewMailService(sender mail.Sender, m *metrics.Metrics) MailService {
	return &mailService{sender: sender, metrics: m}
}

func (s *mailService) Send(ctx context.Context, to, subject, body string) (*model.MailResult, error) {
	req, err := buildMailRequest(to, subject, body)
	if err != nil {
		s.metrics.IncMail(metrics.ResultInvalid)
		return nil, err
	}

	messageID, err := s.sender.Send(ctx, mail.Message{To: req.To, Subject: req.Subject, Body: req.Body})
	if err != nil {
		logger.Warn("mail send failed", "module", "service", "action", "send", "resource", "mail", "result", "failed", "recipients", len(req.To), "error", err)
		s.metrics.IncMail(metrics.ResultFailed)
		if errors.Is(err, mail.ErrNotConfigured) {
			return nil, &MailError{Message: "email delivery is not configured", Err: err}
		}
		return nil, &MailError{Message: "failed to send email", Err: err}
	}

	logger.Info("mail sent", "module", "service", "action", "send", "resource", "mail", "result", "ok", "recipients", len(req.To), "message_id", messageID)
	s.metrics.IncMail(metrics.ResultOK)
	return &model.MailResult{MessageID: messageID}, nil
}

func buildMailRequest(to, subject, body string) (model.MailRequest, error) {
	if strings.TrimSpace(to) == "" || strings.TrimSpace(body) == "" {
		return model.MailRequest{}, newValidationError("fields 'to' and 'content' are required")
	}

	recipients, err := mail.ParseRecipients(to)
	if err != nil {
		return model.MailRequest{}, newValidationError("invalid recipient address: %s", strings.TrimSpace(to))
	}

	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = DefaultMailSubject
	}

	return model.MailRequest{To: recipients, Subject: subject, Body: body}, nil
}
