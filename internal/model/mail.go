package model

// MailRequest is a summary email waiting for submission.
type MailRequest struct {
	To      []string
	Subject string
	Body    string
}

type MailResult struct {
	MessageID string
}
