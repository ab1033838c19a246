package models

import "time"

// SendEmailRequest is the body of POST /api/admin/send-email.
type SendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// EmailOutcome records whether the remote send succeeded.
type EmailOutcome string

const (
	EmailSuccess EmailOutcome = "success"
	EmailFailed  EmailOutcome = "failed"
)

// SentEmailRecord is one entry of the per-profile email audit log.
type SentEmailRecord struct {
	ID        string       `json:"id" bson:"_id"`
	ProfileID string       `json:"-" bson:"profile_id"`
	Recipient string       `json:"recipient" bson:"recipient"`
	Subject   string       `json:"subject" bson:"subject"`
	Message   string       `json:"message" bson:"message"`
	SentAt    time.Time    `json:"sentAt" bson:"sent_at"`
	Status    EmailOutcome `json:"status" bson:"status"`
}
