package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData holds data for the welcome email.
type WelcomeMessageEmailData struct {
	Email     string
	FirstName string
	Username  string
}

// RSVPReceivedEmailData holds data for the email sent to an event owner on a new RSVP.
type RSVPReceivedEmailData struct {
	Email            string
	OwnerName        string
	EventName        string
	Family           string
	Confirmation     bool
	EntriesConfirmed int
	Message          string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendRSVPReceived(ctx context.Context, data *RSVPReceivedEmailData) error
}
