package domain

import "time"

// NotificationTypeNewRSVP is pushed to an event owner when one of their invitees answers.
const NotificationTypeNewRSVP = "newRsvp"

// Notification is a realtime message delivered to every session of a user.
type Notification struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// RSVPNotification is the payload of a NotificationTypeNewRSVP message.
type RSVPNotification struct {
	InviteID           string    `json:"inviteId"`
	EventID            string    `json:"eventId"`
	Family             string    `json:"family"`
	Confirmation       bool      `json:"confirmation"`
	EntriesConfirmed   int       `json:"entriesConfirmed"`
	DateOfConfirmation time.Time `json:"dateOfConfirmation"`
}

// Notifier delivers realtime notifications to the room of a username.
type Notifier interface {
	Publish(username string, n Notification)
}
