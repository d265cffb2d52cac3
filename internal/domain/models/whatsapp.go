package models

import "time"

type MessageStatus string

const (
	MessagePending MessageStatus = "pending"
	MessageSent    MessageStatus = "sent"
	MessageFailed  MessageStatus = "failed"
)

func (s MessageStatus) String() string { return string(s) }

func (s MessageStatus) Valid() bool {
	return s == MessagePending || s == MessageSent || s == MessageFailed
}

// WhatsAppMessage is a rendered notification queued for delivery.
// Status moves pending -> sent|failed; failed may be resent. A sent
// message is immutable.
type WhatsAppMessage struct {
	ID             int64         `json:"id"`
	MessageID      string        `json:"messageId"`
	BookingID      int64         `json:"bookingId"`
	BookingNumber  string        `json:"bookingNumber"`
	Message        string        `json:"message"`
	Recipients     []string      `json:"recipients"`
	RecipientNames []string      `json:"recipientNames,omitempty"`
	Status         MessageStatus `json:"status"`
	Error          string        `json:"error,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	SentAt         *time.Time    `json:"sentAt,omitempty"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// MessageTemplate is an operator-authored notification template using
// {{PLACEHOLDER}} variables.
type MessageTemplate struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
