package domain

import "time"

// MessageSender indicates which side of the conversation sent a message.
type MessageSender string

const (
	MessageSenderCustomer MessageSender = "customer"
	MessageSenderSupport  MessageSender = "support"
)

// Valid reports whether the sender is a recognized value.
func (s MessageSender) Valid() bool {
	return s == MessageSenderCustomer || s == MessageSenderSupport
}

// Message is one entry in a ticket's chronological communication log.
// The log is append-only: entries are never edited or reordered.
//
// ReadStatus tracks the support-facing view of the thread: an incoming
// customer message starts read (true) while a support reply starts unread
// (false) until the customer side fetches it.
type Message struct {
	ID         string
	Sender     MessageSender
	Content    string
	Timestamp  time.Time
	ReadStatus bool
}
