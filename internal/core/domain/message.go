package domain

import "time"

// Message is a single note sent from one user to another.
// ReadAt stays nil until the recipient marks the message read, and is never
// cleared afterwards.
type Message struct {
	ID           int64      `json:"id"`
	FromUsername string     `json:"from_username"`
	ToUsername   string     `json:"to_username"`
	Body         string     `json:"body"`
	SentAt       time.Time  `json:"sent_at"`
	ReadAt       *time.Time `json:"read_at"`
}

// IsParticipant reports whether username sent or received the message.
func (m *Message) IsParticipant(username string) bool {
	return m.FromUsername == username || m.ToUsername == username
}

// MessageDetail is a message with both participants expanded.
type MessageDetail struct {
	ID       int64       `json:"id"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
	FromUser UserContact `json:"from_user"`
	ToUser   UserContact `json:"to_user"`
}

// MessageIn is a message received by a user, with the sender expanded.
type MessageIn struct {
	ID       int64       `json:"id"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at"`
	FromUser UserContact `json:"from_user"`
}

// MessageOut is a message sent by a user, with the recipient expanded.
type MessageOut struct {
	ID     int64       `json:"id"`
	Body   string      `json:"body"`
	SentAt time.Time   `json:"sent_at"`
	ReadAt *time.Time  `json:"read_at"`
	ToUser UserContact `json:"to_user"`
}

// MessageRead is the result of marking a message read.
type MessageRead struct {
	ID     int64      `json:"id"`
	ReadAt *time.Time `json:"read_at"`
}
