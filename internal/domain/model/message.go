package model

import (
	"strconv"
	"time"
)

// Message is a board post joined with its author's username. IDs are
// assigned by the database in ascending creation order and never reused,
// so ordering by ID is ordering by creation time.
type Message struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// MessagePayload is the wire form of a Message. The id is serialized as a
// string for compatibility with existing clients.
type MessagePayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

func (m Message) Payload() MessagePayload {
	return MessagePayload{
		ID:       strconv.FormatInt(m.ID, 10),
		Username: m.Username,
		Message:  m.Text,
	}
}
