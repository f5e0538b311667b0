package private

import (
	"context"
	"time"
)

// MaxTextLength bounds the text content of a single private message.
const MaxTextLength = 2000

// Message is one entry in a pair channel. Immutable once written.
type Message struct {
	// ID is the store-assigned message identifier.
	ID string `json:"id"`

	// ChannelID is the derived pair channel the message belongs to.
	ChannelID string `json:"-"`

	// SenderID is the id of the sending participant.
	SenderID string `json:"senderId"`

	// Text is the message body.
	Text string `json:"text"`

	// Timestamp is assigned by the store at write time.
	Timestamp time.Time `json:"timestamp"`
}

// Store persists pair channel logs.
type Store interface {
	// Append writes a message into its channel. The store assigns the timestamp.
	Append(ctx context.Context, m *Message) error

	// History returns the full channel log ordered oldest to newest, ascending
	// by timestamp. No cap: private history is retained and delivered whole.
	History(ctx context.Context, channelID string) ([]Message, error)
}
