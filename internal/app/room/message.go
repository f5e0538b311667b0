/*
Package room implements the shared room message stream.

The room is a single global append-only log. The live view is capped at the
most recent messages and is never paginated; history beyond the cap is not
retrievable by design. Messages are immutable once written and carry a
server-assigned timestamp.
*/
package room

import (
	"context"
	"time"
)

// DefaultFeedLimit caps the live room feed at the most recent N messages.
const DefaultFeedLimit = 50

// MaxTextLength bounds the text content of a single room message.
const MaxTextLength = 2000

// Message is one entry in the shared room log.
type Message struct {
	// ID is the store-assigned message identifier.
	ID string `json:"id"`

	// SenderID is the id of the posting user.
	SenderID string `json:"userId"`

	// SenderName is the poster's display name, denormalized at write time so
	// the feed renders without a directory lookup.
	SenderName string `json:"userName"`

	// Text is the message body. Empty when the message is a sticker-only post.
	Text string `json:"text"`

	// Sticker is the inline sticker payload reference, if any.
	Sticker string `json:"sticker,omitempty"`

	// Timestamp is assigned by the store at write time. Client clocks are never
	// authoritative; a client may show its own clock only as an optimistic
	// placeholder until the authoritative write is observed.
	Timestamp time.Time `json:"timestamp"`
}

// Store persists the room log.
type Store interface {
	// Insert appends a message. The store assigns the timestamp; the value on
	// the passed message is ignored and overwritten with the authoritative one.
	Insert(ctx context.Context, m *Message) error

	// Recent returns up to limit messages, newest first. Callers that render a
	// feed must reverse to oldest-first on every snapshot, not only the first:
	// each delivery is a full snapshot replace, not a diff.
	Recent(ctx context.Context, limit int) ([]Message, error)
}
