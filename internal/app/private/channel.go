/*
Package private implements the per-friend-pair private message stream.

Every pair of users shares one channel whose identity is derived from the two
participant ids, so both sides resolve to the same log no matter who starts
the conversation. Channel history is delivered oldest-first; unlike the room
feed there is no reversal step.
*/
package private

import "strings"

// ChannelSeparator joins the two sorted participant ids into a channel id.
const ChannelSeparator = "_"

// ChannelID derives the channel identity for a pair of users: the two ids
// sorted lexicographically and joined. Deterministic and commutative, so
// ChannelID(a, b) == ChannelID(b, a) for every pair.
func ChannelID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ChannelSeparator + b
}

// Participants splits a channel id back into its two participant ids.
func Participants(channelID string) (string, string, bool) {
	a, b, ok := strings.Cut(channelID, ChannelSeparator)
	if !ok || a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}

// IsParticipant reports whether the given user id is one of the two
// participants of the channel.
func IsParticipant(channelID, userID string) bool {
	a, b, ok := Participants(channelID)
	if !ok {
		return false
	}
	return a == userID || b == userID
}
