/*
Package directory implements the per-user document store.

Each user document carries profile fields, the presence flag, the friend list,
incoming friend requests, and the custom sticker set. Every field the rest of
the system observes lives on this one document; mutations are additive set
operations or scalar flag flips so concurrent writers never need conflict
resolution.
*/
package directory

import "time"

// User is the per-user directory document.
//
// Friends is always bidirectional: if A lists B then B lists A. The invariant is
// maintained by the friend graph controller, which commits both edges in one
// transaction. FriendRequests entries are one-directional and pending; they are
// removed on acceptance and otherwise left dangling.
type User struct {
	// ID is the opaque stable identifier issued at account creation.
	ID string `json:"id"`

	// Email is the account email. Unique across the directory.
	Email string `json:"email"`

	// DisplayName is the user's chosen name. May be empty for OAuth accounts
	// whose provider returned no profile name.
	DisplayName string `json:"displayName"`

	// PasswordHash is the bcrypt hash for password accounts. Empty for accounts
	// created through an OAuth provider. Never serialized.
	PasswordHash string `json:"-"`

	// AvatarKey is the object-storage key of the user's avatar, if uploaded.
	AvatarKey string `json:"-"`

	// Online reports whether the user currently has an active session.
	Online bool `json:"online"`

	// Friends holds the ids of all confirmed friends.
	Friends []string `json:"friends"`

	// FriendRequests holds the ids of users with a pending incoming request.
	FriendRequests []string `json:"friendRequests"`

	// CustomStickers holds the user's sticker set as inline data-URL payloads,
	// in upload order. Payloads live inside the document; there is no external
	// object storage for stickers.
	CustomStickers []string `json:"customStickers"`

	// CreatedAt is the time the document was first created.
	CreatedAt time.Time `json:"createdAt"`
}

// Name returns the name shown to other users: the display name when set,
// otherwise the account email.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

// IsFriend reports whether the given user id is in the friend list.
func (u *User) IsFriend(id string) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// HasPendingRequest reports whether the given user id has a pending incoming request.
func (u *User) HasPendingRequest(id string) bool {
	for _, r := range u.FriendRequests {
		if r == id {
			return true
		}
	}
	return false
}

// OnlineUser is the projection of a user document pushed on the presence feed.
type OnlineUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
