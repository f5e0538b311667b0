package directory

import (
	"context"
	"errors"
)

// Sentinel errors returned by UserStore implementations.
var (
	// ErrNotFound indicates the referenced user document does not exist.
	ErrNotFound = errors.New("directory: user not found")

	// ErrDuplicateEmail indicates a create collided with an existing account email.
	ErrDuplicateEmail = errors.New("directory: email already in use")

	// ErrNoPendingRequest indicates an acceptance for a request that is not pending.
	ErrNoPendingRequest = errors.New("directory: no pending friend request")
)

// UserStore is the injected store-client interface for user documents.
// All mutations are idempotent: re-adding an existing set member is a no-op,
// and presence flips are last-write-wins scalar updates.
type UserStore interface {
	// Get returns the user document for the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*User, error)

	// GetByEmail returns the user document for the given account email, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetMany returns the documents for the given ids. Missing ids are skipped,
	// and the result preserves the order of the input ids.
	GetMany(ctx context.Context, ids []string) ([]User, error)

	// Create inserts a new user document with empty friend data.
	// Returns ErrDuplicateEmail when the email already has an account.
	Create(ctx context.Context, u *User) error

	// EnsureDocument upserts the profile scalar fields with merge semantics:
	// it never clobbers friend data, and an existing non-empty display name is
	// kept when the incoming one is empty. Called on every session start.
	EnsureDocument(ctx context.Context, id, email, displayName string) error

	// SetPresence flips the online flag for the given user.
	SetPresence(ctx context.Context, id string, online bool) error

	// Online returns all users whose online flag is true.
	Online(ctx context.Context) ([]User, error)

	// AddSticker appends an inline sticker payload to the user's sticker set.
	// Appending a payload that is already present is a no-op.
	AddSticker(ctx context.Context, id, payload string) error

	// AddFriendRequest adds `from` to `to`'s pending request set (set-union).
	AddFriendRequest(ctx context.Context, to, from string) error

	// AcceptFriendRequest commits the full friend edge in one atomic unit:
	// requester joins accepter's friends, requester leaves accepter's pending
	// requests, and accepter joins requester's friends. Returns
	// ErrNoPendingRequest when no request from requester is pending, and never
	// leaves the graph asymmetric.
	AcceptFriendRequest(ctx context.Context, accepter, requester string) error

	// SetAvatarKey records the object-storage key of the user's avatar.
	SetAvatarKey(ctx context.Context, id, key string) error
}
