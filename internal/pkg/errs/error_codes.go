/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Messaging and Friend Graph Errors
const (
	// ErrMessageEmpty indicates that a message had neither text nor a sticker.
	ErrMessageEmpty = 2101

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2102

	// ErrNotFriends indicates a private message was addressed to a user outside the sender's friend list.
	ErrNotFriends = 2103

	// ErrSelfFriendRequest indicates a user attempted to send a friend request to themselves.
	ErrSelfFriendRequest = 2201

	// ErrAlreadyFriends indicates a friend request targeted a user who is already a friend.
	ErrAlreadyFriends = 2202

	// ErrRequestNotFound indicates an acceptance for a friend request that is not pending.
	ErrRequestNotFound = 2203

	// ErrStickerTooLarge indicates an uploaded sticker image exceeded the inline payload limit.
	ErrStickerTooLarge = 2301

	// ErrStickerInvalid indicates the uploaded sticker is not a supported image format.
	ErrStickerInvalid = 2302

	// ErrStickerLimitReached indicates the user's sticker set is full.
	ErrStickerLimitReached = 2303
)

// 3xxx: Auth and Session Errors
const (
	// ErrAlreadyLoggedIn indicates a sign-in or sign-up attempt while already authenticated.
	ErrAlreadyLoggedIn = 3001

	// ErrInvalidEmail indicates the supplied email address failed validation.
	ErrInvalidEmail = 3002

	// ErrInvalidPassword indicates the supplied password failed length validation.
	ErrInvalidPassword = 3003

	// ErrEmailInUse indicates a sign-up attempt with an email that already has an account.
	ErrEmailInUse = 3004

	// ErrInvalidCredentials indicates an email/password pair that does not match any account.
	ErrInvalidCredentials = 3005

	// ErrSignInCancelled indicates an OAuth sign-in that was abandoned or rejected by the provider.
	ErrSignInCancelled = 3006

	// ErrUserNotFound indicates the referenced user does not exist in the directory.
	ErrUserNotFound = 3007

	// ErrUnauthorized indicates the request lacks a valid session.
	ErrUnauthorized = 3008
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrWriteFailed indicates a store mutation that could not be committed.
	ErrWriteFailed = 5001

	// ErrFileStorageFailed indicates an avatar storage operation failed.
	ErrFileStorageFailed = 5002
)
