/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large."},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Messaging and Friend Graph Errors
	ErrMessageEmpty:          {Code: ErrMessageEmpty, Message: "Message cannot be empty."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrNotFriends:            {Code: ErrNotFriends, Message: "You can only message your friends."},
	ErrSelfFriendRequest:     {Code: ErrSelfFriendRequest, Message: "You cannot add yourself as a friend."},
	ErrAlreadyFriends:        {Code: ErrAlreadyFriends, Message: "You are already friends with this user."},
	ErrRequestNotFound:       {Code: ErrRequestNotFound, Message: "Friend request not found.", Status: http.StatusNotFound},
	ErrStickerTooLarge:       {Code: ErrStickerTooLarge, Message: "Sticker image is too large."},
	ErrStickerInvalid:        {Code: ErrStickerInvalid, Message: "Sticker must be an image."},
	ErrStickerLimitReached:   {Code: ErrStickerLimitReached, Message: "Your sticker collection is full."},

	// 3xxx: Auth and Session Errors
	ErrAlreadyLoggedIn:    {Code: ErrAlreadyLoggedIn, Message: "You are already signed in."},
	ErrInvalidEmail:       {Code: ErrInvalidEmail, Message: "Invalid email address."},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Password must be between 6 and 50 characters."},
	ErrEmailInUse:         {Code: ErrEmailInUse, Message: "This email is already in use. Please try logging in or use a different email."},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Invalid email or password. Please try again."},
	ErrSignInCancelled:    {Code: ErrSignInCancelled, Message: "Sign in was cancelled. Please try again."},
	ErrUserNotFound:       {Code: ErrUserNotFound, Message: "Account not found.", Status: http.StatusNotFound},
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrWriteFailed:       {Code: ErrWriteFailed, Message: "Could not save your changes. Please try again.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again."},
}
