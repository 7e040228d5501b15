// Package service holds the domain services. All domain errors are
// client-fault, detected synchronously and never retried; anything else
// that bubbles out of a service is an infrastructure failure.
package service

import "errors"

var (
	// ErrInvalidSession is returned when a session token is absent or unresolvable.
	ErrInvalidSession = errors.New("invalid session")
	// ErrInvalidCredentials is returned on a failed signin.
	ErrInvalidCredentials = errors.New("invalid login id or password")
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrPostNotFound is returned when a referenced post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrAlreadyFriends is returned when the two users are already mutual friends.
	ErrAlreadyFriends = errors.New("already friends")
	// ErrNotFriends is returned when the two users are not mutual friends.
	ErrNotFriends = errors.New("not friends")
	// ErrInvalidRequest is returned when accepting a notification that does
	// not exist, is not a friend request, or is addressed to someone else.
	ErrInvalidRequest = errors.New("invalid friend request")
)

// IsDomainError reports whether err belongs to the domain error taxonomy
// (mapped to a 400 by the transport layer).
func IsDomainError(err error) bool {
	for _, domain := range []error{
		ErrInvalidSession,
		ErrInvalidCredentials,
		ErrUserNotFound,
		ErrPostNotFound,
		ErrAlreadyFriends,
		ErrNotFriends,
		ErrInvalidRequest,
	} {
		if errors.Is(err, domain) {
			return true
		}
	}
	return false
}
