package token

import "github.com/google/uuid"

// NewSessionToken mints an opaque session token. Tokens carry no claims;
// they are only meaningful as a key into the sessions table.
func NewSessionToken() string {
	return uuid.NewString()
}
