package models

const AnonymousUserID = "anonymous"

// Identity is the caller derived from the gateway authorizer claims.
// It lives for a single request and is never stored.
type Identity struct {
	UserID   string
	Email    string
	Username string
}
