// Package common contains shared constants and small helpers used across
// expensekeeper components.
package common

const (
	// TokenKey is the metadata key the session credential is stored under.
	TokenKey = "token"

	// TokenSavedAtKey records when TokenKey was last written (RFC 3339).
	TokenSavedAtKey = "token_saved_at"

	// AuthorizationHeader carries the bearer credential on outbound requests.
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the token in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// RequestIDHeader correlates a client request with backend logs.
	RequestIDHeader = "X-Request-ID"
)
