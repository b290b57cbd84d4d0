// Package session owns the session credential and the authorization state
// derived from it.
//
// A Provider is the single place the bearer token is read from and written
// to; views receive it explicitly instead of reaching into storage. The
// Guard turns "is there a token and does the server accept it" into an
// Outcome, performing at most one /auth/me round trip per activation and
// never retrying. Resolved states are published to Provider subscribers;
// clearing the token is reported separately through Provider.SignedOut.
package session
