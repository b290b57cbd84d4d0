// Package client talks to the expense tracking backend.
//
// # Overview
//
// The package provides:
//  1. The Client interface: account calls (Me, Register, Login) and the
//     expense resource (list, create, update, delete, weekly graph).
//  2. HTTPClient, a REST implementation over net/http. The bearer token is
//     read from the request context by netx.BearerTransport and every request
//     carries a fresh X-Request-ID.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) opening the
//     SQLite store and applying the embedded goose migrations.
//
// # Error Handling
//
// Every failure is an *Error with a Kind:
//
//	401, 403            KindAuth
//	422                 KindValidation
//	other non-2xx       KindRemote
//	dial, timeout, I/O  KindTransport
//
// The server's "detail" message, when present, is kept in Error.Reason.
// errors.Is(err, ErrUnauthorized) and errors.Is(err, ErrUnavailable) match
// auth and transport failures respectively.
//
// Nothing is retried.
package client
