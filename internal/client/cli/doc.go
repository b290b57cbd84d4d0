// Package cli provides the interactive expensekeeper command-line client.
//
// It wires configuration, the local token store, the REST client, the
// expense views and an interactive REPL. On start both views are activated:
// each verifies the stored token with the server, and the expense list is
// loaded only once that verification succeeds.
//
// Key features:
//   - Register / Login / Logout / WhoAmI
//   - Add, edit and delete expenses
//   - List / Sync the expense collection
//   - Save the server-rendered weekly graph to a directory or an S3 bucket
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
