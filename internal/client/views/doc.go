// Package views holds the client-side state behind each screen of the CLI.
//
// A view is activated, used and closed. Activation runs the session guard
// and, only once it has resolved authorized, synchronizes the expense
// collection; the two are sequential stages of one pipeline. Every network
// call made on behalf of a view is bound to its lifetime, so closing the
// view (or activating it again) cancels outstanding work and any result
// that arrives afterwards is dropped.
//
// ExpensesView owns the collection and the single edit draft. DashboardView
// owns the create form and asks a Reconciler to refresh the collection after
// a successful create, so create and update share the same full resync.
// Delete patches the collection locally, removing exactly the confirmed id.
package views
