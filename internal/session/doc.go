// Package session owns everything between the user and the active effect
// backend: parameter state, surface geometry, the hot-swap selector, the
// per-frame render tick and the input adapter that mutates them.
//
// A Session is driven from a single goroutine. Hosts call [Session.Tick] once
// per frame from their scheduler and feed input events through the adapter
// methods between ticks. Backend loading may happen elsewhere: a host that
// cannot block calls [Session.BeginSelect], loads the backend on its own, and
// hands the result back through [Session.CompleteSelect] on the session's
// goroutine. [Session.Select] does both in one call.
//
// A Session is NOT safe for concurrent use.
package session
