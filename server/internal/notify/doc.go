// Package notify posts webhook notifications when a game on the lane is
// completed.
//
// Notifier.Run(ctx) registers an OnComplete hook on the lane; the first
// snapshot of a game that reports Complete fires one Event, delivered
// asynchronously to each configured webhook (slack, teams or plain http).
// Trailing rolls after completion do not fire again; a reset starts a new
// game that can.
package notify
