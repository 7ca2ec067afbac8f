// Package replay pushes a scored game onto a running lane server over its
// REST API, so a game recorded on paper can be shown live.
//
// Client.Replay(ctx, rolls) resets the lane, then posts each roll in order.
// Transient failures (network errors, HTTP 5xx) are retried with exponential
// backoff and jitter; rejections (HTTP 4xx) are returned at once. Before a
// roll is re-sent the lane is read back, so a roll whose response was lost
// is not applied twice. If the lane's game changes under the replay (someone
// else reset it) Replay stops with ErrGameChanged.
package replay
