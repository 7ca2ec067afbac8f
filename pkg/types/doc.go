// Package types defines shared Go types used by both the scorer and the lane
// server. These are the JSON representations of a game in play, separate
// from the bowling package's in-memory Game.
package types
