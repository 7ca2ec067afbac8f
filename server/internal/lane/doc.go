// Package lane holds the single live game of a lane server.
//
// A Lane wraps one bowling.Game together with its ID (a random UUID), the
// time it started and a version counter bumped on every accepted roll and
// every reset. Readers get types.GameSnapshot values; the WebSocket hub
// learns about changes through Subscribe, and the notifier gets each
// completed game's final snapshot through OnComplete.
package lane
