// Package config loads the lane server configuration from the `server:`
// section of config.yaml (the `scorer:` key is ignored by the server binary).
//
// Config fields:
//   - HTTPPort: port for the REST API and WebSocket hub (default 8080)
//   - StrictFrames: reject rolls exceeding the pins standing (default false)
//   - LogLevel: debug | info | warn | error (default info)
//   - Auth.Mode: "apikey" or "none"
//   - Auth.KeyEnv: environment variable holding the expected API key
//   - Auth.Header: HTTP header carrying the key (default "x-api-key")
//   - Stream.Interval: WebSocket heartbeat broadcast interval (default 5s)
//   - Webhooks: slack | teams | http targets notified when a game completes
//
// Load(path) applies defaults, unmarshals the file, then applies TENPIN_*
// environment overrides before validating. LoadEnv() does the same without a
// file.
package config
