// Package config loads and watches the scorer configuration file (config.yaml).
//
// Top-level types:
//   - Config{Scorer}: config tree parsed from YAML; the server: key is ignored
//   - ScorerConfig: sheets [], strict_frames, textfile, log_level, lane
//   - LaneConfig: endpoint, game and auth{key_env, header} for replaying a
//     game onto a lane server
//
// Load(path) reads the YAML file, applies defaults (log level info), then
// validates that at least one sheet is listed and the log level is known.
// Relative sheet and textfile paths are resolved against the directory of
// the config file.
//
// Watch(ctx, paths, onChange) uses fsnotify to detect writes to any of the
// given files and calls onChange with the path that changed. Parent
// directories are watched so atomic-save editors (vim, VS Code) that replace
// the inode keep being followed.
package config
