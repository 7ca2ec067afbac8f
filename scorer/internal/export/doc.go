// Package export writes scored games in the Prometheus text exposition
// format, for pickup by node_exporter's textfile collector.
//
// Write(w, results) encodes gauge families:
//
//	tenpin_game_score{sheet,game}             total score so far
//	tenpin_game_rolls{sheet,game}             accepted rolls
//	tenpin_game_complete{sheet,game}          1 once the tenth frame is finished
//	tenpin_game_frame_score{sheet,game,frame} score of each resolved frame
//	tenpin_sheet_errors                       games with a rejected roll
//
// The sheet label is the base name of the sheet file.
//
// WriteFile writes to a temp file in the target directory and renames it
// into place so the collector never reads a half-written file.
package export
