// Package sheet reads game sheets: files listing one or more named games as
// roll sequences, and scores them through package bowling.
//
// Two formats are accepted:
//
//	# YAML (.yaml, .yml)
//	games:
//	  - name: alice
//	    rolls: [10, 3, 6, 5, 5]
//
//	# text (anything else), one game per line
//	alice: X 3 6 5 / 8 1
//	3 4 2 5
//
// Text lines take plain pin counts or score-sheet marks: X for a strike, /
// for a spare and - for a gutter ball. Blank lines and lines starting with #
// are skipped; a line without a name is called game-<line number>.
package sheet
