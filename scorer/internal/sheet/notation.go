package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tenpin/tenpin/pkg/bowling"
)

// ParseLine converts a whitespace-separated list of balls into pin counts.
//
// Each field is a number, X (strike), / (spare) or - (gutter). A spare mark
// is only valid as the second ball after a first ball that left pins
// standing. Numbers are not range-checked here; bowling.Game does that.
func ParseLine(line string) ([]int, error) {
	fields := strings.Fields(line)
	rolls := make([]int, 0, len(fields))

	// first is the pin count of a first ball still waiting for its second,
	// or -1 when the next ball starts a new pair.
	first := -1
	for i, f := range fields {
		var pins int
		switch strings.ToUpper(f) {
		case "X":
			pins = bowling.MaxPins
		case "-":
			pins = 0
		case "/":
			if first < 0 {
				return nil, fmt.Errorf("ball %d: spare mark without a first ball", i+1)
			}
			pins = bowling.MaxPins - first
		default:
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("ball %d: invalid mark %q", i+1, f)
			}
			pins = n
		}

		switch {
		case first >= 0:
			first = -1
		case pins != bowling.MaxPins:
			first = pins
		}
		rolls = append(rolls, pins)
	}
	return rolls, nil
}
