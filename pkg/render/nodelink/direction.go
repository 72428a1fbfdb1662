package nodelink

import (
	"fmt"
	"strings"
)

// Direction is the way the tree grows from its root.
type Direction string

const (
	Down  Direction = "DOWN"
	Left  Direction = "LEFT"
	Up    Direction = "UP"
	Right Direction = "RIGHT"
)

// DefaultDirection is used when no direction is given.
const DefaultDirection = Down

// rotation is the order [NextDirection] cycles through.
var rotation = []Direction{Down, Left, Up, Right}

// ParseDirection validates a direction name, case-insensitively. The empty
// string means [DefaultDirection].
func ParseDirection(s string) (Direction, error) {
	if s == "" {
		return DefaultDirection, nil
	}
	d := Direction(strings.ToUpper(s))
	for _, known := range rotation {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown direction %q (want DOWN, LEFT, UP or RIGHT)", s)
}

// NextDirection rotates DOWN → LEFT → UP → RIGHT → DOWN. Unknown directions
// restart at DOWN.
func NextDirection(d Direction) Direction {
	for i, known := range rotation {
		if d == known {
			return rotation[(i+1)%len(rotation)]
		}
	}
	return Down
}

// RankDir returns the Graphviz rankdir for d.
func (d Direction) RankDir() string {
	switch d {
	case Left:
		return "RL"
	case Up:
		return "BT"
	case Right:
		return "LR"
	default:
		return "TB"
	}
}
