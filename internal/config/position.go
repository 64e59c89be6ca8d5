package config

import (
	"fmt"
	"strings"
)

// Position is where the status badge is placed on screen
type Position string

const (
	PositionTopLeft     Position = "top-left"
	PositionTopRight    Position = "top-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
	PositionCenter      Position = "center"
)

var positions = []Position{
	PositionTopLeft,
	PositionTopRight,
	PositionBottomLeft,
	PositionBottomRight,
	PositionCenter,
}

// PositionNames returns the valid position names in display order
func PositionNames() []string {
	names := make([]string, len(positions))
	for i, p := range positions {
		names[i] = string(p)
	}
	return names
}

// ParsePosition parses a position name. Underscores are accepted in place of dashes.
func ParsePosition(s string) (Position, error) {
	norm := Position(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	for _, p := range positions {
		if p == norm {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid position %q (valid: %s)", s, strings.Join(PositionNames(), ", "))
}

// Top reports whether the position is anchored to the top edge
func (p Position) Top() bool {
	return p == PositionTopLeft || p == PositionTopRight
}

// Bottom reports whether the position is anchored to the bottom edge
func (p Position) Bottom() bool {
	return p == PositionBottomLeft || p == PositionBottomRight
}

// Left reports whether the position is anchored to the left edge
func (p Position) Left() bool {
	return p == PositionTopLeft || p == PositionBottomLeft
}

// Right reports whether the position is anchored to the right edge
func (p Position) Right() bool {
	return p == PositionTopRight || p == PositionBottomRight
}
