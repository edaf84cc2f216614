package solver

import (
	"fmt"
	"strconv"
	"strings"
)

// Padding is the inner margin of a container, in pixels.
type Padding struct {
	Top, Left, Bottom, Right float64
}

// Uniform returns a padding of v on every side.
func Uniform(v float64) Padding { return Padding{v, v, v, v} }

// Max returns the largest side.
func (p Padding) Max() float64 {
	return max(p.Top, p.Left, p.Bottom, p.Right)
}

// String formats p as "[top=..,left=..,bottom=..,right=..]".
func (p Padding) String() string {
	return fmt.Sprintf("[top=%s,left=%s,bottom=%s,right=%s]",
		formatFloat(p.Top), formatFloat(p.Left), formatFloat(p.Bottom), formatFloat(p.Right))
}

// ParsePadding parses the bracketed padding syntax produced by String.
// Missing sides are zero; the empty string is zero padding.
func ParsePadding(s string) (Padding, error) {
	var p Padding
	s = strings.TrimSpace(s)
	if s == "" {
		return p, nil
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return Padding{}, fmt.Errorf("padding %q: missing '=' in %q", s, part)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return Padding{}, fmt.Errorf("padding %q: %w", s, err)
		}
		switch strings.TrimSpace(key) {
		case "top":
			p.Top = v
		case "left":
			p.Left = v
		case "bottom":
			p.Bottom = v
		case "right":
			p.Right = v
		default:
			return Padding{}, fmt.Errorf("padding %q: unknown side %q", s, key)
		}
	}
	return p, nil
}

// PaddingOf returns the parsed padding option of n, or zero padding when the
// option is absent or malformed.
func PaddingOf(n *Node) Padding {
	p, _ := ParsePadding(n.Options[KeyPadding])
	return p
}
