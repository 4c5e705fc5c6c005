package nasa

import (
	"fmt"
	"slices"
	"strings"
)

// Rover identifies a Mars rover supported by the photo API.
type Rover string

const (
	Curiosity    Rover = "curiosity"
	Opportunity  Rover = "opportunity"
	Spirit       Rover = "spirit"
	Perseverance Rover = "perseverance"
)

var roverOrder = []Rover{Curiosity, Opportunity, Spirit, Perseverance}

// Rovers returns the supported rovers in display order.
func Rovers() []Rover {
	return slices.Clone(roverOrder)
}

// ParseRover resolves a rover name case-insensitively.
func ParseRover(value string) (Rover, error) {
	r := Rover(strings.ToLower(strings.TrimSpace(value)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown rover %q (want one of %s)", value, strings.Join(roverNames(), ", "))
	}
	return r, nil
}

// Valid reports whether r is a supported rover.
func (r Rover) Valid() bool {
	return slices.Contains(roverOrder, r)
}

// Label is the display name, e.g. "Curiosity".
func (r Rover) Label() string {
	if r == "" {
		return ""
	}
	s := string(r)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Next returns the rover after r in display order, wrapping around.
func (r Rover) Next() Rover {
	i := slices.Index(roverOrder, r)
	return roverOrder[(i+1)%len(roverOrder)]
}

// Prev returns the rover before r in display order, wrapping around.
func (r Rover) Prev() Rover {
	i := slices.Index(roverOrder, r)
	if i <= 0 {
		return roverOrder[len(roverOrder)-1]
	}
	return roverOrder[i-1]
}

func roverNames() []string {
	names := make([]string, len(roverOrder))
	for i, r := range roverOrder {
		names[i] = string(r)
	}
	return names
}
