package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// ParseCoordinates reads dispatcher input of the form "lat, lon".
//
// Whitespace and parentheses anywhere in the text are ignored, so
// "(40.1, 16.4)" and "40.1,16.4" are equivalent. The remainder must split on
// a single comma into two finite floats inside the WGS84 range.
func ParseCoordinates(text string) (Coordinates, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '(' || r == ')' {
			return -1
		}
		return r
	}, text)

	parts := strings.Split(cleaned, ",")
	if len(parts) != 2 {
		return Coordinates{}, &ParseError{
			Input:  text,
			Reason: fmt.Sprintf("expected 2 comma separated values, got %d", len(parts)),
		}
	}

	lat, err := parseComponent(text, "latitude", parts[0])
	if err != nil {
		return Coordinates{}, err
	}
	lon, err := parseComponent(text, "longitude", parts[1])
	if err != nil {
		return Coordinates{}, err
	}

	if lat < -90 || lat > 90 {
		return Coordinates{}, &ParseError{Input: text, Reason: fmt.Sprintf("latitude %v out of range", lat)}
	}
	if lon < -180 || lon > 180 {
		return Coordinates{}, &ParseError{Input: text, Reason: fmt.Sprintf("longitude %v out of range", lon)}
	}

	return Coordinates{Lon: lon, Lat: lat}, nil
}

func parseComponent(input, name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParseError{Input: input, Reason: fmt.Sprintf("%s %q is not a number", name, raw)}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{Input: input, Reason: fmt.Sprintf("%s must be finite", name)}
	}
	return v, nil
}
