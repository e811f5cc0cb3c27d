package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCoordinates(t *testing.T) {
	cases := []struct {
		name string
		in   string
		lat  float64
		lon  float64
	}{
		{name: "plain", in: "40.123, 16.456", lat: 40.123, lon: 16.456},
		{name: "no space", in: "40.123,16.456", lat: 40.123, lon: 16.456},
		{name: "parentheses", in: "(40.88662985769151, 16.852016478389977)", lat: 40.88662985769151, lon: 16.852016478389977},
		{name: "padding", in: "  41 ,\t16.8  ", lat: 41, lon: 16.8},
		{name: "negative", in: "-33.86, 151.2", lat: -33.86, lon: 151.2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ParseCoordinates(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.lat, c.Lat)
			require.Equal(t, tc.lon, c.Lon)
		})
	}
}

func TestParseCoordinatesErrors(t *testing.T) {
	inputs := []string{
		"not-a-number",
		"",
		"40.1",
		"40.1, 16.2, 3",
		"40.1; 16.2",
		"abc, 16.2",
		"NaN, 16.2",
		"40.1, Inf",
		"95.0, 16.2",
		"40.0, 181",
	}

	for _, in := range inputs {
		_, err := ParseCoordinates(in)
		require.Error(t, err, "input %q", in)

		var pe *ParseError
		require.True(t, errors.As(err, &pe), "input %q: want *ParseError, got %T", in, err)
		require.Equal(t, in, pe.Input)
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	require.Equal(t, ModeStandard, m)

	m, err = ParseMode("URGENCY_FIRST")
	require.NoError(t, err)
	require.Equal(t, ModeUrgencyFirst, m)

	_, err = ParseMode("fastest")
	require.Error(t, err)
}
