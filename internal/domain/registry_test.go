package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStopRegistryAdd(t *testing.T) {
	reg := NewStopRegistry()

	a, err := reg.Add("A", "41.0, 16.8", false)
	require.NoError(t, err)
	require.Equal(t, PriorityStandard, a.Priority)

	b, err := reg.Add("B", "(40.9, 16.9)", true)
	require.NoError(t, err)
	require.Equal(t, PriorityUrgent, b.Priority)
	require.Equal(t, 40.9, b.Latitude)
	require.Equal(t, 16.9, b.Longitude)

	stops := reg.List()
	require.Len(t, stops, 2)
	require.Equal(t, "A", stops[0].Identifier)
	require.Equal(t, "B", stops[1].Identifier)
}

func TestStopRegistryAllowsDuplicateIdentifiers(t *testing.T) {
	reg := NewStopRegistry()

	_, err := reg.Add("ORD-1", "41.0, 16.8", false)
	require.NoError(t, err)
	_, err = reg.Add("ORD-1", "41.0, 16.8", false)
	require.NoError(t, err)

	require.Equal(t, 2, reg.Len())
}

func TestStopRegistryRejectsMalformedInput(t *testing.T) {
	reg := NewStopRegistry()
	_, err := reg.Add("A", "41.0, 16.8", false)
	require.NoError(t, err)

	_, err = reg.Add("B", "not-a-number", false)
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	require.ErrorIs(t, err, ErrInvalidCoordinates)
	require.Equal(t, 1, reg.Len(), "registry must be unchanged after a rejected add")

	_, err = reg.Add("   ", "41.0, 16.8", false)
	require.ErrorIs(t, err, ErrIdentifierRequired)
	require.Equal(t, 1, reg.Len())
}

func TestStopRegistryClear(t *testing.T) {
	reg := NewStopRegistry()
	_, err := reg.Add("A", "41.0, 16.8", true)
	require.NoError(t, err)

	reg.Clear()
	require.Equal(t, 0, reg.Len())
	require.Empty(t, reg.List())

	// clearing an empty registry is a no-op
	reg.Clear()
	require.Equal(t, 0, reg.Len())
}

func TestStopRegistryListIsACopy(t *testing.T) {
	reg := NewStopRegistry()
	_, err := reg.Add("A", "41.0, 16.8", false)
	require.NoError(t, err)

	stops := reg.List()
	stops[0].Identifier = "mutated"

	require.Equal(t, "A", reg.List()[0].Identifier)
}

func TestStopRegistryRestore(t *testing.T) {
	reg := NewStopRegistry()
	reg.Restore([]Stop{
		{Identifier: "X", Latitude: 40.1, Longitude: 16.1, Priority: PriorityUrgent},
		{Identifier: "Y", Latitude: 40.2, Longitude: 16.2, Priority: PriorityStandard},
	})

	require.Equal(t, 2, reg.Len())
	require.Equal(t, "Y", reg.List()[1].Identifier)
}

func TestStopRegistryKeepsIdentifierAsEntered(t *testing.T) {
	reg := NewStopRegistry()

	s, err := reg.Add("  Rossi srl ", "41.0, 16.8", false)
	require.NoError(t, err)
	require.Equal(t, "  Rossi srl ", s.Identifier)
	require.Equal(t, "  Rossi srl ", reg.List()[0].Identifier)
}

func TestStopRegistryRejectsDepotLabel(t *testing.T) {
	reg := NewStopRegistry()

	for _, id := range []string{DepotLabel, " MAGAZZINO ", "magazzino"} {
		_, err := reg.Add(id, "41.0, 16.8", false)
		require.ErrorIs(t, err, ErrIdentifierReserved, "identifier %q", id)
	}
	require.Equal(t, 0, reg.Len())

	// labels that merely contain the depot name are fine
	_, err := reg.Add("MAGAZZINO 2", "41.0, 16.8", false)
	require.NoError(t, err)
}
