package services

import (
	"depot-route-service/internal/domain"
	"fmt"
	"strconv"
	"strings"
)

// ExportFileName is the suggested name of the downloaded route file.
const ExportFileName = "percorso.txt"

// Row kinds shown in the Tipo column.
const (
	RowKindDeparture = "PARTENZA"
	RowKindStop      = "STOP"
)

// TableRow is one line of the route table shown to the dispatcher.
type TableRow struct {
	Ordine  int
	Tipo    string
	Cliente string
	Lat     float64
	Lon     float64
}

func RouteTable(r *domain.RouteResult) []TableRow {
	rows := make([]TableRow, 0, len(r.Entries))
	for _, e := range r.Entries {
		kind := RowKindStop
		if e.OrderIndex == 0 {
			kind = RowKindDeparture
		}
		rows = append(rows, TableRow{
			Ordine:  e.OrderIndex,
			Tipo:    kind,
			Cliente: e.Label,
			Lat:     e.Location.Lat,
			Lon:     e.Location.Lon,
		})
	}
	return rows
}

// ExportText renders one "{index}: {label} -> {lat}, {lon}" line per entry,
// joined by newlines with no trailing newline.
func ExportText(r *domain.RouteResult) string {
	lines := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		lines = append(lines, fmt.Sprintf("%d: %s -> %s, %s",
			e.OrderIndex,
			e.Label,
			formatDegrees(e.Location.Lat),
			formatDegrees(e.Location.Lon),
		))
	}
	return strings.Join(lines, "\n")
}

// Summary is the banner shown above the route table.
func Summary(r *domain.RouteResult) string {
	return fmt.Sprintf("Percorso Ottimizzato: %.2f km totali", r.TotalKilometers())
}

// Shortest representation that round-trips. Values under 1e-4 switch to
// exponent form ("1e-05"); whole numbers keep a fractional part ("41.0").
func formatDegrees(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}
