package osm

import (
	"fmt"
	"strings"
)

// DefaultExcludedHighways are the highway classes left out of the drivable
// network, matching the usual "drive" network type.
var DefaultExcludedHighways = []string{
	"abandoned", "bridleway", "bus_guideway", "construction", "corridor",
	"cycleway", "elevator", "escalator", "footway", "no", "path", "pedestrian",
	"planned", "platform", "proposed", "raceway", "razed", "service", "steps",
	"track",
}

const (
	excludedServices = "alley|driveway|emergency_access|parking|parking_aisle|private"
	userAgent        = "depot-route-service/1.0"
)

// areaName returns the administrative area name for a region such as
// "Puglia, Italy" (the part before the first comma).
func areaName(region string) string {
	name, _, _ := strings.Cut(region, ",")
	return strings.TrimSpace(name)
}

func wayFilter(excluded []string) string {
	if len(excluded) == 0 {
		excluded = DefaultExcludedHighways
	}
	return fmt.Sprintf(
		`["highway"]["area"!~"yes"]["access"!~"private"]["highway"!~"%s"]["motor_vehicle"!~"no"]["motorcar"!~"no"]["service"!~"%s"]`,
		strings.Join(excluded, "|"),
		excludedServices,
	)
}

// buildQuery returns an Overpass QL query selecting the drivable ways of
// every region plus the nodes they reference.
func buildQuery(regions []string, excluded []string, timeoutSeconds int) (string, error) {
	if len(regions) == 0 {
		return "", fmt.Errorf("build overpass query: no regions")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[out:json][timeout:%d];\n", timeoutSeconds)

	for i, r := range regions {
		name := areaName(r)
		if name == "" {
			return "", fmt.Errorf("build overpass query: empty region name in %q", r)
		}
		fmt.Fprintf(&sb, "area[\"name\"=%q][\"boundary\"=\"administrative\"]->.a%d;\n", name, i)
	}

	filter := wayFilter(excluded)
	sb.WriteString("(\n")
	for i := range regions {
		fmt.Fprintf(&sb, "  way(area.a%d)%s;\n", i, filter)
	}
	sb.WriteString(");\n")
	sb.WriteString("(._;>;);\n")
	sb.WriteString("out body;\n")

	return sb.String(), nil
}
