package osm

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultOverpassURL is the public Overpass API interpreter endpoint.
const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// MapSpec describes which road network to load and from where.
type MapSpec struct {
	Regions          []string      `yaml:"regions"`
	OverpassURL      string        `yaml:"overpass_url"`
	Timeout          time.Duration `yaml:"timeout"`
	ExcludedHighways []string      `yaml:"excluded_highways"`
	// RetainAll keeps disconnected fragments instead of only the largest component.
	RetainAll bool `yaml:"retain_all"`
}

// LoadMapSpec reads a YAML map spec from path. Fields missing from the file
// keep the values in base. An empty path returns base unchanged.
func LoadMapSpec(path string, base MapSpec) (MapSpec, error) {
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return MapSpec{}, fmt.Errorf("load map spec: %w", err)
	}

	spec := base
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return MapSpec{}, fmt.Errorf("load map spec %s: %w", path, err)
	}
	if len(spec.Regions) == 0 {
		return MapSpec{}, fmt.Errorf("load map spec %s: no regions", path)
	}
	if spec.Timeout < 0 {
		return MapSpec{}, fmt.Errorf("load map spec %s: negative timeout", path)
	}
	return spec, nil
}
