package maps

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// File is the YAML representation of a map.
//
//	id: classic
//	name: Classic
//	heading: 90        # degrees, 0 faces +x (east), 90 faces +y (south)
//	rows:
//	  - "#####"
//	  - "#S.E#"
//	  - "#####"
type File struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name,omitempty"`
	Heading float64  `yaml:"heading,omitempty"`
	Rows    []string `yaml:"rows"`
}

// Decode parses a YAML map file.
func Decode(data []byte) (*Map, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if f.ID == "" {
		return nil, fmt.Errorf("maps: missing id")
	}

	m, err := Parse(f.Rows)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", f.ID, err)
	}
	m.ID = f.ID
	m.Name = f.Name
	m.Heading = f.Heading * math.Pi / 180
	return m, nil
}

// Encode writes m as a YAML map file.
func Encode(m *Map) ([]byte, error) {
	f := File{
		ID:      m.ID,
		Name:    m.Name,
		Heading: m.HeadingDegrees(),
		Rows:    m.Rows(),
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}
