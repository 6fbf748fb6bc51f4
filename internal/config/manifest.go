package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest describes the visual track of one synthesis run. The asset kind is
// a declared media category; content is never sniffed.
type Manifest struct {
	Title   string  `yaml:"title,omitempty"`
	Channel string  `yaml:"channel,omitempty"`
	Visuals []Entry `yaml:"visuals"`
}

// Entry is one visual asset declaration.
type Entry struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
	Kind string `yaml:"kind"` // "image" | "clip"
}

// ReadManifest reads a visual manifest from a YAML file.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	for i, e := range m.Visuals {
		if e.Path == "" {
			return nil, fmt.Errorf("manifest %s: visual %d has no path", path, i)
		}
		if e.Kind != "image" && e.Kind != "clip" {
			return nil, fmt.Errorf("manifest %s: visual %q has unknown kind %q", path, e.Name, e.Kind)
		}
	}
	return &m, nil
}

// WriteManifest writes a visual manifest to a YAML file.
func WriteManifest(m *Manifest, path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
