package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ToolFilter narrows the exposed tool set. Namespaces are top-level command
// groups; Deny entries are tool names or leading "_" segments of them.
type ToolFilter struct {
	Version    string   `yaml:"version"`
	Namespaces []string `yaml:"namespaces"`
	Deny       []string `yaml:"deny"`
}

// LoadToolFilter reads a tool filter file. An empty path yields an empty filter.
func LoadToolFilter(filePath string) (*ToolFilter, error) {
	if filePath == "" {
		return &ToolFilter{}, nil
	}

	// #nosec G304 - This is the intended behavior: load the filter from a user-specified path
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool filter file: %w", err)
	}

	var filter ToolFilter
	if err := yaml.Unmarshal(data, &filter); err != nil {
		return nil, fmt.Errorf("failed to parse tool filter: %w", err)
	}

	return &filter, nil
}

// MergeNamespaces combines flag and file namespaces without duplicates.
func (f *ToolFilter) MergeNamespaces(namespaces []string) []string {
	merged := slices.Clone(namespaces)
	for _, ns := range f.Namespaces {
		if !slices.Contains(merged, ns) {
			merged = append(merged, ns)
		}
	}
	return merged
}
