// Package manifest reads relationship declarations from YAML so host setup
// code can define them in one pass.
//
// Example:
//
//	relationships:
//	  - from: book
//	    to: author
//	    kind: wrote
//	    options:
//	      title: Authors
//	principals:
//	  - type: book
//	    kind: liked
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/asakaida/tsunagi/pkg/relationship"
)

// Manifest is a set of relationship declarations
type Manifest struct {
	Relationships []EntityRelationship    `yaml:"relationships"`
	Principals    []PrincipalRelationship `yaml:"principals"`
}

// EntityRelationship declares a relationship between two entity types
type EntityRelationship struct {
	From    string               `yaml:"from"`
	To      string               `yaml:"to"`
	Kind    string               `yaml:"kind"`
	Options relationship.Options `yaml:"options,omitempty"`
}

// PrincipalRelationship declares a relationship between an entity type and principals
type PrincipalRelationship struct {
	Type    string               `yaml:"type"`
	Kind    string               `yaml:"kind"`
	Options relationship.Options `yaml:"options,omitempty"`
}

// Load reads and parses the manifest at path
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a manifest. Unknown fields are rejected so that typos
// (e.g. "knid") do not silently produce empty values.
// An empty document yields an empty manifest.
func Parse(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	m := &Manifest{}
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m, nil
}

// Validate checks that every declaration names its types and kind.
// All problems are reported together.
func (m *Manifest) Validate() error {
	var result *multierror.Error

	for i, rel := range m.Relationships {
		if rel.From == "" {
			result = multierror.Append(result, fmt.Errorf("relationships[%d]: from is required", i))
		}
		if rel.To == "" {
			result = multierror.Append(result, fmt.Errorf("relationships[%d]: to is required", i))
		}
		if rel.Kind == "" {
			result = multierror.Append(result, fmt.Errorf("relationships[%d]: kind is required", i))
		}
	}

	for i, rel := range m.Principals {
		if rel.Type == "" {
			result = multierror.Append(result, fmt.Errorf("principals[%d]: type is required", i))
		}
		if rel.Kind == "" {
			result = multierror.Append(result, fmt.Errorf("principals[%d]: kind is required", i))
		}
	}

	return result.ErrorOrNil()
}

// Len returns the total number of declarations
func (m *Manifest) Len() int {
	return len(m.Relationships) + len(m.Principals)
}
