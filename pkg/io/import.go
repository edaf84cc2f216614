package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/flowlayout/pkg/diagram"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported document extension %q", filepath.Ext(path))
}

// Document is the serialized form of a diagram.
type Document struct {
	Nodes       []diagram.Node       `json:"nodes" yaml:"nodes"`
	Connections []diagram.Connection `json:"connections" yaml:"connections"`
}

// Diagram builds and validates a diagram from the document.
//
// Errors are wrapped with the offending node or connection ID. Use
// errors.Is with the diagram package's sentinel errors to inspect them.
func (doc Document) Diagram() (*diagram.Diagram, error) {
	d := diagram.New()
	for _, n := range doc.Nodes {
		if err := d.AddNode(n); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, c := range doc.Connections {
		if err := d.AddConnection(c); err != nil {
			return nil, fmt.Errorf("connection %s: %w", c.ID, err)
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Read decodes a document in the given format from r. Read does not close r.
func Read(r io.Reader, format Format) (*diagram.Diagram, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return doc.Diagram()
}

// Import reads the document at path, choosing the format by extension.
func Import(path string) (*diagram.Diagram, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}
