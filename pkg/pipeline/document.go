package pipeline

import (
	"github.com/matzehuels/flowlayout/pkg/diagram"
	"github.com/matzehuels/flowlayout/pkg/errors"
	pkgio "github.com/matzehuels/flowlayout/pkg/io"
)

// Load reads a diagram document from path. Malformed documents are
// reported as INVALID_DIAGRAM.
func Load(path string) (*diagram.Diagram, error) {
	d, err := pkgio.Import(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDiagram, err, "load %s", path)
	}
	return d, nil
}

// Save writes d to path in the format implied by its extension.
func Save(d *diagram.Diagram, path string) error {
	if _, err := pkgio.FormatFromPath(path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "save %s", path)
	}
	if err := pkgio.Export(d, path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save %s", path)
	}
	return nil
}
