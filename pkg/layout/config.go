package layout

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/solver"
)

// Config holds the spacings and tolerances used by every pipeline stage.
// All values are in diagram pixels.
//
// A zero Config is not valid; start from DefaultConfig and override fields,
// or load a TOML file with LoadConfig.
type Config struct {
	// NodeSpacing is the distance between siblings in a rank. RankAligner
	// groups nodes whose layer-axis centers lie within half of it.
	NodeSpacing float64 `toml:"node_spacing"`
	// LayerSpacing is the distance between ranks.
	LayerSpacing float64 `toml:"layer_spacing"`
	// MarginX and MarginY place the top-left of a full layout.
	MarginX float64 `toml:"margin_x"`
	MarginY float64 `toml:"margin_y"`

	// MoveDeadZone suppresses moves whose delta is at most this on both axes.
	MoveDeadZone float64 `toml:"move_dead_zone"`
	// ResizeThreshold suppresses resizes smaller than this on both axes.
	ResizeThreshold float64 `toml:"resize_threshold"`
	// SameRowThreshold groups nodes of one rank into a row.
	SameRowThreshold float64 `toml:"same_row_threshold"`
	// AlignTolerance is the deviation from the row median below which a
	// node is left where it is.
	AlignTolerance float64 `toml:"align_tolerance"`
	// RouteSnap zeroes axis deltas below it when materializing sections,
	// and is the straight-line tolerance of fallback routes.
	RouteSnap float64 `toml:"route_snap"`
	// OrthoSnap is the largest delta the orthogonal corrector will zero.
	OrthoSnap float64 `toml:"ortho_snap"`
	// MarkerTolerance expands a host's bounds before deciding that an
	// attached marker was left behind.
	MarkerTolerance float64 `toml:"marker_tolerance"`

	// SecondaryOffset is the vertical distance between a decoration and the
	// node it annotates.
	SecondaryOffset float64 `toml:"secondary_offset"`
	// SecondaryGap separates decorations from each other.
	SecondaryGap float64 `toml:"secondary_gap"`

	// DefaultWidth and DefaultHeight replace non-positive node sizes.
	DefaultWidth  float64 `toml:"default_width"`
	DefaultHeight float64 `toml:"default_height"`
	// ContainerPadding is the inner margin of expanded containers.
	ContainerPadding float64 `toml:"container_padding"`
	// PoolLabelBand is extra left padding reserved for a pool's label.
	PoolLabelBand float64 `toml:"pool_label_band"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		NodeSpacing:      solver.DefaultNodeSpacing,
		LayerSpacing:     solver.DefaultLayerSpacing,
		MarginX:          50,
		MarginY:          50,
		MoveDeadZone:     0.5,
		ResizeThreshold:  1,
		SameRowThreshold: 10,
		AlignTolerance:   0.5,
		RouteSnap:        1,
		OrthoSnap:        8,
		MarkerTolerance:  20,
		SecondaryOffset:  40,
		SecondaryGap:     20,
		DefaultWidth:     100,
		DefaultHeight:    80,
		ContainerPadding: 30,
		PoolLabelBand:    30,
	}
}

// LoadConfig decodes a TOML file over DefaultConfig. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"node_spacing", c.NodeSpacing},
		{"layer_spacing", c.LayerSpacing},
		{"default_width", c.DefaultWidth},
		{"default_height", c.DefaultHeight},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be positive, got %g", p.name, p.v)
		}
	}
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"move_dead_zone", c.MoveDeadZone},
		{"resize_threshold", c.ResizeThreshold},
		{"same_row_threshold", c.SameRowThreshold},
		{"align_tolerance", c.AlignTolerance},
		{"route_snap", c.RouteSnap},
		{"ortho_snap", c.OrthoSnap},
		{"marker_tolerance", c.MarkerTolerance},
		{"secondary_offset", c.SecondaryOffset},
		{"secondary_gap", c.SecondaryGap},
		{"container_padding", c.ContainerPadding},
		{"pool_label_band", c.PoolLabelBand},
	}
	for _, p := range nonNegative {
		if p.v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative, got %g", p.name, p.v)
		}
	}
	return nil
}

// padding returns the solver padding of an expanded container.
func (c Config) padding(pool bool) solver.Padding {
	p := solver.Uniform(c.ContainerPadding)
	if pool {
		p.Left += c.PoolLabelBand
	}
	return p
}
