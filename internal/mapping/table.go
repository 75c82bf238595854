// Package mapping translates CIM renderer and symbol nodes into the
// canonical symbology model. The translation is table-driven: the symbol-kind
// matrix lives in a declarative YAML table so new mappings can be added
// without touching the mapper's control flow.
package mapping

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultTableYAML []byte

// Table is the declarative symbol mapping: source kind to target kind plus
// the attribute transforms needed along the way. Loaded once at process
// start and read-only thereafter.
type Table struct {
	// Renderers maps a CIM renderer type name to a canonical renderer kind
	// (single, categorized, graduated, heatmap).
	Renderers map[string]string `yaml:"renderers"`

	// SymbolLayers maps a CIM symbol layer type name to its role in the
	// flattened target symbol (fill, stroke, marker, font-marker).
	SymbolLayers map[string]string `yaml:"symbol_layers"`

	// MarkerShapes maps CIM marker shape names to target shape names.
	MarkerShapes map[string]string `yaml:"marker_shapes"`

	// LineCaps and LineJoins map CIM pen names to target pen names.
	LineCaps  map[string]string `yaml:"line_caps"`
	LineJoins map[string]string `yaml:"line_joins"`

	// Units maps a dimensional unit name to its factor to points, the
	// target's native unit. Units listed in ApproximateUnits have no exact
	// point equivalent; converting one is recorded as partial fidelity.
	Units            map[string]float64 `yaml:"units"`
	ApproximateUnits []string           `yaml:"approximate_units"`
}

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default returns the built-in mapping table. The table is parsed once and
// shared; callers must not mutate it.
func Default() *Table {
	defaultTableOnce.Do(func() {
		t, err := parseTable(defaultTableYAML)
		if err != nil {
			// The embedded table is part of the build; failing to parse
			// it is a defect, not an input condition.
			panic(fmt.Sprintf("mapping: embedded table: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// Load reads a mapping table from a YAML file, for extending the symbol-kind
// matrix without rebuilding. Entries absent from the file fall back to the
// built-in table.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := parseTable(data)
	if err != nil {
		return nil, fmt.Errorf("mapping table %s: %w", path, err)
	}
	t.fillFrom(Default())
	return t, nil
}

func parseTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// fillFrom copies any section the table left empty from base.
func (t *Table) fillFrom(base *Table) {
	if t.Renderers == nil {
		t.Renderers = base.Renderers
	}
	if t.SymbolLayers == nil {
		t.SymbolLayers = base.SymbolLayers
	}
	if t.MarkerShapes == nil {
		t.MarkerShapes = base.MarkerShapes
	}
	if t.LineCaps == nil {
		t.LineCaps = base.LineCaps
	}
	if t.LineJoins == nil {
		t.LineJoins = base.LineJoins
	}
	if t.Units == nil {
		t.Units = base.Units
		t.ApproximateUnits = base.ApproximateUnits
	}
}

// approximate reports whether a unit conversion is flagged as inexact.
func (t *Table) approximate(unit string) bool {
	for _, u := range t.ApproximateUnits {
		if u == unit {
			return true
		}
	}
	return false
}

// toPoints converts a dimension to points. The second return is false when
// the unit is unknown to the table.
func (t *Table) toPoints(value float64, unit string) (float64, bool) {
	if unit == "" || unit == "point" {
		return value, true
	}
	f, ok := t.Units[unit]
	if !ok {
		return value, false
	}
	return value * f, true
}
