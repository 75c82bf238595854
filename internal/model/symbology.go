package model

import "fmt"

// RendererKind discriminates the symbology renderer variants.
type RendererKind string

const (
	RendererSingle      RendererKind = "single"
	RendererCategorized RendererKind = "categorized"
	RendererGraduated   RendererKind = "graduated"
	RendererHeatmap     RendererKind = "heatmap"
)

// Color is an RGBA color with 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

// String renders the color in the "r,g,b,a" form used by QGIS documents.
func (c Color) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", c.R, c.G, c.B, c.A)
}

// Opaque reports whether the color has full alpha.
func (c Color) Opaque() bool { return c.A == 255 }

// MarkerShape names a point marker glyph.
type MarkerShape string

const (
	MarkerCircle   MarkerShape = "circle"
	MarkerSquare   MarkerShape = "square"
	MarkerCross    MarkerShape = "cross"
	MarkerCross2   MarkerShape = "cross2"
	MarkerDiamond  MarkerShape = "diamond"
	MarkerTriangle MarkerShape = "triangle"
	MarkerPentagon MarkerShape = "pentagon"
	MarkerHexagon  MarkerShape = "hexagon"
	MarkerStar     MarkerShape = "star"
	MarkerArrow    MarkerShape = "arrowhead"
	MarkerLine     MarkerShape = "line"
)

// SymbolDescriptor is a geometry-appropriate symbol style. Every field is
// optional; a nil field means "use the target-format default".
type SymbolDescriptor struct {
	FillColor   *Color
	StrokeColor *Color
	StrokeWidth *float64 // points

	MarkerShape MarkerShape
	MarkerSize  *float64 // points
	MarkerAngle *float64 // degrees clockwise

	DashPattern []float64 // points; nil means solid
	LineCap     string    // round, flat, square
	LineJoin    string    // round, miter, bevel
}

// Range is a half-open numeric interval [Lower, Upper).
type Range struct {
	Lower float64
	Upper float64
}

// Rule binds a match value or range to a symbol within a classified renderer.
type Rule struct {
	Value  string // categorized
	Range  *Range // graduated
	Label  string
	Symbol SymbolDescriptor
}

// HeatmapParams carries the heatmap renderer settings.
type HeatmapParams struct {
	RadiusPoints float64
	WeightField  string
	RampStart    Color
	RampEnd      Color
	Quality      int
}

// SymbologyModel is the renderer of one leaf layer.
type SymbologyModel struct {
	Kind    RendererKind
	Field   string // classification field or expression
	Rules   []Rule
	Default *SymbolDescriptor
	Heatmap *HeatmapParams
}

// Validate checks the renderer invariants: graduated ranges must be
// contiguous and non-overlapping, categorized match values unique. It is a
// programming-error signal; mapper output is normalized before it gets here.
func (s *SymbologyModel) Validate() error {
	switch s.Kind {
	case RendererCategorized:
		seen := make(map[string]struct{}, len(s.Rules))
		for _, r := range s.Rules {
			if _, dup := seen[r.Value]; dup {
				return fmt.Errorf("%w: duplicate category value %q", ErrInvariantViolation, r.Value)
			}
			seen[r.Value] = struct{}{}
		}
	case RendererGraduated:
		for i, r := range s.Rules {
			if r.Range == nil {
				return fmt.Errorf("%w: graduated rule %d has no range", ErrInvariantViolation, i)
			}
			if r.Range.Upper < r.Range.Lower {
				return fmt.Errorf("%w: inverted range %v", ErrInvariantViolation, *r.Range)
			}
			if i > 0 && s.Rules[i-1].Range.Upper != r.Range.Lower {
				return fmt.Errorf("%w: ranges not contiguous at rule %d", ErrInvariantViolation, i)
			}
		}
	}
	return nil
}
