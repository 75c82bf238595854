package model

// LabelPlacement names the label placement strategy relative to geometry.
type LabelPlacement string

const (
	PlacementAroundPoint       LabelPlacement = "around-point"
	PlacementOverPoint         LabelPlacement = "over-point"
	PlacementLine              LabelPlacement = "line"
	PlacementCurved            LabelPlacement = "curved"
	PlacementParallel          LabelPlacement = "parallel"
	PlacementHorizontalPolygon LabelPlacement = "horizontal-polygon"
	PlacementCurvedPolygon     LabelPlacement = "curved-polygon"
	PlacementFreePolygon       LabelPlacement = "free-polygon"
)

// TextStyle describes the label text appearance.
type TextStyle struct {
	FontFamily string
	SizePoints float64
	Bold       bool
	Italic     bool
	Underline  bool
	Strikeout  bool
	Color      *Color
}

// LabelingModel is the labeling configuration of one leaf layer.
// A nil *LabelingModel on a LayerNode means the layer is not labeled.
type LabelingModel struct {
	Enabled    bool
	Expression string // field name or target expression
	Style      TextStyle
	Placement  LabelPlacement // empty means target default
}
