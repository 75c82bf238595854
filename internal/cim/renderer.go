package cim

import "encoding/json"

// RendererHeader peeks at the discriminant of a raw renderer node.
type RendererHeader struct {
	Type string `json:"type"`
}

// RendererType returns the CIM type name of a raw renderer node, or "" when
// the node is absent or not an object.
func RendererType(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var h RendererHeader
	if err := json.Unmarshal(raw, &h); err != nil {
		return ""
	}
	return h.Type
}

// SimpleRenderer mirrors CIMSimpleRenderer.
type SimpleRenderer struct {
	Type   string           `json:"type"`
	Symbol *SymbolReference `json:"symbol"`
}

// UniqueValueRenderer mirrors CIMUniqueValueRenderer.
type UniqueValueRenderer struct {
	Type             string             `json:"type"`
	Fields           []string           `json:"fields"`
	Groups           []UniqueValueGroup `json:"groups"`
	UseDefaultSymbol bool               `json:"useDefaultSymbol"`
	DefaultSymbol    *SymbolReference   `json:"defaultSymbol"`
	DefaultLabel     string             `json:"defaultLabel"`
}

// UniqueValueGroup is one heading group of unique-value classes.
type UniqueValueGroup struct {
	Heading string             `json:"heading"`
	Classes []UniqueValueClass `json:"classes"`
}

// UniqueValueClass binds field values to a symbol.
type UniqueValueClass struct {
	Label  string           `json:"label"`
	Values []UniqueValueSet `json:"values"`
	Symbol *SymbolReference `json:"symbol"`
}

// UniqueValueSet mirrors CIMUniqueValue.
type UniqueValueSet struct {
	FieldValues []string `json:"fieldValues"`
}

// ClassBreaksRenderer mirrors CIMClassBreaksRenderer.
type ClassBreaksRenderer struct {
	Type                 string           `json:"type"`
	Field                string           `json:"field"`
	Breaks               []ClassBreak     `json:"breaks"`
	MinimumBreak         float64          `json:"minimumBreak"`
	ShowInAscendingOrder *bool            `json:"showInAscendingOrder"`
	ClassBreakType       string           `json:"classBreakType"`
	DefaultSymbol        *SymbolReference `json:"defaultSymbol"`
}

// ClassBreak is one graduated class with its inclusive upper bound.
type ClassBreak struct {
	UpperBound float64          `json:"upperBound"`
	Label      string           `json:"label"`
	Symbol     *SymbolReference `json:"symbol"`
}

// HeatMapRenderer mirrors CIMHeatMapRenderer.
type HeatMapRenderer struct {
	Type            string       `json:"type"`
	Radius          float64      `json:"radius"`
	WeightField     string       `json:"weightField"`
	RendererQuality int          `json:"rendererQuality"`
	ColorScheme     *ColorScheme `json:"colorScheme"`
}

// ColorScheme is a multi-segment color ramp.
type ColorScheme struct {
	Type       string         `json:"type"`
	ColorRamps []ColorSegment `json:"colorRamps"`
}

// ColorSegment is one gradient segment of a color scheme.
type ColorSegment struct {
	FromColor *Color `json:"fromColor"`
	ToColor   *Color `json:"toColor"`
}

// SymbolReference mirrors CIMSymbolReference; the CIM wraps every concrete
// symbol in one.
type SymbolReference struct {
	Type   string  `json:"type"`
	Symbol *Symbol `json:"symbol"`
}

// Resolve unwraps the reference, tolerating a bare symbol where a reference
// was expected.
func (r *SymbolReference) Resolve() *Symbol {
	if r == nil {
		return nil
	}
	return r.Symbol
}

// Symbol mirrors CIMPointSymbol, CIMLineSymbol and CIMPolygonSymbol: a
// composite of ordered symbol layers, topmost first.
type Symbol struct {
	Type         string        `json:"type"`
	SymbolLayers []SymbolLayer `json:"symbolLayers"`

	// Text symbol properties (CIMTextSymbol).
	FontFamilyName string  `json:"fontFamilyName"`
	FontStyleName  string  `json:"fontStyleName"`
	Height         float64 `json:"height"`
	Underline      bool    `json:"underline"`
	Strikethrough  bool    `json:"strikethrough"`
	Symbol         *Symbol `json:"symbol"` // nested geometry symbol of a text symbol
}

// SymbolLayer is one layer of a composite CIM symbol. The CIM uses disjoint
// node types with overlapping optional fields; a single struct with the union
// of fields keeps decoding simple, the Type discriminant selects meaning.
type SymbolLayer struct {
	Type   string `json:"type"` // CIMSolidFill, CIMSolidStroke, CIMVectorMarker, CIMCharacterMarker, ...
	Enable *bool  `json:"enable"`

	Color *Color `json:"color"`

	// Stroke.
	Width     float64  `json:"width"`
	CapStyle  string   `json:"capStyle"`
	JoinStyle string   `json:"joinStyle"`
	Effects   []Effect `json:"effects"`

	// Unit of Width and Size; CIM emits points and omits the field.
	Unit string `json:"unit"`

	// Marker.
	Size           float64         `json:"size"`
	Rotation       float64         `json:"rotation"`
	MarkerGraphics []MarkerGraphic `json:"markerGraphics"`
	FontFamilyName string          `json:"fontFamilyName"`
	CharacterIndex int             `json:"characterIndex"`
}

// Enabled reports whether the layer takes part in rendering; CIM omits the
// flag for enabled layers.
func (l *SymbolLayer) Enabled() bool {
	return l.Enable == nil || *l.Enable
}

// Effect mirrors the CIMGeometricEffect* nodes attached to strokes.
type Effect struct {
	Type         string    `json:"type"` // CIMGeometricEffectDashes, CIMGeometricEffectOffset
	DashTemplate []float64 `json:"dashTemplate"`
	Offset       float64   `json:"offset"`
}

// MarkerGraphic is the drawn shape inside a CIMVectorMarker.
type MarkerGraphic struct {
	Type          string          `json:"type"`
	PrimitiveName string          `json:"primitiveName"`
	Geometry      json.RawMessage `json:"geometry"`
	Symbol        *Symbol         `json:"symbol"`
}

// Color mirrors the CIM color nodes: CIMRGBColor, CIMHSVColor, CIMLABColor.
// Values are interpreted per Type; alpha is always the fourth value in 0-100.
type Color struct {
	Type   string    `json:"type"`
	Values []float64 `json:"values"`
}
