package qlr

import (
	"strconv"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
)

// Target-format defaults applied to canonical fields left unset. Matching
// the source tooling's conventions: sizes and widths in points.
var (
	defaultFill   = model.Color{R: 128, G: 128, B: 128, A: 255}
	defaultStroke = model.Color{R: 35, G: 35, B: 35, A: 255}
)

const (
	defaultStrokeWidth = 0.5
	defaultMarkerSize  = 6.0
)

func buildRenderer(s *model.SymbologyModel, geom model.GeometryType) *Renderer {
	switch s.Kind {
	case model.RendererCategorized:
		return buildCategorized(s, geom)
	case model.RendererGraduated:
		return buildGraduated(s, geom)
	case model.RendererHeatmap:
		return buildHeatmap(s)
	default:
		return buildSingle(s, geom)
	}
}

func buildSingle(s *model.SymbologyModel, geom model.GeometryType) *Renderer {
	var desc model.SymbolDescriptor
	if s.Default != nil {
		desc = *s.Default
	}
	return &Renderer{
		Type:    "singleSymbol",
		Symbols: []Symbol{buildSymbol(desc, geom, "0")},
	}
}

func buildCategorized(s *model.SymbologyModel, geom model.GeometryType) *Renderer {
	r := &Renderer{
		Type: "categorizedSymbol",
		Attr: s.Field,
	}
	for i, rule := range s.Rules {
		name := strconv.Itoa(i)
		r.Categories = append(r.Categories, Category{
			Value:  rule.Value,
			Symbol: name,
			Label:  rule.Label,
			Render: "true",
		})
		r.Symbols = append(r.Symbols, buildSymbol(rule.Symbol, geom, name))
	}
	if s.Default != nil {
		sym := buildSymbol(*s.Default, geom, "0")
		r.SourceSymbol = &sym
	}
	return r
}

func buildGraduated(s *model.SymbologyModel, geom model.GeometryType) *Renderer {
	r := &Renderer{
		Type: "graduatedSymbol",
		Attr: s.Field,
	}
	for i, rule := range s.Rules {
		name := strconv.Itoa(i)
		r.Ranges = append(r.Ranges, RangeElem{
			Lower:  num(rule.Range.Lower),
			Upper:  num(rule.Range.Upper),
			Symbol: name,
			Label:  rule.Label,
			Render: "true",
		})
		r.Symbols = append(r.Symbols, buildSymbol(rule.Symbol, geom, name))
	}
	if s.Default != nil {
		sym := buildSymbol(*s.Default, geom, "0")
		r.SourceSymbol = &sym
	}
	return r
}

func buildHeatmap(s *model.SymbologyModel) *Renderer {
	h := s.Heatmap
	r := &Renderer{
		Type:       "heatmapRenderer",
		Radius:     num(h.RadiusPoints),
		RadiusUnit: "Point",
		Quality:    strconv.Itoa(h.Quality),
	}
	if h.WeightField != "" {
		r.WeightExpr = quoteField(h.WeightField)
	}
	r.ColorRamp = &ColorRamp{
		Type: "gradient",
		Name: "[source]",
		Props: []Prop{
			{K: "color1", V: h.RampStart.String()},
			{K: "color2", V: h.RampEnd.String()},
		},
	}
	return r
}

// buildSymbol renders a symbol descriptor as the geometry-appropriate target
// symbol layer, filling target defaults for unset fields.
func buildSymbol(desc model.SymbolDescriptor, geom model.GeometryType, name string) Symbol {
	var layer SymbolLayer
	var symType string

	switch geom {
	case model.GeometryPoint:
		symType = "marker"
		layer = markerLayer(desc)
	case model.GeometryLine:
		symType = "line"
		layer = lineLayer(desc)
	default:
		symType = "fill"
		layer = fillLayer(desc)
	}

	return Symbol{
		Type:   symType,
		Name:   name,
		Alpha:  "1",
		Layers: []SymbolLayer{layer},
	}
}

func markerLayer(desc model.SymbolDescriptor) SymbolLayer {
	shape := desc.MarkerShape
	if shape == "" {
		shape = model.MarkerCircle
	}
	props := []Prop{
		{K: "name", V: string(shape)},
		{K: "color", V: colorOr(desc.FillColor, defaultFill)},
		{K: "outline_color", V: colorOr(desc.StrokeColor, defaultStroke)},
		{K: "outline_width", V: num(widthOr(desc.StrokeWidth, defaultStrokeWidth))},
		{K: "outline_width_unit", V: "Point"},
		{K: "size", V: num(widthOr(desc.MarkerSize, defaultMarkerSize))},
		{K: "size_unit", V: "Point"},
	}
	if desc.MarkerAngle != nil {
		props = append(props, Prop{K: "angle", V: num(*desc.MarkerAngle)})
	}
	return SymbolLayer{Class: "SimpleMarker", Props: props}
}

func lineLayer(desc model.SymbolDescriptor) SymbolLayer {
	props := []Prop{
		{K: "line_color", V: colorOr(desc.StrokeColor, defaultStroke)},
		{K: "line_width", V: num(widthOr(desc.StrokeWidth, defaultStrokeWidth))},
		{K: "line_width_unit", V: "Point"},
		{K: "line_style", V: "solid"},
		{K: "capstyle", V: stringOr(desc.LineCap, "round")},
		{K: "joinstyle", V: stringOr(desc.LineJoin, "round")},
	}
	if len(desc.DashPattern) > 0 {
		props = append(props,
			Prop{K: "use_custom_dash", V: "1"},
			Prop{K: "customdash", V: dashVector(desc.DashPattern)},
			Prop{K: "customdash_unit", V: "Point"},
		)
	}
	return SymbolLayer{Class: "SimpleLine", Props: props}
}

func fillLayer(desc model.SymbolDescriptor) SymbolLayer {
	props := []Prop{
		{K: "color", V: colorOr(desc.FillColor, defaultFill)},
		{K: "style", V: "solid"},
		{K: "outline_color", V: colorOr(desc.StrokeColor, defaultStroke)},
		{K: "outline_width", V: num(widthOr(desc.StrokeWidth, defaultStrokeWidth))},
		{K: "outline_width_unit", V: "Point"},
		{K: "outline_style", V: "solid"},
		{K: "joinstyle", V: stringOr(desc.LineJoin, "round")},
	}
	return SymbolLayer{Class: "SimpleFill", Props: props}
}

func buildLabeling(l *model.LabelingModel) *Labeling {
	style := LabelTextStyle{
		FieldName:     l.Expression,
		FontFamily:    stringOr(l.Style.FontFamily, "Arial"),
		FontSize:      num(sizeOr(l.Style.SizePoints, 8)),
		FontSizeUnit:  "Point",
		FontWeight:    boolWeight(l.Style.Bold),
		FontItalic:    boolNum(l.Style.Italic),
		FontUnderline: boolNum(l.Style.Underline),
		FontStrikeout: boolNum(l.Style.Strikeout),
		TextColor:     colorOr(l.Style.Color, model.Color{A: 255}),
		Enabled:       boolNum(l.Enabled),
	}
	return &Labeling{
		Type: "simple",
		Settings: LabelSettings{
			TextStyle: style,
			Placement: LabelPlacement{Placement: placementCode(l.Placement)},
		},
	}
}

// placementCode maps canonical placements to the target's numeric enum.
func placementCode(p model.LabelPlacement) string {
	switch p {
	case model.PlacementOverPoint:
		return "1"
	case model.PlacementLine, model.PlacementParallel:
		return "2"
	case model.PlacementCurved:
		return "3"
	case model.PlacementHorizontalPolygon:
		return "4"
	case model.PlacementFreePolygon:
		return "5"
	case model.PlacementCurvedPolygon:
		return "7"
	default: // around point
		return "0"
	}
}

func colorOr(c *model.Color, def model.Color) string {
	if c == nil {
		return def.String()
	}
	return c.String()
}

func widthOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func sizeOr(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func stringOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func boolNum(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func boolWeight(bold bool) string {
	if bold {
		return "75"
	}
	return "50"
}

func dashVector(pattern []float64) string {
	out := ""
	for i, v := range pattern {
		if i > 0 {
			out += ";"
		}
		out += num(v)
	}
	return out
}
