package mapping

import (
	"fmt"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/cim"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/report"
)

// MapSymbol flattens a CIM composite symbol into a single symbol descriptor.
// The CIM stacks symbol layers topmost-first; the target keeps one fill, one
// stroke and one marker, so the topmost layer of each role wins and every
// layer below it is recorded as dropped. An absent symbol yields an empty
// descriptor, which the writer fills with target defaults.
func MapSymbol(ref *cim.SymbolReference, tbl *Table) (model.SymbolDescriptor, []report.Note) {
	var desc model.SymbolDescriptor
	var notes []report.Note

	sym := ref.Resolve()
	if sym == nil {
		return desc, notes
	}

	var haveFill, haveStroke, haveMarker bool
	for i := range sym.SymbolLayers {
		layer := &sym.SymbolLayers[i]
		if !layer.Enabled() {
			continue
		}
		role, ok := tbl.SymbolLayers[layer.Type]
		if !ok {
			notes = append(notes, dropped("symbol layer %d: unsupported kind %s", i, layer.Type))
			continue
		}
		switch role {
		case "fill":
			if haveFill {
				notes = append(notes, dropped("symbol layer %d: fill below topmost fill", i))
				continue
			}
			haveFill = true
			c := ParseColor(layer.Color)
			desc.FillColor = &c
		case "stroke":
			if haveStroke {
				notes = append(notes, dropped("symbol layer %d: stroke below topmost stroke", i))
				continue
			}
			haveStroke = true
			notes = append(notes, applyStroke(&desc, layer, tbl, i)...)
		case "marker":
			if haveMarker {
				notes = append(notes, dropped("symbol layer %d: marker below topmost marker", i))
				continue
			}
			haveMarker = true
			notes = append(notes, applyVectorMarker(&desc, layer, tbl, i)...)
		case "font-marker":
			if haveMarker {
				notes = append(notes, dropped("symbol layer %d: marker below topmost marker", i))
				continue
			}
			haveMarker = true
			notes = append(notes, applyCharacterMarker(&desc, layer, tbl, i)...)
		default:
			notes = append(notes, dropped("symbol layer %d: unmapped role %q for %s", i, role, layer.Type))
		}
	}
	return desc, notes
}

func applyStroke(desc *model.SymbolDescriptor, layer *cim.SymbolLayer, tbl *Table, idx int) []report.Note {
	var notes []report.Note

	c := ParseColor(layer.Color)
	desc.StrokeColor = &c
	if layer.Width > 0 {
		w := convertSize(layer.Width, layer.Unit, tbl, &notes)
		desc.StrokeWidth = &w
	}
	if layer.CapStyle != "" {
		if style, ok := tbl.LineCaps[layer.CapStyle]; ok {
			desc.LineCap = style
		} else {
			notes = append(notes, dropped("stroke cap style %q", layer.CapStyle))
		}
	}
	if layer.JoinStyle != "" {
		if join, ok := tbl.LineJoins[layer.JoinStyle]; ok {
			desc.LineJoin = join
		} else {
			notes = append(notes, dropped("stroke join style %q", layer.JoinStyle))
		}
	}

	for _, effect := range layer.Effects {
		switch effect.Type {
		case "CIMGeometricEffectDashes":
			if pattern, ok := usableDashTemplate(effect.DashTemplate); ok {
				desc.DashPattern = pattern
			} else {
				notes = append(notes, dropped("dash template %v not representable, stroke rendered solid", effect.DashTemplate))
			}
		case "CIMGeometricEffectOffset":
			notes = append(notes, dropped("stroke offset effect (%g pt)", effect.Offset))
		default:
			notes = append(notes, dropped("symbol layer %d: stroke effect %s", idx, effect.Type))
		}
	}
	return notes
}

// usableDashTemplate validates a dash template against what the target can
// express: alternating dash/gap pairs, all positive.
func usableDashTemplate(template []float64) ([]float64, bool) {
	if len(template) < 2 || len(template)%2 != 0 {
		return nil, false
	}
	for _, v := range template {
		if v <= 0 {
			return nil, false
		}
	}
	out := make([]float64, len(template))
	copy(out, template)
	return out, true
}

func applyVectorMarker(desc *model.SymbolDescriptor, layer *cim.SymbolLayer, tbl *Table, idx int) []report.Note {
	var notes []report.Note

	desc.MarkerShape = model.MarkerCircle
	if layer.Size > 0 {
		s := convertSize(layer.Size, layer.Unit, tbl, &notes)
		desc.MarkerSize = &s
	}
	if layer.Rotation != 0 {
		r := layer.Rotation
		desc.MarkerAngle = &r
	}

	// The drawn shape lives in the first marker graphic; its nested symbol
	// layers carry the marker's fill and outline.
	if len(layer.MarkerGraphics) == 0 {
		return notes
	}
	graphic := layer.MarkerGraphics[0]
	if len(layer.MarkerGraphics) > 1 {
		notes = append(notes, dropped("symbol layer %d: %d extra marker graphics", idx, len(layer.MarkerGraphics)-1))
	}
	if graphic.PrimitiveName != "" {
		if shape, ok := tbl.MarkerShapes[graphic.PrimitiveName]; ok {
			desc.MarkerShape = model.MarkerShape(shape)
		} else {
			notes = append(notes, dropped("symbol layer %d: marker shape %q approximated by circle", idx, graphic.PrimitiveName))
		}
	}
	if graphic.Symbol == nil {
		return notes
	}
	for i := range graphic.Symbol.SymbolLayers {
		sub := &graphic.Symbol.SymbolLayers[i]
		if !sub.Enabled() {
			continue
		}
		switch tbl.SymbolLayers[sub.Type] {
		case "fill":
			if desc.FillColor == nil {
				c := ParseColor(sub.Color)
				desc.FillColor = &c
			}
		case "stroke":
			if desc.StrokeColor == nil {
				c := ParseColor(sub.Color)
				desc.StrokeColor = &c
				if sub.Width > 0 {
					w := convertSize(sub.Width, sub.Unit, tbl, &notes)
					desc.StrokeWidth = &w
				}
			}
		}
	}
	return notes
}

// applyCharacterMarker approximates a font glyph marker with a simple shape;
// the target's font machinery is not driven from here, so the glyph itself
// is a recorded loss.
func applyCharacterMarker(desc *model.SymbolDescriptor, layer *cim.SymbolLayer, tbl *Table, idx int) []report.Note {
	var notes []report.Note

	desc.MarkerShape = model.MarkerCircle
	if layer.Size > 0 {
		s := convertSize(layer.Size, layer.Unit, tbl, &notes)
		desc.MarkerSize = &s
	}
	if layer.Rotation != 0 {
		r := layer.Rotation
		desc.MarkerAngle = &r
	}
	if layer.Color != nil {
		c := ParseColor(layer.Color)
		desc.FillColor = &c
	}
	notes = append(notes, dropped("symbol layer %d: character marker %q index %d approximated by simple marker",
		idx, layer.FontFamilyName, layer.CharacterIndex))
	return notes
}

// convertSize normalizes a dimension to points, noting approximations.
func convertSize(value float64, unit string, tbl *Table, notes *[]report.Note) float64 {
	converted, known := tbl.toPoints(value, unit)
	if !known {
		*notes = append(*notes, report.Note{
			Code:   report.CodeUnitApproximated,
			Detail: fmt.Sprintf("unknown unit %q treated as points", unit),
		})
		return value
	}
	if unit != "" && unit != "point" && tbl.approximate(unit) {
		*notes = append(*notes, report.Note{
			Code:   report.CodeUnitApproximated,
			Detail: fmt.Sprintf("%g %s approximated as %g pt", value, unit, converted),
		})
	}
	return converted
}

func dropped(format string, args ...any) report.Note {
	return report.Note{
		Code:   report.CodeSymbolAttributeUnsupported,
		Detail: fmt.Sprintf(format, args...),
	}
}
