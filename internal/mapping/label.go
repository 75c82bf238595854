package mapping

import (
	"strings"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/cim"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/report"
)

// MapLabeling translates the label classes of a layer definition. The target
// supports a single simple labeling rule per layer, so only the first class
// is kept and any extras are recorded as dropped. A layer without label
// classes is simply not labeled.
func MapLabeling(def *cim.LayerDefinition) (*model.LabelingModel, []report.Note) {
	if len(def.LabelClasses) == 0 {
		return nil, nil
	}

	var notes []report.Note
	if len(def.LabelClasses) > 1 {
		notes = append(notes, report.Note{
			Code:   report.CodeLabelClassDropped,
			Detail: labelDropDetail(def.LabelClasses[1:]),
		})
	}
	class := def.LabelClasses[0]

	out := &model.LabelingModel{
		Enabled:    def.LabelVisibility,
		Expression: labelExpression(class.Expression),
	}

	if sym := class.TextSymbol.Resolve(); sym != nil {
		out.Style = textStyle(sym)
	}
	if class.MaplexPlacement != nil {
		out.Placement = placement(class.MaplexPlacement)
	}
	return out, notes
}

// labelExpression converts an ArcGIS bracketed field reference to a plain
// field expression. Complex expressions pass through untranslated; the field
// form "[Name]" is by far the common case.
func labelExpression(expr string) string {
	expr = strings.TrimSpace(expr)
	expr = strings.ReplaceAll(expr, "[", "")
	expr = strings.ReplaceAll(expr, "]", "")
	return expr
}

func textStyle(sym *cim.Symbol) model.TextStyle {
	style := model.TextStyle{
		FontFamily: sym.FontFamilyName,
		SizePoints: sym.Height,
		Underline:  sym.Underline,
		Strikeout:  sym.Strikethrough,
	}
	if style.FontFamily == "" {
		style.FontFamily = "Arial"
	}
	if style.SizePoints <= 0 {
		style.SizePoints = 8
	}
	name := strings.ToLower(sym.FontStyleName)
	style.Bold = strings.Contains(name, "bold")
	style.Italic = strings.Contains(name, "italic")

	// Text color is the solid fill of the nested geometry symbol.
	if sym.Symbol != nil {
		for i := range sym.Symbol.SymbolLayers {
			layer := &sym.Symbol.SymbolLayers[i]
			if layer.Type == "CIMSolidFill" {
				c := ParseColor(layer.Color)
				style.Color = &c
				break
			}
		}
	}
	return style
}

// placement maps the Maplex feature type and method vocabulary onto the
// target placement enum, with per-geometry fallbacks.
func placement(p *cim.MaplexPlacementProperties) model.LabelPlacement {
	switch p.FeatureType {
	case "Point":
		switch p.PointPlacementMethod {
		case "AroundPoint":
			return model.PlacementAroundPoint
		case "OnTopPoint":
			return model.PlacementOverPoint
		default:
			return model.PlacementAroundPoint
		}
	case "Line":
		switch p.LinePlacementMethod {
		case "OffsetCurvedFromLine":
			return model.PlacementCurved
		case "OffsetStraightFromLine":
			return model.PlacementParallel
		default:
			return model.PlacementLine
		}
	case "Polygon":
		switch p.PolygonPlacementMethod {
		case "CurvedInPolygon":
			return model.PlacementCurvedPolygon
		case "HorizontalInPolygon":
			return model.PlacementHorizontalPolygon
		default:
			return model.PlacementFreePolygon
		}
	}
	return ""
}

func labelDropDetail(extra []cim.LabelClass) string {
	names := make([]string, 0, len(extra))
	for _, c := range extra {
		name := c.Name
		if name == "" {
			name = c.Expression
		}
		names = append(names, name)
	}
	return "additional label classes dropped: " + strings.Join(names, ", ")
}
