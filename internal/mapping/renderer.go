package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/cim"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/report"
)

// MapRenderer translates a raw CIM renderer node into the canonical
// symbology model. It is deliberately lossy: anything the target vocabulary
// cannot express degrades to the nearest supported representation, and every
// such degradation comes back as a note. Only a renderer node that cannot be
// decoded at all produces an error.
func MapRenderer(raw json.RawMessage, tbl *Table) (*model.SymbologyModel, []report.Note, error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}

	kind := cim.RendererType(raw)
	target, known := tbl.Renderers[kind]
	if !known {
		return fallbackRenderer(raw, kind, tbl)
	}

	switch target {
	case "single":
		return mapSimpleRenderer(raw, tbl)
	case "categorized":
		return mapCategorizedRenderer(raw, tbl)
	case "graduated":
		return mapGraduatedRenderer(raw, tbl)
	case "heatmap":
		return mapHeatmapRenderer(raw)
	default:
		return fallbackRenderer(raw, kind, tbl)
	}
}

// fallbackRenderer emits a single-symbol renderer from the first symbol
// found in an unknown renderer node, recording the unsupported kind.
func fallbackRenderer(raw json.RawMessage, kind string, tbl *Table) (*model.SymbologyModel, []report.Note, error) {
	notes := []report.Note{{
		Code:   report.CodeRendererKindUnsupported,
		Detail: fmt.Sprintf("renderer kind %q has no mapping, emitting single symbol fallback", kind),
	}}

	// Unknown renderers usually still carry a "symbol" member; use it when
	// present, otherwise fall through to target defaults.
	var probe struct {
		Symbol *cim.SymbolReference `json:"symbol"`
	}
	var def model.SymbolDescriptor
	if err := json.Unmarshal(raw, &probe); err == nil && probe.Symbol != nil {
		var symNotes []report.Note
		def, symNotes = MapSymbol(probe.Symbol, tbl)
		notes = append(notes, symNotes...)
	}
	return &model.SymbologyModel{
		Kind:    model.RendererSingle,
		Default: &def,
	}, notes, nil
}

func mapSimpleRenderer(raw json.RawMessage, tbl *Table) (*model.SymbologyModel, []report.Note, error) {
	var r cim.SimpleRenderer
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, nil, fmt.Errorf("decode simple renderer: %w", err)
	}
	desc, notes := MapSymbol(r.Symbol, tbl)
	return &model.SymbologyModel{
		Kind:    model.RendererSingle,
		Default: &desc,
	}, notes, nil
}

func mapCategorizedRenderer(raw json.RawMessage, tbl *Table) (*model.SymbologyModel, []report.Note, error) {
	var r cim.UniqueValueRenderer
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, nil, fmt.Errorf("decode unique value renderer: %w", err)
	}

	var notes []report.Note
	out := &model.SymbologyModel{Kind: model.RendererCategorized}

	if len(r.Fields) == 0 {
		return nil, nil, fmt.Errorf("unique value renderer declares no fields")
	}
	out.Field = r.Fields[0]
	if len(r.Fields) > 1 {
		notes = append(notes, dropped("multi-field classification %v reduced to %q", r.Fields, out.Field))
	}

	// Each class translates independently; one bad class never fails the
	// renderer. Duplicate match values keep the first occurrence.
	seen := make(map[string]struct{})
	for _, group := range r.Groups {
		for _, class := range group.Classes {
			value, ok := classValue(class)
			if !ok {
				notes = append(notes, dropped("class %q has no field value", class.Label))
				continue
			}
			if _, dup := seen[value]; dup {
				notes = append(notes, dropped("duplicate category value %q, keeping first", value))
				continue
			}
			seen[value] = struct{}{}

			desc, symNotes := MapSymbol(class.Symbol, tbl)
			notes = append(notes, prefixNotes(symNotes, "category %q", value)...)

			label := class.Label
			if label == "" {
				label = value
			}
			out.Rules = append(out.Rules, model.Rule{Value: value, Label: label, Symbol: desc})
		}
	}

	if r.UseDefaultSymbol && r.DefaultSymbol != nil {
		desc, symNotes := MapSymbol(r.DefaultSymbol, tbl)
		notes = append(notes, prefixNotes(symNotes, "default symbol")...)
		out.Default = &desc
	}
	return out, notes, nil
}

// classValue extracts the primary match value of a unique-value class; the
// CIM nests it two lists deep.
func classValue(class cim.UniqueValueClass) (string, bool) {
	if len(class.Values) == 0 || len(class.Values[0].FieldValues) == 0 {
		return "", false
	}
	return class.Values[0].FieldValues[0], true
}

func mapGraduatedRenderer(raw json.RawMessage, tbl *Table) (*model.SymbologyModel, []report.Note, error) {
	var r cim.ClassBreaksRenderer
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, nil, fmt.Errorf("decode class breaks renderer: %w", err)
	}
	if r.Field == "" {
		return nil, nil, fmt.Errorf("class breaks renderer declares no field")
	}

	var notes []report.Note
	out := &model.SymbologyModel{
		Kind:  model.RendererGraduated,
		Field: r.Field,
	}

	// Breaks carry upper bounds only; walking them from minimumBreak yields
	// contiguous, non-overlapping ranges by construction.
	descs := make([]model.SymbolDescriptor, len(r.Breaks))
	for i, brk := range r.Breaks {
		var symNotes []report.Note
		descs[i], symNotes = MapSymbol(brk.Symbol, tbl)
		notes = append(notes, prefixNotes(symNotes, "class %d", i)...)
	}
	if r.ShowInAscendingOrder != nil && !*r.ShowInAscendingOrder {
		// Descending legends invert the symbol progression, not the ranges.
		for i, j := 0, len(descs)-1; i < j; i, j = i+1, j-1 {
			descs[i], descs[j] = descs[j], descs[i]
		}
	}

	lower := r.MinimumBreak
	for i, brk := range r.Breaks {
		if brk.UpperBound < lower {
			notes = append(notes, dropped("class %d upper bound %g below lower bound %g, clamped", i, brk.UpperBound, lower))
			brk.UpperBound = lower
		}
		label := brk.Label
		if label == "" {
			label = fmt.Sprintf("%g - %g", lower, brk.UpperBound)
		}
		out.Rules = append(out.Rules, model.Rule{
			Range:  &model.Range{Lower: lower, Upper: brk.UpperBound},
			Label:  label,
			Symbol: descs[i],
		})
		lower = brk.UpperBound
	}

	if r.DefaultSymbol != nil {
		desc, symNotes := MapSymbol(r.DefaultSymbol, tbl)
		notes = append(notes, prefixNotes(symNotes, "default symbol")...)
		out.Default = &desc
	}
	return out, notes, nil
}

func mapHeatmapRenderer(raw json.RawMessage) (*model.SymbologyModel, []report.Note, error) {
	var r cim.HeatMapRenderer
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, nil, fmt.Errorf("decode heat map renderer: %w", err)
	}

	var notes []report.Note
	params := &model.HeatmapParams{
		RadiusPoints: r.Radius,
		WeightField:  r.WeightField,
		Quality:      r.RendererQuality,
		RampStart:    model.Color{A: 255},
		RampEnd:      model.Color{R: 255, A: 255},
	}
	if params.RadiusPoints <= 0 {
		params.RadiusPoints = 10
	}

	// The target ramp is a plain two-color gradient; a multi-segment CIM
	// scheme collapses to its endpoints.
	if r.ColorScheme != nil && len(r.ColorScheme.ColorRamps) > 0 {
		segs := r.ColorScheme.ColorRamps
		params.RampStart = ParseColor(segs[0].FromColor)
		params.RampEnd = ParseColor(segs[len(segs)-1].ToColor)
		if len(segs) > 1 {
			notes = append(notes, dropped("color scheme with %d segments reduced to endpoint gradient", len(segs)))
		}
	}
	return &model.SymbologyModel{
		Kind:    model.RendererHeatmap,
		Heatmap: params,
	}, notes, nil
}

func prefixNotes(notes []report.Note, format string, args ...any) []report.Note {
	if len(notes) == 0 {
		return nil
	}
	prefix := fmt.Sprintf(format, args...)
	out := make([]report.Note, len(notes))
	for i, n := range notes {
		out[i] = report.Note{Code: n.Code, Detail: prefix + ": " + n.Detail}
	}
	return out
}
