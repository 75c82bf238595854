package convert

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/cim"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/mapping"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/report"
)

// layerKinds maps CIM layer node types to canonical kinds.
var layerKinds = map[string]model.LayerKind{
	"CIMFeatureLayer":    model.LayerFeature,
	"CIMRasterLayer":     model.LayerRaster,
	"CIMGroupLayer":      model.LayerGroup,
	"CIMAnnotationLayer": model.LayerAnnotation,
}

// assembler combines reader output and mapper output into canonical layer
// trees for one document.
type assembler struct {
	doc        *cim.Document
	tbl        *mapping.Table
	defaultCRS *model.CoordinateReference
}

// assemble builds the canonical node for one layer definition, recursing
// into group children. Recoverable inconsistencies are normalized and
// reported through notes; only undecodable structures return an error.
func (a *assembler) assemble(def *cim.LayerDefinition, zOrder int) (*model.LayerNode, []report.Note, error) {
	kind, known := layerKinds[def.Type]
	if !known {
		return nil, nil, fmt.Errorf("%w: layer type %q", cim.ErrMalformedDocument, def.Type)
	}

	node := &model.LayerNode{
		ID:          def.URI,
		Name:        def.Name,
		Kind:        kind,
		Visible:     def.Visibility,
		ZOrder:      zOrder,
		Title:       def.Name,
		Abstract:    def.Description,
		Attribution: def.Attribution,
	}
	var notes []report.Note

	if kind == model.LayerGroup {
		for i, uri := range def.Layers {
			childDef, err := a.doc.LayerDefinition(uri)
			if err != nil {
				return nil, nil, err
			}
			child, childNotes, err := a.assemble(childDef, i)
			if err != nil {
				return nil, nil, err
			}
			notes = append(notes, prefixed(childNotes, child.Name)...)
			node.Children = append(node.Children, child)
		}
		return node, notes, nil
	}

	a.applyScaleVisibility(node, def)
	notes = append(notes, a.applySource(node, def)...)
	notes = append(notes, a.applyCRS(node, def)...)

	if kind == model.LayerAnnotation {
		// Annotation drawing is not translated; the layer carries its data
		// source and CRS only.
		notes = append(notes, report.Note{
			Code:   report.CodeRendererKindUnsupported,
			Detail: "annotation drawing not translated, layer converted as plain vector",
		})
		return node, notes, nil
	}

	if kind == model.LayerFeature {
		sym, symNotes, err := mapping.MapRenderer(def.Renderer, a.tbl)
		if err != nil {
			return nil, nil, fmt.Errorf("layer %q: %w", def.Name, err)
		}
		notes = append(notes, symNotes...)
		node.Symbology = sym
		if node.Source != nil && node.Source.Geometry == model.GeometryNone {
			node.Source.Geometry = geometryOf(def.Renderer)
		}

		labeling, labelNotes := mapping.MapLabeling(def)
		notes = append(notes, labelNotes...)
		node.Labeling = labeling

		if def.FeatureTable != nil {
			node.DisplayField = def.FeatureTable.DisplayField
			node.DefinitionQuery = translateQuery(def.FeatureTable.DefinitionExpression)
		}
	}

	if err := model.ValidateTree(node); err != nil {
		return nil, nil, err
	}
	return node, notes, nil
}

// applyScaleVisibility carries min/max scale over unless the layer is shown
// at all scales.
func (a *assembler) applyScaleVisibility(node *model.LayerNode, def *cim.LayerDefinition) {
	if opts := def.ScaleVisibilityOptions; opts != nil && opts.ShowLayerAtAllScales {
		return
	}
	if def.MinScale != 0 {
		v := def.MinScale
		node.MinScale = &v
	}
	if def.MaxScale != 0 {
		v := def.MaxScale
		node.MaxScale = &v
	}
}

// applySource builds the data source descriptor from the layer's data
// connection. A layer declaring several connections keeps the first.
func (a *assembler) applySource(node *model.LayerNode, def *cim.LayerDefinition) []report.Note {
	var notes []report.Note

	conn := def.DataConnection
	if def.FeatureTable != nil && def.FeatureTable.DataConnection != nil {
		if conn != nil {
			notes = append(notes, report.Note{
				Code:   report.CodeDataSourceNormalized,
				Detail: "layer declares two data connections, keeping the feature table's",
			})
		}
		conn = def.FeatureTable.DataConnection
	}
	if conn == nil {
		notes = append(notes, report.Note{
			Code:   report.CodeDataSourceNormalized,
			Detail: "no data connection declared",
		})
		node.Source = &model.DataSourceDescriptor{Kind: model.SourceFile, Geometry: model.GeometryNone}
		return notes
	}

	src, connNotes := parseConnection(conn)
	notes = append(notes, connNotes...)
	if node.Kind == model.LayerRaster {
		src.Geometry = model.GeometryRaster
	}
	if def.FeatureTable != nil {
		for _, f := range def.FeatureTable.FieldDescriptions {
			src.Fields = append(src.Fields, model.Field{Name: f.FieldName, Type: f.FieldType})
		}
	}
	node.Source = src
	return notes
}

// parseConnection resolves an ArcGIS workspace connection into a path-based
// descriptor. Connection strings use the "KEY=path" form.
func parseConnection(conn *cim.DataConnection) (*model.DataSourceDescriptor, []report.Note) {
	var notes []report.Note

	raw := conn.WorkspaceConnectionString
	if _, path, found := strings.Cut(raw, "="); found {
		raw = path
	}
	raw = strings.ReplaceAll(raw, `\`, "/")

	src := &model.DataSourceDescriptor{
		Path:     raw,
		Geometry: model.GeometryNone,
	}
	switch conn.WorkspaceFactory {
	case "FileGDB":
		src.Kind = model.SourceFile
		src.SubLayer = conn.Dataset
	case "Shapefile", "Raster":
		src.Kind = model.SourceFile
		if src.Path != "" && conn.Dataset != "" {
			src.Path = strings.TrimSuffix(src.Path, "/") + "/" + conn.Dataset
		}
	case "SDE":
		src.Kind = model.SourceDatabase
		src.SubLayer = conn.Dataset
	default:
		src.Kind = model.SourceFile
		src.SubLayer = conn.Dataset
		notes = append(notes, report.Note{
			Code:   report.CodeDataSourceNormalized,
			Detail: fmt.Sprintf("workspace factory %q treated as file workspace", conn.WorkspaceFactory),
		})
	}
	return src, notes
}

// applyCRS resolves the layer CRS: layer-level definition first, then the
// document default. Absence stays absent.
func (a *assembler) applyCRS(node *model.LayerNode, def *cim.LayerDefinition) []report.Note {
	if sr := def.SpatialReference; sr != nil {
		node.CRS = crsFrom(sr)
		if node.CRS != nil {
			return nil
		}
	}
	if a.defaultCRS != nil {
		node.CRS = a.defaultCRS
		return nil
	}
	return []report.Note{{
		Code:   report.CodeDataSourceNormalized,
		Detail: "no coordinate reference declared, left unset",
	}}
}

func crsFrom(sr *cim.SpatialReference) *model.CoordinateReference {
	wkid := sr.LatestWKID
	if wkid == 0 {
		wkid = sr.WKID
	}
	if wkid != 0 {
		return &model.CoordinateReference{AuthID: fmt.Sprintf("EPSG:%d", wkid)}
	}
	if sr.WKT != "" {
		return &model.CoordinateReference{WKT: sr.WKT}
	}
	return nil
}

// geometryOf derives the layer geometry from the renderer's first concrete
// symbol type; the layer document itself does not declare geometry.
func geometryOf(raw json.RawMessage) model.GeometryType {
	if len(raw) == 0 {
		return model.GeometryNone
	}
	var probe struct {
		Symbol        *cim.SymbolReference   `json:"symbol"`
		DefaultSymbol *cim.SymbolReference   `json:"defaultSymbol"`
		Groups        []cim.UniqueValueGroup `json:"groups"`
		Breaks        []cim.ClassBreak       `json:"breaks"`
		MinSymbol     *cim.SymbolReference   `json:"minSymbol"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return model.GeometryNone
	}

	refs := []*cim.SymbolReference{probe.Symbol, probe.MinSymbol, probe.DefaultSymbol}
	for _, g := range probe.Groups {
		for _, c := range g.Classes {
			refs = append(refs, c.Symbol)
		}
	}
	for _, b := range probe.Breaks {
		refs = append(refs, b.Symbol)
	}
	for _, ref := range refs {
		sym := ref.Resolve()
		if sym == nil {
			continue
		}
		switch sym.Type {
		case "CIMPointSymbol":
			return model.GeometryPoint
		case "CIMLineSymbol":
			return model.GeometryLine
		case "CIMPolygonSymbol":
			return model.GeometryPolygon
		}
	}
	return model.GeometryNone
}

// translateQuery converts an ArcGIS definition expression to the target's
// quoting: bracketed field references become double-quoted.
func translateQuery(expr string) string {
	if expr == "" {
		return ""
	}
	expr = strings.TrimSpace(expr)
	expr = strings.ReplaceAll(expr, "[", `"`)
	expr = strings.ReplaceAll(expr, "]", `"`)
	return expr
}

func prefixed(notes []report.Note, name string) []report.Note {
	if len(notes) == 0 {
		return nil
	}
	out := make([]report.Note, len(notes))
	for i, n := range notes {
		out[i] = report.Note{Code: n.Code, Detail: name + ": " + n.Detail}
	}
	return out
}
