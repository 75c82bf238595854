package qlr

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
)

// ErrWriteTarget wraps sink I/O failures. Data-shape problems never surface
// here; the model is validated before it reaches the writer.
var ErrWriteTarget = errors.New("write target failed")

const docType = "<!DOCTYPE qgis-layer-definition>\n"

// idNamespace seeds derived layer ids so identical input yields identical
// output.
var idNamespace = uuid.MustParse("8b405afe-7a0f-4e06-91c3-0000a7c0de01")

// WriteLayer emits one .qlr document for a top-level layer (or group).
func WriteLayer(w io.Writer, n *model.LayerNode) error {
	doc := buildLayerDoc(n)
	return write(w, docType, doc)
}

// WriteProject emits a .qgs project document for a layer forest.
func WriteProject(w io.Writer, forest []*model.LayerNode, name string, crs *model.CoordinateReference) error {
	doc := ProjectDoc{
		Version: "3.28",
		Name:    name,
		Title:   name,
	}
	if crs != nil {
		doc.ProjectCRS = &SpatialRefSys{AuthID: crs.AuthID, WKT: crs.WKT}
	}
	for _, n := range forest {
		appendTreeNode(&doc.TreeGroup, n)
		doc.MapLayers = append(doc.MapLayers, buildMapLayers(n)...)
	}
	return write(w, "", doc)
}

func write(w io.Writer, prolog string, doc any) error {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		// Marshalling the document structs cannot fail for data reasons.
		return fmt.Errorf("%w: %v", ErrWriteTarget, err)
	}
	if _, err := io.WriteString(w, xml.Header+prolog); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteTarget, err)
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteTarget, err)
	}
	return nil
}

func buildLayerDoc(n *model.LayerNode) LayerDefinitionDoc {
	var doc LayerDefinitionDoc
	appendTreeNode(&doc.TreeGroup, n)
	doc.MapLayers = buildMapLayers(n)
	return doc
}

func appendTreeNode(group *LayerTreeGroup, n *model.LayerNode) {
	if n.Kind == model.LayerGroup {
		child := LayerTreeGroup{
			Name:     n.Name,
			Checked:  checked(n.Visible),
			Expanded: "1",
		}
		for _, c := range n.Children {
			appendTreeNode(&child, c)
		}
		group.Groups = append(group.Groups, child)
		return
	}
	group.Layers = append(group.Layers, LayerTreeLayer{
		Name:     n.Name,
		ID:       LayerID(n),
		Source:   dataSourceURI(n.Source),
		Provider: provider(n),
		Checked:  checked(n.Visible),
		Expanded: "1",
	})
}

func buildMapLayers(n *model.LayerNode) []MapLayer {
	var out []MapLayer
	for _, leaf := range n.Leaves() {
		out = append(out, buildMapLayer(leaf))
	}
	return out
}

func buildMapLayer(n *model.LayerNode) MapLayer {
	ml := MapLayer{
		Type:       layerType(n),
		Geometry:   geometryName(n),
		ID:         LayerID(n),
		DataSource: dataSourceURI(n.Source),
		LayerName:  n.Name,
		Provider:   provider(n),
	}

	if n.MinScale != nil || n.MaxScale != nil {
		ml.ScaleBasedVisibility = 1
		if n.MinScale != nil {
			ml.MinScale = num(*n.MinScale)
		}
		if n.MaxScale != nil {
			ml.MaxScale = num(*n.MaxScale)
		}
	}

	if n.CRS != nil {
		ml.SRS = &SpatialRefSys{AuthID: n.CRS.AuthID, WKT: n.CRS.WKT}
	}
	if n.DefinitionQuery != "" {
		ml.SubsetString = n.DefinitionQuery
	}
	if n.DisplayField != "" {
		ml.PreviewExpr = quoteField(n.DisplayField)
	}
	if n.Title != "" || n.Abstract != "" || n.Attribution != "" {
		ml.Metadata = &ResourceMetadata{Title: n.Title, Abstract: n.Abstract}
		if n.Attribution != "" {
			ml.Metadata.Rights = []string{n.Attribution}
		}
	}

	if n.Symbology != nil {
		ml.Renderer = buildRenderer(n.Symbology, n.Geometry())
	}
	if n.Labeling != nil {
		ml.Labeling = buildLabeling(n.Labeling)
	}
	return ml
}

// LayerID derives the target layer id from the layer's identity, keeping
// output byte-identical across runs. QGIS ids are layer name plus a UUID
// with underscores for the separator characters.
func LayerID(n *model.LayerNode) string {
	seed := n.Name
	if n.Source != nil {
		seed += "|" + n.Source.Path + "|" + n.Source.SubLayer
	}
	id := uuid.NewSHA1(idNamespace, []byte(seed))
	return sanitizeID(n.Name) + "_" + strings.ReplaceAll(id.String(), "-", "_")
}

func layerType(n *model.LayerNode) string {
	if n.Kind == model.LayerRaster {
		return "raster"
	}
	return "vector"
}

func geometryName(n *model.LayerNode) string {
	switch n.Geometry() {
	case model.GeometryPoint:
		return "Point"
	case model.GeometryLine:
		return "Line"
	case model.GeometryPolygon:
		return "Polygon"
	default:
		// Heatmaps render point data even when the source does not say so.
		if n.Symbology != nil && n.Symbology.Kind == model.RendererHeatmap {
			return "Point"
		}
		return ""
	}
}

func provider(n *model.LayerNode) string {
	if n.Kind == model.LayerRaster {
		return "gdal"
	}
	return "ogr"
}

// dataSourceURI renders the target data source string: plain path for files,
// "path|layername=dataset" for container formats.
func dataSourceURI(src *model.DataSourceDescriptor) string {
	if src == nil {
		return ""
	}
	if src.SubLayer != "" {
		return src.Path + "|layername=" + src.SubLayer
	}
	return src.Path
}

func checked(visible bool) string {
	if visible {
		return "Qt::Checked"
	}
	return "Qt::Unchecked"
}

func quoteField(field string) string {
	return `"` + field + `"`
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

var idSanitizer = strings.NewReplacer(" ", "_", "-", "_", ".", "_")

func sanitizeID(name string) string {
	return idSanitizer.Replace(name)
}

// SanitizeFileName reduces a layer name to the target filesystem's legal
// character set for deriving output file names.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20, strings.ContainsRune(`\/:*?"<>|`, r):
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	out := strings.Trim(b.String(), " .")
	if out == "" {
		return "layer"
	}
	return out
}
