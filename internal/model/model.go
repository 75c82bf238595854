// Package model defines the format-neutral layer representation that bridges
// the ArcGIS Pro document schema and the QGIS document schema.
package model

// LayerKind discriminates the node types of a layer tree.
type LayerKind string

const (
	LayerFeature    LayerKind = "feature"
	LayerRaster     LayerKind = "raster"
	LayerGroup      LayerKind = "group"
	LayerAnnotation LayerKind = "annotation"
)

// GeometryType is the geometry class of a layer's data source.
type GeometryType string

const (
	GeometryPoint   GeometryType = "point"
	GeometryLine    GeometryType = "line"
	GeometryPolygon GeometryType = "polygon"
	GeometryRaster  GeometryType = "raster"
	GeometryNone    GeometryType = "none"
)

// SourceKind classifies how a data source is reached.
type SourceKind string

const (
	SourceFile     SourceKind = "file"
	SourceDatabase SourceKind = "database"
	SourceService  SourceKind = "service"
)

// Field is one attribute column of a data source.
type Field struct {
	Name string
	Type string
}

// DataSourceDescriptor locates the data behind a non-group layer.
type DataSourceDescriptor struct {
	Kind     SourceKind
	Path     string
	SubLayer string // dataset name inside a container (file geodatabase)
	Geometry GeometryType
	Fields   []Field
}

// CoordinateReference identifies a CRS either by authority code
// (e.g. "EPSG:4326") or by a well-known-text definition.
type CoordinateReference struct {
	AuthID string
	WKT    string
}

// LayerNode is one node of the canonical layer tree. Group nodes own their
// children exclusively; only non-group nodes carry a data source.
type LayerNode struct {
	ID       string
	Name     string
	Kind     LayerKind
	Children []*LayerNode

	Visible  bool
	MinScale *float64
	MaxScale *float64
	ZOrder   int

	Source    *DataSourceDescriptor
	CRS       *CoordinateReference
	Symbology *SymbologyModel
	Labeling  *LabelingModel

	Title           string
	Abstract        string
	Attribution     string
	DisplayField    string
	DefinitionQuery string
}

// Geometry returns the geometry type of the node's data source, or
// GeometryNone when the node has none.
func (n *LayerNode) Geometry() GeometryType {
	if n.Source == nil {
		return GeometryNone
	}
	return n.Source.Geometry
}

// Leaves returns the non-group descendants of n in document order,
// including n itself when it is not a group.
func (n *LayerNode) Leaves() []*LayerNode {
	if n.Kind != LayerGroup {
		return []*LayerNode{n}
	}
	var out []*LayerNode
	for _, c := range n.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}
