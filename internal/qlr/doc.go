// Package qlr emits QGIS layer definition (.qlr) and project (.qgs)
// documents from the canonical layer model. Output is deterministic: stable
// element order, derived layer ids, no timestamps.
package qlr

import "encoding/xml"

// LayerDefinitionDoc is the root of a .qlr document.
type LayerDefinitionDoc struct {
	XMLName   xml.Name       `xml:"qlr"`
	TreeGroup LayerTreeGroup `xml:"layer-tree-group"`
	MapLayers []MapLayer     `xml:"maplayers>maplayer"`
}

// ProjectDoc is the root of a .qgs project document.
type ProjectDoc struct {
	XMLName    xml.Name       `xml:"qgis"`
	Version    string         `xml:"version,attr"`
	Name       string         `xml:"projectname,attr"`
	Title      string         `xml:"title"`
	ProjectCRS *SpatialRefSys `xml:"projectCrs>spatialrefsys,omitempty"`
	TreeGroup  LayerTreeGroup `xml:"layer-tree-group"`
	MapLayers  []MapLayer     `xml:"projectlayers>maplayer"`
}

// LayerTreeGroup is a group node of the layer tree.
type LayerTreeGroup struct {
	Name     string           `xml:"name,attr,omitempty"`
	Checked  string           `xml:"checked,attr,omitempty"`
	Expanded string           `xml:"expanded,attr,omitempty"`
	Groups   []LayerTreeGroup `xml:"layer-tree-group"`
	Layers   []LayerTreeLayer `xml:"layer-tree-layer"`
}

// LayerTreeLayer is a leaf node of the layer tree referencing a map layer.
type LayerTreeLayer struct {
	Name     string `xml:"name,attr"`
	ID       string `xml:"id,attr"`
	Source   string `xml:"source,attr"`
	Provider string `xml:"providerKey,attr"`
	Checked  string `xml:"checked,attr"`
	Expanded string `xml:"expanded,attr"`
}

// MapLayer is the full definition of one map layer.
type MapLayer struct {
	Type                 string `xml:"type,attr"`
	Geometry             string `xml:"geometry,attr,omitempty"`
	MinScale             string `xml:"minScale,attr,omitempty"`
	MaxScale             string `xml:"maxScale,attr,omitempty"`
	ScaleBasedVisibility int    `xml:"hasScaleBasedVisibilityFlag,attr"`

	ID           string         `xml:"id"`
	DataSource   string         `xml:"datasource"`
	LayerName    string         `xml:"layername"`
	SRS          *SpatialRefSys `xml:"srs>spatialrefsys,omitempty"`
	Provider     string         `xml:"provider,omitempty"`
	SubsetString string         `xml:"subsetString,omitempty"`
	PreviewExpr  string         `xml:"previewExpression,omitempty"`

	Metadata *ResourceMetadata `xml:"resourceMetadata,omitempty"`

	Renderer *Renderer `xml:"renderer-v2,omitempty"`
	Labeling *Labeling `xml:"labeling,omitempty"`
}

// SpatialRefSys identifies a CRS by authority id and optional WKT.
type SpatialRefSys struct {
	WKT    string `xml:"wkt,omitempty"`
	AuthID string `xml:"authid,omitempty"`
}

// ResourceMetadata carries layer title, abstract and rights.
type ResourceMetadata struct {
	Title    string   `xml:"title,omitempty"`
	Abstract string   `xml:"abstract,omitempty"`
	Rights   []string `xml:"rights,omitempty"`
}

// Renderer is a renderer-v2 element covering the single, categorized,
// graduated and heatmap variants.
type Renderer struct {
	Type string `xml:"type,attr"`
	Attr string `xml:"attr,attr,omitempty"`

	// Heatmap attributes.
	Radius     string `xml:"radius,attr,omitempty"`
	RadiusUnit string `xml:"radius_unit,attr,omitempty"`
	WeightExpr string `xml:"weight_expression,attr,omitempty"`
	Quality    string `xml:"quality,attr,omitempty"`

	Categories []Category  `xml:"categories>category,omitempty"`
	Ranges     []RangeElem `xml:"ranges>range,omitempty"`
	Symbols    []Symbol    `xml:"symbols>symbol,omitempty"`

	SourceSymbol *Symbol    `xml:"source-symbol>symbol,omitempty"`
	ColorRamp    *ColorRamp `xml:"colorramp,omitempty"`
}

// Category is one categorized-renderer rule.
type Category struct {
	Value  string `xml:"value,attr"`
	Symbol string `xml:"symbol,attr"`
	Label  string `xml:"label,attr"`
	Render string `xml:"render,attr"`
}

// RangeElem is one graduated-renderer rule.
type RangeElem struct {
	Lower  string `xml:"lower,attr"`
	Upper  string `xml:"upper,attr"`
	Symbol string `xml:"symbol,attr"`
	Label  string `xml:"label,attr"`
	Render string `xml:"render,attr"`
}

// Symbol is one target symbol with its ordered style layers.
type Symbol struct {
	Type   string        `xml:"type,attr"`
	Name   string        `xml:"name,attr"`
	Alpha  string        `xml:"alpha,attr"`
	Layers []SymbolLayer `xml:"layer"`
}

// SymbolLayer is one style layer of a symbol, a class name plus properties.
type SymbolLayer struct {
	Class string `xml:"class,attr"`
	Props []Prop `xml:"prop"`
}

// Prop is a single k/v style property.
type Prop struct {
	K string `xml:"k,attr"`
	V string `xml:"v,attr"`
}

// ColorRamp is a gradient color ramp.
type ColorRamp struct {
	Type  string `xml:"type,attr"`
	Name  string `xml:"name,attr"`
	Props []Prop `xml:"prop"`
}

// Labeling is the simple labeling element.
type Labeling struct {
	Type     string        `xml:"type,attr"`
	Settings LabelSettings `xml:"settings"`
}

// LabelSettings carries the text style and placement of a labeling rule.
type LabelSettings struct {
	TextStyle LabelTextStyle `xml:"text-style"`
	Placement LabelPlacement `xml:"placement"`
}

// LabelTextStyle mirrors the QGIS text-style element.
type LabelTextStyle struct {
	FieldName     string `xml:"fieldName,attr"`
	FontFamily    string `xml:"fontFamily,attr"`
	FontSize      string `xml:"fontSize,attr"`
	FontSizeUnit  string `xml:"fontSizeUnit,attr"`
	FontWeight    string `xml:"fontWeight,attr"`
	FontItalic    string `xml:"fontItalic,attr"`
	FontUnderline string `xml:"fontUnderline,attr"`
	FontStrikeout string `xml:"fontStrikeout,attr"`
	TextColor     string `xml:"textColor,attr"`
	Enabled       string `xml:"enabled,attr"`
}

// LabelPlacement mirrors the QGIS placement element.
type LabelPlacement struct {
	Placement string `xml:"placement,attr"`
}
