// Package cim parses ArcGIS Pro CIM layer documents (.lyrx JSON) and
// APRX-extracted project JSON into an in-memory object graph mirroring the
// native schema. Fields the converter does not understand are retained as raw
// payloads so minor schema drift never hard-fails a parse.
package cim

import "encoding/json"

// Document is the root of a .lyrx layer document.
type Document struct {
	Type    string `json:"type"` // CIMLayerDocument
	Version string `json:"version"`

	// Layers lists the URIs of the document's top-level layers in draw
	// order; LayerDefinitions holds the definition of every layer,
	// including group children.
	Layers           []string          `json:"layers"`
	LayerDefinitions []LayerDefinition `json:"layerDefinitions"`
}

// LayerDefinition is one CIM layer node. The renderer is kept raw and
// resolved later through the symbol mapping table.
type LayerDefinition struct {
	Type       string `json:"type"` // CIMFeatureLayer, CIMGroupLayer, ...
	Name       string `json:"name"`
	URI        string `json:"uRI"`
	Visibility bool   `json:"visibility"`

	MinScale float64 `json:"minScale"`
	MaxScale float64 `json:"maxScale"`

	ScaleVisibilityOptions *ScaleVisibilityOptions `json:"layerScaleVisibilityOptions"`

	Description string `json:"description"`
	Attribution string `json:"attribution"`

	FeatureTable   *FeatureTable   `json:"featureTable"`
	DataConnection *DataConnection `json:"dataConnection"` // raster layers

	Renderer json.RawMessage `json:"renderer"`

	LabelClasses    []LabelClass `json:"labelClasses"`
	LabelVisibility bool         `json:"labelVisibility"`

	// Layers lists child URIs for CIMGroupLayer nodes.
	Layers []string `json:"layers"`

	SpatialReference *SpatialReference `json:"spatialReference"`

	// Raw is the complete definition as encountered, including fields this
	// struct does not model. Never inspected, never translated.
	Raw json.RawMessage `json:"-"`
}

// ScaleVisibilityOptions mirrors CIMLayerScaleVisibilityOptions.
type ScaleVisibilityOptions struct {
	Type                 string `json:"type"`
	ShowLayerAtAllScales bool   `json:"showLayerAtAllScales"`
}

// FeatureTable mirrors CIMFeatureTable.
type FeatureTable struct {
	Type                 string             `json:"type"`
	DataConnection       *DataConnection    `json:"dataConnection"`
	DisplayField         string             `json:"displayField"`
	DefinitionExpression string             `json:"definitionExpression"`
	FieldDescriptions    []FieldDescription `json:"fieldDescriptions"`
}

// FieldDescription is one attribute column declared by the feature table.
type FieldDescription struct {
	FieldName string `json:"fieldName"`
	Alias     string `json:"alias"`
	FieldType string `json:"fieldType"`
}

// DataConnection mirrors CIMStandardDataConnection and friends.
type DataConnection struct {
	Type                      string `json:"type"`
	WorkspaceFactory          string `json:"workspaceFactory"` // FileGDB, Shapefile, Raster, SDE
	WorkspaceConnectionString string `json:"workspaceConnectionString"`
	Dataset                   string `json:"dataset"`
	DatasetType               string `json:"datasetType"` // esriDTFeatureClass, ...
}

// SpatialReference carries a layer- or map-level CRS.
type SpatialReference struct {
	WKID       int    `json:"wkid"`
	LatestWKID int    `json:"latestWkid"`
	WKT        string `json:"wkt"`
}

// LabelClass mirrors CIMLabelClass.
type LabelClass struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Expression string `json:"expression"`
	Visibility bool   `json:"visibility"`

	TextSymbol *SymbolReference `json:"textSymbol"`

	MaplexPlacement *MaplexPlacementProperties `json:"maplexLabelPlacementProperties"`
}

// MaplexPlacementProperties mirrors CIMMaplexLabelPlacementProperties.
type MaplexPlacementProperties struct {
	FeatureType            string `json:"featureType"` // Point, Line, Polygon
	PointPlacementMethod   string `json:"pointPlacementMethod"`
	LinePlacementMethod    string `json:"linePlacementMethod"`
	PolygonPlacementMethod string `json:"polygonPlacementMethod"`
}
