package cim

import (
	"encoding/json"
	"fmt"
	"io"
)

// Project is an APRX-extracted project document: the JSON produced by the
// ArcGIS-side extraction stage, one map per entry with its layer tree.
type Project struct {
	ProjectName string       `json:"project_name"`
	Maps        []ProjectMap `json:"maps"`
}

// ProjectMap is one map of a project with its default CRS and layer forest.
type ProjectMap struct {
	Name   string         `json:"name"`
	CRS    string         `json:"crs"` // "EPSG:nnnn", may be empty
	Layers []ProjectLayer `json:"layers"`
}

// ProjectLayer is one node of a project map's layer tree. Non-group nodes
// embed their full CIM layer document.
type ProjectLayer struct {
	Name       string          `json:"name"`
	Visible    bool            `json:"visible"`
	IsGroup    bool            `json:"is_group"`
	Definition json.RawMessage `json:"definition"` // CIMLayerDocument bytes
	Children   []ProjectLayer  `json:"children"`
}

// ParseProject reads an APRX-extracted project JSON document.
func ParseProject(r io.Reader) (*Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if p.ProjectName == "" && len(p.Maps) == 0 {
		return nil, fmt.Errorf("%w: not a project document", ErrMalformedDocument)
	}
	return &p, nil
}

// Document parses the embedded layer document of a non-group project layer.
func (l *ProjectLayer) Document() (*Document, error) {
	if len(l.Definition) == 0 {
		return nil, fmt.Errorf("%w: project layer %q has no definition", ErrMalformedDocument, l.Name)
	}
	return ParseBytes(l.Definition)
}
