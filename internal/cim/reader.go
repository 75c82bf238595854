package cim

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Supported CIM document major versions: ArcGIS Pro 2.x and 3.x.
const (
	minSupportedMajor = 2
	maxSupportedMajor = 3
)

var (
	// ErrMalformedDocument means the byte stream is not a parseable CIM
	// layer document.
	ErrMalformedDocument = errors.New("malformed source document")
	// ErrUnsupportedVersion means the document declares a schema version
	// outside the supported range.
	ErrUnsupportedVersion = errors.New("unsupported schema version")
	// ErrLayerNotFound means a layer URI has no matching definition.
	ErrLayerNotFound = errors.New("layer definition not found")
)

// Parse reads a .lyrx layer document. Layer definitions keep their full raw
// JSON alongside the decoded fields, and sibling order follows the document.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return ParseBytes(data)
}

// ParseBytes is Parse over an in-memory document.
func ParseBytes(data []byte) (*Document, error) {
	// Decode the envelope with raw layer definitions first so each
	// definition can retain its opaque payload.
	var envelope struct {
		Type             string            `json:"type"`
		Version          string            `json:"version"`
		Layers           []string          `json:"layers"`
		LayerDefinitions []json.RawMessage `json:"layerDefinitions"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if envelope.Type != "CIMLayerDocument" {
		return nil, fmt.Errorf("%w: unexpected document type %q", ErrMalformedDocument, envelope.Type)
	}
	if err := checkVersion(envelope.Version); err != nil {
		return nil, err
	}

	doc := &Document{
		Type:             envelope.Type,
		Version:          envelope.Version,
		Layers:           envelope.Layers,
		LayerDefinitions: make([]LayerDefinition, 0, len(envelope.LayerDefinitions)),
	}
	for i, raw := range envelope.LayerDefinitions {
		var def LayerDefinition
		if err := json.Unmarshal(raw, &def); err != nil {
			return nil, fmt.Errorf("%w: layer definition %d: %v", ErrMalformedDocument, i, err)
		}
		def.Raw = raw
		doc.LayerDefinitions = append(doc.LayerDefinitions, def)
	}
	return doc, nil
}

// LayerDefinition resolves a layer URI to its definition.
func (d *Document) LayerDefinition(uri string) (*LayerDefinition, error) {
	for i := range d.LayerDefinitions {
		if d.LayerDefinitions[i].URI == uri {
			return &d.LayerDefinitions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, uri)
}

// TopLevel returns the definitions of the document's top-level layers in
// draw order.
func (d *Document) TopLevel() ([]*LayerDefinition, error) {
	defs := make([]*LayerDefinition, 0, len(d.Layers))
	for _, uri := range d.Layers {
		def, err := d.LayerDefinition(uri)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// checkVersion validates the "major.minor[.patch]" version declared in the
// document header against the supported major range.
func checkVersion(version string) error {
	if version == "" {
		return fmt.Errorf("%w: missing version", ErrUnsupportedVersion)
	}
	majorStr, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}
	if major < minSupportedMajor || major > maxSupportedMajor {
		return fmt.Errorf("%w: %q (supported: %d.x-%d.x)",
			ErrUnsupportedVersion, version, minSupportedMajor, maxSupportedMajor)
	}
	return nil
}
