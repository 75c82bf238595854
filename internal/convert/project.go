package convert

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/cim"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/qlr"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/report"
)

// ConvertProject reads an APRX-extracted project document and writes one
// .qgs per map. Each top-level layer of each map converts independently and
// gets its own report entry.
func ConvertProject(r io.Reader, sink Sink, opts Options) (*report.Report, error) {
	opts.normalize()
	rep := &report.Report{}

	project, err := cim.ParseProject(r)
	if err != nil {
		rep.Add(documentFailure(err))
		return rep, nil
	}

	names := newUniqueNames()
	zOrder := 0
	for _, projMap := range project.Maps {
		defaultCRS := mapCRS(projMap.CRS)
		if opts.CRSOverride != nil {
			defaultCRS = opts.CRSOverride
		}

		var forest []*model.LayerNode
		for _, layer := range projMap.Layers {
			if opts.StopOnFirstError && rep.HasFailures() {
				log.Warn().Str("layer", layer.Name).Msg("Not started, stopping on first error")
				break
			}
			if opts.SkipGroupLayers && layer.IsGroup {
				continue
			}
			node, entry := convertProjectLayer(layer, defaultCRS, zOrder, opts)
			rep.Add(entry)
			zOrder++
			if node != nil {
				forest = append(forest, node)
			}
		}
		if len(forest) == 0 {
			continue
		}

		fileName := names.next(projMap.Name, ".qgs")
		w, err := sink.Create(fileName)
		if err != nil {
			return rep, err
		}
		writeErr := qlr.WriteProject(w, forest, projMap.Name, defaultCRS)
		if closeErr := w.Close(); writeErr == nil {
			writeErr = closeErr
		}
		if writeErr != nil {
			return rep, writeErr
		}
		log.Info().
			Str("map", projMap.Name).
			Str("file", fileName).
			Int("layers", len(forest)).
			Msg("Project map written")
	}
	return rep, nil
}

// ConvertProjectFile converts an extracted project JSON on disk into outDir.
func ConvertProjectFile(path, outDir string, opts Options) (*report.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()
	return ConvertProject(f, DirSink{Dir: outDir}, opts)
}

// convertProjectLayer builds the canonical node for one project layer,
// recursing through group nodes. Group members that fail degrade the whole
// top-level entry, not the sibling entries.
func convertProjectLayer(layer cim.ProjectLayer, defaultCRS *model.CoordinateReference, zOrder int, opts Options) (*model.LayerNode, report.Entry) {
	entry := report.Entry{Layer: layer.Name, ZOrder: zOrder}

	node, notes, err := buildProjectNode(layer, defaultCRS, zOrder, opts)
	if err != nil {
		log.Error().Err(err).Str("layer", layer.Name).Msg("Layer conversion failed")
		entry.Severity = report.SeverityFailure
		entry.Message = err.Error()
		entry.Notes = failureNotes(err)
		return nil, entry
	}
	if opts.CRSOverride != nil {
		overrideCRS(node, opts.CRSOverride)
	}
	entry.Severity = report.EntrySeverity(notes)
	entry.Notes = notes
	return node, entry
}

func buildProjectNode(layer cim.ProjectLayer, defaultCRS *model.CoordinateReference, zOrder int, opts Options) (*model.LayerNode, []report.Note, error) {
	if layer.IsGroup {
		node := &model.LayerNode{
			Name:    layer.Name,
			Kind:    model.LayerGroup,
			Visible: layer.Visible,
			ZOrder:  zOrder,
		}
		var notes []report.Note
		for i, child := range layer.Children {
			childNode, childNotes, err := buildProjectNode(child, defaultCRS, i, opts)
			if err != nil {
				return nil, nil, fmt.Errorf("group %q: %w", layer.Name, err)
			}
			notes = append(notes, prefixed(childNotes, child.Name)...)
			node.Children = append(node.Children, childNode)
		}
		return node, notes, nil
	}

	doc, err := layer.Document()
	if err != nil {
		return nil, nil, err
	}
	defs, err := doc.TopLevel()
	if err != nil {
		return nil, nil, err
	}
	if len(defs) == 0 {
		return nil, nil, fmt.Errorf("%w: layer %q document has no layers", cim.ErrMalformedDocument, layer.Name)
	}

	asm := &assembler{doc: doc, tbl: opts.Table, defaultCRS: defaultCRS}
	node, notes, err := asm.assemble(defs[0], zOrder)
	if err != nil {
		return nil, nil, err
	}
	node.Visible = layer.Visible
	return node, notes, nil
}

// mapCRS parses the "EPSG:nnnn" authority string carried by extracted maps.
func mapCRS(crs string) *model.CoordinateReference {
	crs = strings.TrimSpace(crs)
	if crs == "" {
		return nil
	}
	return &model.CoordinateReference{AuthID: crs}
}
