// Package convert drives the conversion pipeline: parse the source document,
// assemble the canonical layer model, map symbology, and emit target
// documents. Per-layer problems never abort the batch; they land in the
// returned report.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/cim"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/mapping"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/qlr"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/report"
)

// Options control one conversion run.
type Options struct {
	// StopOnFirstError skips the remaining top-level layers after the
	// first failure; layers already started run to completion. Skipped
	// layers get no report entry.
	StopOnFirstError bool

	// SkipGroupLayers drops top-level group layers instead of converting
	// their subtree. The zero value converts groups.
	SkipGroupLayers bool

	// CRSOverride forces every layer to the given coordinate reference.
	CRSOverride *model.CoordinateReference

	// Workers bounds parallel top-level layer conversion; values below 1
	// mean sequential.
	Workers int

	// Table is the symbol mapping table; nil uses the built-in table.
	Table *mapping.Table

	// ProjectName names the emitted project document when one is needed.
	ProjectName string
}

func (o *Options) normalize() {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Table == nil {
		o.Table = mapping.Default()
	}
	if o.ProjectName == "" {
		o.ProjectName = "project"
	}
}

type job struct {
	idx      int
	def      *cim.LayerDefinition
	fileName string
}

type result struct {
	entry report.Entry
	node  *model.LayerNode
}

// Convert reads a .lyrx layer document and writes one .qlr per top-level
// layer, plus a .qgs project when the document holds several layers or a
// group. The report is the sole per-layer source of truth; the returned
// error covers orchestration-level failures only.
func Convert(r io.Reader, sink Sink, opts Options) (*report.Report, error) {
	opts.normalize()
	rep := &report.Report{}

	doc, err := cim.Parse(r)
	if err != nil {
		rep.Add(documentFailure(err))
		return rep, nil
	}
	defs, err := doc.TopLevel()
	if err != nil {
		rep.Add(documentFailure(err))
		return rep, nil
	}

	asm := &assembler{doc: doc, tbl: opts.Table, defaultCRS: opts.CRSOverride}
	nodes := convertLayers(asm, defs, sink, opts, rep)

	if len(nodes) > 1 || hasGroup(nodes) {
		if err := writeProject(sink, nodes, opts); err != nil {
			return rep, err
		}
	}
	return rep, nil
}

// ConvertFile converts a source document on disk into outDir.
func ConvertFile(path, outDir string, opts Options) (*report.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()
	return Convert(f, DirSink{Dir: outDir}, opts)
}

// convertLayers runs the per-layer pipeline over all top-level definitions
// with a bounded worker pool and merges the outcomes in document order.
// Output file names are assigned up front so they do not depend on
// completion order.
func convertLayers(asm *assembler, defs []*cim.LayerDefinition, sink Sink, opts Options, rep *report.Report) []*model.LayerNode {
	names := newUniqueNames()
	jobs := make(chan job, len(defs))
	results := make(chan result, len(defs))

	var failed atomic.Bool
	var wg sync.WaitGroup
	for w := 0; w < opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if opts.StopOnFirstError && failed.Load() {
					log.Warn().Str("layer", j.def.Name).Msg("Skipped, stopping on first error")
					continue
				}
				res := convertOne(asm, j, sink, opts)
				if res.entry.Severity == report.SeverityFailure {
					failed.Store(true)
				}
				results <- res
			}
		}()
	}

	queued := 0
	for idx, def := range defs {
		if opts.SkipGroupLayers && def.Type == "CIMGroupLayer" {
			log.Debug().Str("layer", def.Name).Msg("Skipping group layer")
			continue
		}
		jobs <- job{idx: idx, def: def, fileName: names.next(def.Name, ".qlr")}
		queued++
	}
	close(jobs)
	wg.Wait()
	close(results)

	// Single aggregation point: entries merge back into z-order so report
	// ordering is independent of completion order.
	entries := make([]report.Entry, 0, queued)
	nodes := make([]*model.LayerNode, 0, queued)
	byOrder := make(map[int]*model.LayerNode, queued)
	for res := range results {
		entries = append(entries, res.entry)
		if res.node != nil {
			byOrder[res.entry.ZOrder] = res.node
		}
	}
	rep.Merge(entries)
	for _, e := range rep.Entries {
		if n := byOrder[e.ZOrder]; n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// convertOne runs read-assemble-map-write for a single top-level layer.
func convertOne(asm *assembler, j job, sink Sink, opts Options) result {
	entry := report.Entry{
		Layer:   j.def.Name,
		LayerID: j.def.URI,
		ZOrder:  j.idx,
	}

	node, notes, err := asm.assemble(j.def, j.idx)
	if err != nil {
		log.Error().Err(err).Str("layer", j.def.Name).Msg("Layer conversion failed")
		entry.Severity = report.SeverityFailure
		entry.Message = err.Error()
		entry.Notes = failureNotes(err)
		return result{entry: entry}
	}
	if opts.CRSOverride != nil {
		overrideCRS(node, opts.CRSOverride)
	}

	w, err := sink.Create(j.fileName)
	if err != nil {
		entry.Severity = report.SeverityFailure
		entry.Message = err.Error()
		entry.Notes = []report.Note{{Code: report.CodeWriteTargetFailed, Detail: err.Error()}}
		return result{entry: entry}
	}
	writeErr := qlr.WriteLayer(w, node)
	if closeErr := w.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		entry.Severity = report.SeverityFailure
		entry.Message = writeErr.Error()
		entry.Notes = []report.Note{{Code: report.CodeWriteTargetFailed, Detail: writeErr.Error()}}
		return result{entry: entry}
	}

	entry.Severity = report.EntrySeverity(notes)
	entry.Notes = notes
	entry.Message = j.fileName
	log.Info().
		Str("layer", j.def.Name).
		Str("file", j.fileName).
		Str("status", string(entry.Severity)).
		Int("notes", len(notes)).
		Msg("Layer converted")
	return result{entry: entry, node: node}
}

func writeProject(sink Sink, nodes []*model.LayerNode, opts Options) error {
	name := qlr.SanitizeFileName(opts.ProjectName) + ".qgs"
	w, err := sink.Create(name)
	if err != nil {
		return err
	}
	crs := opts.CRSOverride
	if crs == nil {
		for _, n := range nodes {
			if leaves := n.Leaves(); len(leaves) > 0 && leaves[0].CRS != nil {
				crs = leaves[0].CRS
				break
			}
		}
	}
	writeErr := qlr.WriteProject(w, nodes, opts.ProjectName, crs)
	if closeErr := w.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return writeErr
	}
	log.Info().Str("file", name).Int("layers", len(nodes)).Msg("Project written")
	return nil
}

func overrideCRS(n *model.LayerNode, crs *model.CoordinateReference) {
	for _, leaf := range n.Leaves() {
		leaf.CRS = crs
	}
}

func hasGroup(nodes []*model.LayerNode) bool {
	for _, n := range nodes {
		if n.Kind == model.LayerGroup {
			return true
		}
	}
	return false
}

func documentFailure(err error) report.Entry {
	return report.Entry{
		Layer:    "(document)",
		Severity: report.SeverityFailure,
		Message:  err.Error(),
		Notes:    failureNotes(err),
	}
}

// failureNotes classifies a fatal error into the report taxonomy.
func failureNotes(err error) []report.Note {
	code := report.CodeMalformedSourceDocument
	switch {
	case errors.Is(err, cim.ErrUnsupportedVersion):
		code = report.CodeUnsupportedSchemaVersion
	case errors.Is(err, model.ErrInvariantViolation):
		code = report.CodeInvariantViolation
	case errors.Is(err, qlr.ErrWriteTarget):
		code = report.CodeWriteTargetFailed
	}
	return []report.Note{{Code: code, Detail: err.Error()}}
}
