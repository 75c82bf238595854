package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/convert"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/report"
)

// ConvertResponse is the JSON body returned by the convert endpoints: the
// per-layer report plus every emitted document keyed by file name.
type ConvertResponse struct {
	Report *report.Report    `json:"report"`
	Files  map[string]string `json:"files"`
}

// HandleConvert converts a POSTed .lyrx document and returns the emitted
// .qlr/.qgs documents inline. Query parameters: project=1 treats the body as
// APRX-extracted project JSON, crs overrides every layer CRS, workers bounds
// parallel layer conversion.
func (s *Context) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.MaxBody)
	opts := convert.Options{Table: s.Table}
	if crs := r.URL.Query().Get("crs"); crs != "" {
		opts.CRSOverride = &model.CoordinateReference{AuthID: crs}
	}
	if workers := r.URL.Query().Get("workers"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil {
			opts.Workers = n
		}
	}

	sink := newBufferSink()
	var (
		rep *report.Report
		err error
	)
	if r.URL.Query().Get("project") == "1" {
		rep, err = convert.ConvertProject(body, sink, opts)
	} else {
		rep, err = convert.Convert(body, sink, opts)
	}
	if err != nil {
		// Orchestration errors only; per-layer problems are in the report.
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ConvertResponse{
		Report: rep,
		Files:  sink.snapshot(),
	})
}

// HandleHealth answers liveness probes.
func (s *Context) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = io.WriteString(w, "ok\n")
}

// bufferSink collects emitted documents in memory for the response body.
type bufferSink struct {
	mu    sync.Mutex
	files map[string]*bytes.Buffer
}

func newBufferSink() *bufferSink {
	return &bufferSink{files: make(map[string]*bytes.Buffer)}
}

func (s *bufferSink) Create(name string) (io.WriteCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := &bytes.Buffer{}
	s.files[name] = buf
	return nopCloser{buf}, nil
}

func (s *bufferSink) snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.files))
	for name, buf := range s.files {
		out[name] = buf.String()
	}
	return out
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
