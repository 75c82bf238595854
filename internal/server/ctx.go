// Package server exposes the conversion pipeline over HTTP.
package server

import (
	"github.com/rs/zerolog/log"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/mapping"
)

const defaultMaxBody = 32 << 20 // 32 MiB request body cap

// Context holds dependencies for request handlers.
type Context struct {
	Table   *mapping.Table
	MaxBody int64
}

// NewContext initializes the handler context with the given mapping table;
// nil selects the built-in table.
func NewContext(tbl *mapping.Table, maxBody int64) *Context {
	if tbl == nil {
		tbl = mapping.Default()
	}
	if maxBody <= 0 {
		maxBody = defaultMaxBody
	}
	log.Info().Int64("max_body", maxBody).Msg("Initializing server context")
	return &Context{Table: tbl, MaxBody: maxBody}
}
