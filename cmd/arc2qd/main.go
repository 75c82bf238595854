// Command arc2qd serves the layer conversion pipeline over HTTP: POST a
// .lyrx or project JSON document, get the emitted QGIS documents and the
// conversion report back as JSON.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/logger"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/mapping"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Addr         string `short:"a" long:"addr"          env:"LISTEN_ADDRESS" description:"Address to listen on" default:"0.0.0.0"`
	Port         int    `short:"p" long:"port"          env:"LISTEN_PORT"    description:"Port to listen on"    default:"8080"`
	MappingTable string `short:"m" long:"mapping-table" env:"MAPPING_TABLE"  description:"YAML symbol mapping table extending the built-in one"`
	MaxBody      int64  `short:"b" long:"max-body"      env:"MAX_BODY"       description:"Request body size limit in bytes" default:"33554432"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	var tbl *mapping.Table
	if opts.MappingTable != "" {
		var err error
		tbl, err = mapping.Load(opts.MappingTable)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load mapping table")
		}
	}

	srvCtx := server.NewContext(tbl, opts.MaxBody)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/convert", srvCtx.HandleConvert)
	mux.HandleFunc("/healthz", srvCtx.HandleHealth)

	handler := server.RequestLogger(mux)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Msg("Conversion server started")

	if err := http.ListenAndServe(listenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
