// Command lyrxinfo summarizes an ArcGIS Pro layer document: layer tree,
// renderer kinds, data sources and coordinate references, as JSON or YAML.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/cim"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input  string `short:"i" long:"in" description:"Input file path (.lyrx). Reads from stdin if empty"`
	Output string `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
	Format string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
}

type layerInfo struct {
	Name     string      `json:"name" yaml:"name"`
	Type     string      `json:"type" yaml:"type"`
	Renderer string      `json:"renderer,omitempty" yaml:"renderer,omitempty"`
	Source   string      `json:"source,omitempty" yaml:"source,omitempty"`
	CRS      string      `json:"crs,omitempty" yaml:"crs,omitempty"`
	Labels   int         `json:"label_classes,omitempty" yaml:"label_classes,omitempty"`
	Children []layerInfo `json:"children,omitempty" yaml:"children,omitempty"`
}

type docInfo struct {
	Version string      `json:"version" yaml:"version"`
	Layers  []layerInfo `json:"layers" yaml:"layers"`
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

	var inputData []byte
	var err error

	if opts.Input != "" {
		inputData, err = os.ReadFile(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
	} else {
		inputData, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
	}

	doc, err := cim.ParseBytes(inputData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing document: %v\n", err)
		os.Exit(1)
	}
	defs, err := doc.TopLevel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving layers: %v\n", err)
		os.Exit(1)
	}

	info := docInfo{Version: doc.Version}
	for _, def := range defs {
		info.Layers = append(info.Layers, describe(doc, def))
	}

	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = yaml.Marshal(info)
	} else {
		outputData, err = json.MarshalIndent(info, "", "  ")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Summarized %d top-level layers to %s (format: %s)\n",
			len(info.Layers), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}

// describe renders one layer definition, resolving group children by URI.
func describe(doc *cim.Document, def *cim.LayerDefinition) layerInfo {
	info := layerInfo{
		Name:     def.Name,
		Type:     def.Type,
		Renderer: cim.RendererType(def.Renderer),
		Labels:   len(def.LabelClasses),
	}

	conn := def.DataConnection
	if def.FeatureTable != nil && def.FeatureTable.DataConnection != nil {
		conn = def.FeatureTable.DataConnection
	}
	if conn != nil {
		info.Source = conn.WorkspaceFactory
		if conn.Dataset != "" {
			info.Source += ":" + conn.Dataset
		}
	}
	if sr := def.SpatialReference; sr != nil {
		switch {
		case sr.LatestWKID != 0:
			info.CRS = fmt.Sprintf("EPSG:%d", sr.LatestWKID)
		case sr.WKID != 0:
			info.CRS = fmt.Sprintf("EPSG:%d", sr.WKID)
		case sr.WKT != "":
			info.CRS = "wkt"
		}
	}

	for _, uri := range def.Layers {
		child, err := doc.LayerDefinition(uri)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping unresolved child layer %s\n", uri)
			continue
		}
		info.Children = append(info.Children, describe(doc, child))
	}
	return info
}
