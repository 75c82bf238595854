package qlr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
)

func ptr[T any](v T) *T { return &v }

func roadsNode() *model.LayerNode {
	return &model.LayerNode{
		Name:    "Roads",
		Kind:    model.LayerFeature,
		Visible: true,
		Source: &model.DataSourceDescriptor{
			Kind:     model.SourceFile,
			Path:     "data/base.gdb",
			SubLayer: "roads",
			Geometry: model.GeometryLine,
		},
		CRS: &model.CoordinateReference{AuthID: "EPSG:4326"},
		Symbology: &model.SymbologyModel{
			Kind:  model.RendererCategorized,
			Field: "road_class",
			Rules: []model.Rule{
				{Value: "highway", Label: "Highway", Symbol: model.SymbolDescriptor{
					StrokeColor: &model.Color{R: 230, G: 50, B: 20, A: 255},
					StrokeWidth: ptr(1.4),
				}},
				{Value: "street", Label: "Street", Symbol: model.SymbolDescriptor{
					StrokeColor: &model.Color{R: 120, G: 120, B: 120, A: 255},
					StrokeWidth: ptr(0.7),
				}},
				{Value: "path", Label: "Path", Symbol: model.SymbolDescriptor{
					StrokeColor: &model.Color{R: 80, G: 140, B: 60, A: 255},
					DashPattern: []float64{4, 2},
				}},
			},
		},
	}
}

func TestWriteLayerDeterministic(t *testing.T) {
	n := roadsNode()

	var a, b bytes.Buffer
	require.NoError(t, WriteLayer(&a, n))
	require.NoError(t, WriteLayer(&b, n))

	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestWriteLayerCategorized(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLayer(&buf, roadsNode()))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "<!DOCTYPE qgis-layer-definition>")
	assert.Contains(t, out, `type="categorizedSymbol"`)
	assert.Contains(t, out, `attr="road_class"`)
	assert.Contains(t, out, `value="highway"`)
	assert.Contains(t, out, `data/base.gdb|layername=roads`)
	assert.Contains(t, out, "<authid>EPSG:4326</authid>")
	assert.Contains(t, out, `v="230,50,20,255"`)
	// third rule carries a custom dash pattern
	assert.Contains(t, out, `k="use_custom_dash" v="1"`)
	assert.Contains(t, out, `k="customdash" v="4;2"`)
}

func TestWriteLayerDefaults(t *testing.T) {
	n := &model.LayerNode{
		Name:    "Parcels",
		Kind:    model.LayerFeature,
		Visible: true,
		Source: &model.DataSourceDescriptor{
			Kind:     model.SourceFile,
			Path:     "parcels.shp",
			Geometry: model.GeometryPolygon,
		},
		Symbology: &model.SymbologyModel{Kind: model.RendererSingle},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLayer(&buf, n))
	out := buf.String()

	assert.Contains(t, out, `type="singleSymbol"`)
	assert.Contains(t, out, `k="color" v="128,128,128,255"`)
	assert.Contains(t, out, `k="outline_color" v="35,35,35,255"`)
	assert.Contains(t, out, `k="outline_width" v="0.5"`)
}

func TestWriteLayerScaleAndQuery(t *testing.T) {
	n := roadsNode()
	n.MinScale = ptr(50000.0)
	n.MaxScale = ptr(1000.0)
	n.DefinitionQuery = `"road_class" <> 'path'`
	n.DisplayField = "name"

	var buf bytes.Buffer
	require.NoError(t, WriteLayer(&buf, n))
	out := buf.String()

	assert.Contains(t, out, `hasScaleBasedVisibilityFlag="1"`)
	assert.Contains(t, out, `minScale="50000"`)
	assert.Contains(t, out, `maxScale="1000"`)
	assert.Contains(t, out, "&#34;road_class&#34; &lt;&gt; &#39;path&#39;")
	assert.Contains(t, out, "&#34;name&#34;")
}

func TestWriteLayerGroup(t *testing.T) {
	leaf := roadsNode()
	group := &model.LayerNode{
		Name:     "Transport",
		Kind:     model.LayerGroup,
		Visible:  true,
		Children: []*model.LayerNode{leaf},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLayer(&buf, group))
	out := buf.String()

	assert.Contains(t, out, `name="Transport"`)
	assert.Contains(t, out, `name="Roads"`)
	// exactly one maplayer, for the single leaf
	assert.Equal(t, 1, strings.Count(out, "<maplayer "))
}

func TestWriteProject(t *testing.T) {
	var buf bytes.Buffer
	crs := &model.CoordinateReference{AuthID: "EPSG:3857"}
	require.NoError(t, WriteProject(&buf, []*model.LayerNode{roadsNode()}, "basemap", crs))
	out := buf.String()

	assert.Contains(t, out, "<qgis")
	assert.Contains(t, out, `projectname="basemap"`)
	assert.Contains(t, out, "<authid>EPSG:3857</authid>")
	assert.NotContains(t, out, "DOCTYPE qgis-layer-definition")
}

func TestLayerIDStable(t *testing.T) {
	a := roadsNode()
	b := roadsNode()
	assert.Equal(t, LayerID(a), LayerID(b))
	assert.True(t, strings.HasPrefix(LayerID(a), "Roads_"))
	assert.NotContains(t, LayerID(a), "-")

	b.Source.Path = "other/base.gdb"
	assert.NotEqual(t, LayerID(a), LayerID(b))
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Roads", "Roads"},
		{`a/b\c:d`, "a_b_c_d"},
		{"trailing. ", "trailing"},
		{`***`, "___"},
		{"", "layer"},
		{". .", "layer"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeFileName(tc.in), "input %q", tc.in)
	}
}

func TestHeatmapRenderer(t *testing.T) {
	n := &model.LayerNode{
		Name:    "Incidents",
		Kind:    model.LayerFeature,
		Visible: true,
		Source: &model.DataSourceDescriptor{
			Kind:     model.SourceFile,
			Path:     "incidents.shp",
			Geometry: model.GeometryPoint,
		},
		Symbology: &model.SymbologyModel{
			Kind: model.RendererHeatmap,
			Heatmap: &model.HeatmapParams{
				RadiusPoints: 20,
				WeightField:  "severity",
				RampStart:    model.Color{R: 255, G: 255, B: 255, A: 0},
				RampEnd:      model.Color{R: 255, A: 255},
				Quality:      3,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLayer(&buf, n))
	out := buf.String()

	assert.Contains(t, out, `type="heatmapRenderer"`)
	assert.Contains(t, out, `radius="20"`)
	assert.Contains(t, out, "&#34;severity&#34;")
	assert.Contains(t, out, `k="color2" v="255,0,0,255"`)
}

func TestHeatmapGeometryDefaultsToPoint(t *testing.T) {
	// A heatmap layer whose source carries no geometry still declares one,
	// otherwise the renderer is rejected on load.
	n := &model.LayerNode{
		Name:    "Incidents",
		Kind:    model.LayerFeature,
		Visible: true,
		Source: &model.DataSourceDescriptor{
			Kind: model.SourceFile,
			Path: "incidents.gpkg",
		},
		Symbology: &model.SymbologyModel{
			Kind:    model.RendererHeatmap,
			Heatmap: &model.HeatmapParams{RadiusPoints: 10, Quality: 3},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLayer(&buf, n))
	assert.Contains(t, buf.String(), `geometry="Point"`)
}
