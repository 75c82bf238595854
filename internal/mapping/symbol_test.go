package mapping

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/cim"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/report"
)

func decodeSymbolRef(t *testing.T, data string) *cim.SymbolReference {
	t.Helper()
	var ref cim.SymbolReference
	require.NoError(t, json.Unmarshal([]byte(data), &ref))
	return &ref
}

func TestMapSymbolFillAndStroke(t *testing.T) {
	ref := decodeSymbolRef(t, `{
	  "type": "CIMSymbolReference",
	  "symbol": {
	    "type": "CIMPolygonSymbol",
	    "symbolLayers": [
	      {"type": "CIMSolidStroke", "color": {"type": "CIMRGBColor", "values": [0, 0, 0, 100]}, "width": 0.4, "capStyle": "Butt", "joinStyle": "Miter"},
	      {"type": "CIMSolidFill", "color": {"type": "CIMRGBColor", "values": [200, 220, 240, 100]}}
	    ]
	  }
	}`)

	desc, notes := MapSymbol(ref, Default())
	assert.Empty(t, notes)

	require.NotNil(t, desc.FillColor)
	assert.Equal(t, model.Color{R: 200, G: 220, B: 240, A: 255}, *desc.FillColor)
	require.NotNil(t, desc.StrokeColor)
	assert.Equal(t, 0.4, *desc.StrokeWidth)
	assert.Equal(t, "flat", desc.LineCap)
	assert.Equal(t, "miter", desc.LineJoin)
}

func TestMapSymbolFlattensStackedLayers(t *testing.T) {
	// Two strokes stacked: the topmost wins, the one below is dropped and
	// accounted for.
	ref := decodeSymbolRef(t, `{
	  "symbol": {
	    "type": "CIMLineSymbol",
	    "symbolLayers": [
	      {"type": "CIMSolidStroke", "color": {"type": "CIMRGBColor", "values": [255, 0, 0, 100]}, "width": 2},
	      {"type": "CIMSolidStroke", "color": {"type": "CIMRGBColor", "values": [0, 0, 0, 100]}, "width": 4}
	    ]
	  }
	}`)

	desc, notes := MapSymbol(ref, Default())
	assert.Equal(t, uint8(255), desc.StrokeColor.R)
	assert.Equal(t, 2.0, *desc.StrokeWidth)
	require.Len(t, notes, 1)
	assert.Equal(t, report.CodeSymbolAttributeUnsupported, notes[0].Code)
}

func TestMapSymbolDisabledLayersSkipped(t *testing.T) {
	ref := decodeSymbolRef(t, `{
	  "symbol": {
	    "type": "CIMLineSymbol",
	    "symbolLayers": [
	      {"type": "CIMSolidStroke", "enable": false, "color": {"type": "CIMRGBColor", "values": [255, 0, 0, 100]}, "width": 2},
	      {"type": "CIMSolidStroke", "color": {"type": "CIMRGBColor", "values": [0, 0, 255, 100]}, "width": 1}
	    ]
	  }
	}`)

	desc, notes := MapSymbol(ref, Default())
	assert.Empty(t, notes)
	assert.Equal(t, uint8(0), desc.StrokeColor.R)
	assert.Equal(t, uint8(255), desc.StrokeColor.B)
}

func TestMapSymbolDashTemplate(t *testing.T) {
	ref := decodeSymbolRef(t, `{
	  "symbol": {
	    "type": "CIMLineSymbol",
	    "symbolLayers": [
	      {"type": "CIMSolidStroke", "width": 1, "effects": [{"type": "CIMGeometricEffectDashes", "dashTemplate": [6, 3]}]}
	    ]
	  }
	}`)

	desc, notes := MapSymbol(ref, Default())
	assert.Empty(t, notes)
	assert.Equal(t, []float64{6, 3}, desc.DashPattern)
}

func TestMapSymbolUnsupportedDashTemplate(t *testing.T) {
	// A template with a zero entry cannot be expressed; the stroke renders
	// solid and the loss is recorded.
	ref := decodeSymbolRef(t, `{
	  "symbol": {
	    "type": "CIMLineSymbol",
	    "symbolLayers": [
	      {"type": "CIMSolidStroke", "width": 1, "effects": [{"type": "CIMGeometricEffectDashes", "dashTemplate": [6, 0]}]}
	    ]
	  }
	}`)

	desc, notes := MapSymbol(ref, Default())
	assert.Nil(t, desc.DashPattern)
	require.Len(t, notes, 1)
	assert.Equal(t, report.CodeSymbolAttributeUnsupported, notes[0].Code)
	assert.Contains(t, notes[0].Detail, "dash template")
}

func TestMapSymbolVectorMarker(t *testing.T) {
	ref := decodeSymbolRef(t, `{
	  "symbol": {
	    "type": "CIMPointSymbol",
	    "symbolLayers": [
	      {
	        "type": "CIMVectorMarker",
	        "size": 8,
	        "rotation": 45,
	        "markerGraphics": [
	          {
	            "type": "CIMMarkerGraphic",
	            "symbol": {
	              "type": "CIMPolygonSymbol",
	              "symbolLayers": [
	                {"type": "CIMSolidStroke", "color": {"type": "CIMRGBColor", "values": [0, 0, 0, 100]}, "width": 0.5},
	                {"type": "CIMSolidFill", "color": {"type": "CIMRGBColor", "values": [255, 170, 0, 100]}}
	              ]
	            }
	          }
	        ]
	      }
	    ]
	  }
	}`)

	desc, notes := MapSymbol(ref, Default())
	assert.Empty(t, notes)
	assert.Equal(t, model.MarkerCircle, desc.MarkerShape)
	assert.Equal(t, 8.0, *desc.MarkerSize)
	assert.Equal(t, 45.0, *desc.MarkerAngle)
	assert.Equal(t, model.Color{R: 255, G: 170, B: 0, A: 255}, *desc.FillColor)
	assert.Equal(t, model.Color{A: 255}, *desc.StrokeColor)
}

func TestMapSymbolMarkerShapeFromPrimitiveName(t *testing.T) {
	ref := decodeSymbolRef(t, `{
	  "symbol": {
	    "type": "CIMPointSymbol",
	    "symbolLayers": [
	      {
	        "type": "CIMVectorMarker",
	        "size": 6,
	        "markerGraphics": [
	          {
	            "type": "CIMMarkerGraphic",
	            "primitiveName": "Square",
	            "symbol": {
	              "type": "CIMPolygonSymbol",
	              "symbolLayers": [
	                {"type": "CIMSolidFill", "color": {"type": "CIMRGBColor", "values": [0, 0, 255, 100]}}
	              ]
	            }
	          }
	        ]
	      }
	    ]
	  }
	}`)

	desc, notes := MapSymbol(ref, Default())
	assert.Empty(t, notes)
	assert.Equal(t, model.MarkerSquare, desc.MarkerShape)
}

func TestMapSymbolUnknownPrimitiveNameFallsBack(t *testing.T) {
	ref := decodeSymbolRef(t, `{
	  "symbol": {
	    "type": "CIMPointSymbol",
	    "symbolLayers": [
	      {
	        "type": "CIMVectorMarker",
	        "size": 6,
	        "markerGraphics": [
	          {"type": "CIMMarkerGraphic", "primitiveName": "Lightning"}
	        ]
	      }
	    ]
	  }
	}`)

	desc, notes := MapSymbol(ref, Default())
	assert.Equal(t, model.MarkerCircle, desc.MarkerShape)
	require.Len(t, notes, 1)
	assert.Equal(t, report.CodeSymbolAttributeUnsupported, notes[0].Code)
	assert.Contains(t, notes[0].Detail, "Lightning")
}

func TestMapSymbolCharacterMarkerApproximated(t *testing.T) {
	ref := decodeSymbolRef(t, `{
	  "symbol": {
	    "type": "CIMPointSymbol",
	    "symbolLayers": [
	      {"type": "CIMCharacterMarker", "size": 10, "fontFamilyName": "ESRI Default Marker", "characterIndex": 33,
	       "color": {"type": "CIMRGBColor", "values": [0, 100, 0, 100]}}
	    ]
	  }
	}`)

	desc, notes := MapSymbol(ref, Default())
	assert.Equal(t, model.MarkerCircle, desc.MarkerShape)
	assert.Equal(t, 10.0, *desc.MarkerSize)
	require.Len(t, notes, 1)
	assert.Equal(t, report.CodeSymbolAttributeUnsupported, notes[0].Code)
	assert.Contains(t, notes[0].Detail, "character marker")
}

func TestMapSymbolUnknownLayerKind(t *testing.T) {
	ref := decodeSymbolRef(t, `{
	  "symbol": {
	    "type": "CIMLineSymbol",
	    "symbolLayers": [
	      {"type": "CIMHatchFill"},
	      {"type": "CIMSolidStroke", "width": 1}
	    ]
	  }
	}`)

	desc, notes := MapSymbol(ref, Default())
	require.NotNil(t, desc.StrokeWidth)
	require.Len(t, notes, 1)
	assert.Equal(t, report.CodeSymbolAttributeUnsupported, notes[0].Code)
	assert.Contains(t, notes[0].Detail, "CIMHatchFill")
}

func TestMapSymbolUnitConversion(t *testing.T) {
	ref := decodeSymbolRef(t, `{
	  "symbol": {
	    "type": "CIMLineSymbol",
	    "symbolLayers": [
	      {"type": "CIMSolidStroke", "width": 96, "unit": "pixel"}
	    ]
	  }
	}`)

	desc, notes := MapSymbol(ref, Default())
	require.NotNil(t, desc.StrokeWidth)
	assert.InDelta(t, 72.0, *desc.StrokeWidth, 1e-9)
	require.Len(t, notes, 1)
	assert.Equal(t, report.CodeUnitApproximated, notes[0].Code)
}

func TestMapSymbolNil(t *testing.T) {
	desc, notes := MapSymbol(nil, Default())
	assert.Empty(t, notes)
	assert.Nil(t, desc.FillColor)
	assert.Nil(t, desc.StrokeColor)
}
