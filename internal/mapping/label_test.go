package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/cim"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/report"
)

func labelDef(classes ...cim.LabelClass) *cim.LayerDefinition {
	return &cim.LayerDefinition{
		Name:            "Wells",
		LabelClasses:    classes,
		LabelVisibility: true,
	}
}

func TestMapLabelingNone(t *testing.T) {
	labeling, notes := MapLabeling(labelDef())
	assert.Nil(t, labeling)
	assert.Empty(t, notes)
}

func TestMapLabelingFieldExpression(t *testing.T) {
	class := cim.LabelClass{
		Expression: "[WELL_NAME]",
		TextSymbol: &cim.SymbolReference{Symbol: &cim.Symbol{
			Type:           "CIMTextSymbol",
			FontFamilyName: "Tahoma",
			FontStyleName:  "Bold Italic",
			Height:         10,
			Symbol: &cim.Symbol{
				Type: "CIMPolygonSymbol",
				SymbolLayers: []cim.SymbolLayer{
					{Type: "CIMSolidFill", Color: &cim.Color{Type: "CIMRGBColor", Values: []float64{20, 20, 20, 100}}},
				},
			},
		}},
		MaplexPlacement: &cim.MaplexPlacementProperties{
			FeatureType:          "Point",
			PointPlacementMethod: "AroundPoint",
		},
	}

	labeling, notes := MapLabeling(labelDef(class))
	require.NotNil(t, labeling)
	assert.Empty(t, notes)

	assert.True(t, labeling.Enabled)
	assert.Equal(t, "WELL_NAME", labeling.Expression)
	assert.Equal(t, "Tahoma", labeling.Style.FontFamily)
	assert.Equal(t, 10.0, labeling.Style.SizePoints)
	assert.True(t, labeling.Style.Bold)
	assert.True(t, labeling.Style.Italic)
	require.NotNil(t, labeling.Style.Color)
	assert.Equal(t, model.Color{R: 20, G: 20, B: 20, A: 255}, *labeling.Style.Color)
	assert.Equal(t, model.PlacementAroundPoint, labeling.Placement)
}

func TestMapLabelingExtraClassesDropped(t *testing.T) {
	first := cim.LabelClass{Expression: "[A]"}
	second := cim.LabelClass{Name: "secondary", Expression: "[B]"}

	labeling, notes := MapLabeling(labelDef(first, second))
	require.NotNil(t, labeling)
	assert.Equal(t, "A", labeling.Expression)
	require.Len(t, notes, 1)
	assert.Equal(t, report.CodeLabelClassDropped, notes[0].Code)
	assert.Contains(t, notes[0].Detail, "secondary")
}

func TestMapLabelingDefaults(t *testing.T) {
	labeling, _ := MapLabeling(labelDef(cim.LabelClass{Expression: "[NAME]"}))
	require.NotNil(t, labeling)
	assert.Equal(t, "Arial", labeling.Style.FontFamily)
	assert.Equal(t, 8.0, labeling.Style.SizePoints)
}

func TestPlacementMapping(t *testing.T) {
	tests := []struct {
		props cim.MaplexPlacementProperties
		want  model.LabelPlacement
	}{
		{cim.MaplexPlacementProperties{FeatureType: "Point", PointPlacementMethod: "OnTopPoint"}, model.PlacementOverPoint},
		{cim.MaplexPlacementProperties{FeatureType: "Point"}, model.PlacementAroundPoint},
		{cim.MaplexPlacementProperties{FeatureType: "Line", LinePlacementMethod: "OffsetCurvedFromLine"}, model.PlacementCurved},
		{cim.MaplexPlacementProperties{FeatureType: "Line", LinePlacementMethod: "OffsetStraightFromLine"}, model.PlacementParallel},
		{cim.MaplexPlacementProperties{FeatureType: "Line"}, model.PlacementLine},
		{cim.MaplexPlacementProperties{FeatureType: "Polygon", PolygonPlacementMethod: "CurvedInPolygon"}, model.PlacementCurvedPolygon},
		{cim.MaplexPlacementProperties{FeatureType: "Polygon", PolygonPlacementMethod: "HorizontalInPolygon"}, model.PlacementHorizontalPolygon},
		{cim.MaplexPlacementProperties{FeatureType: "Polygon"}, model.PlacementFreePolygon},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, placement(&tt.props))
	}
}
