package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbologyValidateCategorized(t *testing.T) {
	s := &SymbologyModel{
		Kind: RendererCategorized,
		Rules: []Rule{
			{Value: "a"},
			{Value: "b"},
		},
	}
	assert.NoError(t, s.Validate())

	s.Rules = append(s.Rules, Rule{Value: "a"})
	assert.ErrorIs(t, s.Validate(), ErrInvariantViolation)
}

func TestSymbologyValidateGraduated(t *testing.T) {
	s := &SymbologyModel{
		Kind: RendererGraduated,
		Rules: []Rule{
			{Range: &Range{Lower: 0, Upper: 10}},
			{Range: &Range{Lower: 10, Upper: 25}},
		},
	}
	assert.NoError(t, s.Validate())

	// A gap between ranges breaks contiguity.
	s.Rules[1].Range.Lower = 12
	assert.ErrorIs(t, s.Validate(), ErrInvariantViolation)

	s.Rules[1].Range = &Range{Lower: 10, Upper: 5}
	assert.ErrorIs(t, s.Validate(), ErrInvariantViolation)

	s.Rules[1].Range = nil
	assert.ErrorIs(t, s.Validate(), ErrInvariantViolation)
}

func TestValidateTree(t *testing.T) {
	leaf := &LayerNode{
		Name:   "Roads",
		Kind:   LayerFeature,
		Source: &DataSourceDescriptor{Kind: SourceFile, Path: "roads.shp", Geometry: GeometryLine},
	}
	group := &LayerNode{
		Name:     "Transport",
		Kind:     LayerGroup,
		Children: []*LayerNode{leaf},
	}
	assert.NoError(t, ValidateTree(group))

	// A group with its own data source is a builder defect.
	group.Source = &DataSourceDescriptor{}
	assert.ErrorIs(t, ValidateTree(group), ErrInvariantViolation)
	group.Source = nil

	leaf.Source = nil
	assert.ErrorIs(t, ValidateTree(group), ErrInvariantViolation)
}

func TestLeaves(t *testing.T) {
	a := &LayerNode{Name: "a", Kind: LayerFeature}
	b := &LayerNode{Name: "b", Kind: LayerRaster}
	inner := &LayerNode{Name: "inner", Kind: LayerGroup, Children: []*LayerNode{b}}
	root := &LayerNode{Name: "root", Kind: LayerGroup, Children: []*LayerNode{a, inner}}

	leaves := root.Leaves()
	require.Len(t, leaves, 2)
	assert.Equal(t, "a", leaves[0].Name)
	assert.Equal(t, "b", leaves[1].Name)
}

func TestColorString(t *testing.T) {
	assert.Equal(t, "255,170,0,255", Color{R: 255, G: 170, B: 0, A: 255}.String())
	assert.True(t, Color{A: 255}.Opaque())
	assert.False(t, Color{A: 254}.Opaque())
}

func TestGeometry(t *testing.T) {
	n := &LayerNode{Kind: LayerFeature}
	assert.Equal(t, GeometryNone, n.Geometry())
	n.Source = &DataSourceDescriptor{Geometry: GeometryPolygon}
	assert.Equal(t, GeometryPolygon, n.Geometry())
}
