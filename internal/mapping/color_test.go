package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/cim"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
)

func TestParseColorRGB(t *testing.T) {
	c := ParseColor(&cim.Color{Type: "CIMRGBColor", Values: []float64{169, 0, 230, 100}})
	assert.Equal(t, model.Color{R: 169, G: 0, B: 230, A: 255}, c)

	c = ParseColor(&cim.Color{Type: "CIMRGBColor", Values: []float64{255, 255, 255, 50}})
	assert.Equal(t, model.Color{R: 255, G: 255, B: 255, A: 128}, c)
}

func TestParseColorHSV(t *testing.T) {
	// Pure red and pure green in HSV degrees/percent form.
	c := ParseColor(&cim.Color{Type: "CIMHSVColor", Values: []float64{0, 100, 100, 100}})
	assert.Equal(t, model.Color{R: 255, G: 0, B: 0, A: 255}, c)

	c = ParseColor(&cim.Color{Type: "CIMHSVColor", Values: []float64{120, 100, 100, 100}})
	assert.Equal(t, model.Color{R: 0, G: 255, B: 0, A: 255}, c)
}

func TestParseColorLAB(t *testing.T) {
	// L=100 a=0 b=0 is white.
	c := ParseColor(&cim.Color{Type: "CIMLABColor", Values: []float64{100, 0, 0, 100}})
	assert.Equal(t, model.Color{R: 255, G: 255, B: 255, A: 255}, c)

	// L=0 is black.
	c = ParseColor(&cim.Color{Type: "CIMLABColor", Values: []float64{0, 0, 0, 100}})
	assert.Equal(t, model.Color{R: 0, G: 0, B: 0, A: 255}, c)
}

func TestParseColorBareValues(t *testing.T) {
	c := ParseColor(&cim.Color{Values: []float64{10, 20, 30}})
	assert.Equal(t, model.Color{R: 10, G: 20, B: 30, A: 255}, c)

	c = ParseColor(&cim.Color{Values: []float64{10, 20, 30, 100}})
	assert.Equal(t, model.Color{R: 10, G: 20, B: 30, A: 255}, c)
}

func TestParseColorFallback(t *testing.T) {
	// Absent or unparseable colors become opaque black.
	assert.Equal(t, model.Color{A: 255}, ParseColor(nil))
	assert.Equal(t, model.Color{A: 255}, ParseColor(&cim.Color{Type: "CIMRGBColor"}))
}
