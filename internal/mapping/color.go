package mapping

import (
	"math"

	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/cim"
	"github.com/Gulf-Basin-Depositional-Synthesis/ArcToQ/internal/model"
)

// ParseColor converts a CIM color node to an RGBA color. CIM alpha is 0-100.
// Unparseable or absent colors yield opaque black, matching how the target
// treats a missing color.
func ParseColor(c *cim.Color) model.Color {
	if c == nil || len(c.Values) == 0 {
		return model.Color{A: 255}
	}
	v := c.Values
	switch c.Type {
	case "CIMRGBColor":
		if len(v) >= 4 {
			return rgba(v[0], v[1], v[2], v[3]*2.55)
		}
	case "CIMHSVColor":
		if len(v) >= 4 {
			r, g, b := hsvToRGB(v[0]/360, v[1]/100, v[2]/100)
			return rgba(r*255, g*255, b*255, v[3]*2.55)
		}
	case "CIMLABColor":
		if len(v) >= 4 {
			return labToRGB(v[0], v[1], v[2], v[3])
		}
	}
	// Bare value list fallback.
	switch len(v) {
	case 4:
		return rgba(v[0], v[1], v[2], v[3]*2.55)
	case 3:
		return rgba(v[0], v[1], v[2], 255)
	}
	return model.Color{A: 255}
}

func rgba(r, g, b, a float64) model.Color {
	return model.Color{R: clamp8(r), G: clamp8(g), B: clamp8(b), A: clamp8(a)}
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	if s == 0 {
		return v, v, v
	}
	h = math.Mod(h, 1) * 6
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch int(i) % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// labToRGB converts a CIE LAB color (D65 illuminant) with 0-100 alpha to
// sRGB.
func labToRGB(l, a, b, alpha float64) model.Color {
	fy := (l + 16.0) / 116.0
	fx := fy + a/500.0
	fz := fy - b/200.0

	fInv := func(t float64) float64 {
		const delta = 6.0 / 29.0
		if t > delta {
			return t * t * t
		}
		return 3 * delta * delta * (t - 4.0/29.0)
	}

	x := 95.047 * fInv(fx) / 100.0
	y := 100.000 * fInv(fy) / 100.0
	z := 108.883 * fInv(fz) / 100.0

	r := x*3.2406 + y*-1.5372 + z*-0.4986
	g := x*-0.9689 + y*1.8758 + z*0.0415
	bb := x*0.0557 + y*-0.2040 + z*1.0570

	gamma := func(c float64) float64 {
		if c > 0.0031308 {
			return 1.055*math.Pow(c, 1.0/2.4) - 0.055
		}
		return 12.92 * c
	}

	return rgba(gamma(r)*255, gamma(g)*255, gamma(bb)*255, alpha*2.55)
}
