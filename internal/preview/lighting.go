package preview

import (
	"math"

	"avatar-picker/internal/mathutil"
)

// Light holds precomputed lighting parameters.
type Light struct {
	Dir      mathutil.Vec3
	RimDir   mathutil.Vec3
	Half     mathutil.Vec3 // Blinn-Phong half vector of Dir and the view
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLight is a key light from the upper right with a cool rim from
// behind, tuned for skin and cloth.
func DefaultLight() Light {
	dir := mathutil.Vec3{180, 260, 140}.Normalize()
	view := mathutil.Vec3{0, -110, -400}.Normalize()
	return Light{
		Dir:      dir,
		RimDir:   mathutil.Vec3{-160, 130, -210}.Normalize(),
		Half:     dir.Sub(view).Normalize(),
		Ambient:  0.50,
		Hemi:     0.45,
		Direct:   1.30,
		Rim:      0.50,
		SpecInt:  0.20,
		SpecPow:  16.0,
		Exposure: 1.0,
		InvGamma: 1.0 / 2.2,
	}
}

// Shade returns the lighting scalar for a unit face normal. Faces are
// lit on both sides.
func (l *Light) Shade(n mathutil.Vec3) float64 {
	direct := math.Abs(n.Dot(l.Dir))
	rim := math.Abs(n.Dot(l.RimDir))
	hemi := ((1.0-math.Abs(n[1]))*0.5 + 0.5) * l.Hemi
	ndh := n.Dot(l.Half)
	if ndh < 0 {
		ndh = 0
	}
	spec := math.Pow(ndh, l.SpecPow) * l.SpecInt
	return l.Ambient + hemi + direct*l.Direct + rim*l.Rim + spec
}

// tonemap shades an sRGB channel and maps it back through ACES filmic.
func (l *Light) tonemap(c uint8, shade float64) uint8 {
	x := srgbToLinear[c] * shade * l.Exposure
	x = (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
	return clamp255(math.Pow(x, l.InvGamma) * 255)
}

var srgbToLinear [256]float64

func init() {
	for i := 0; i < 256; i++ {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
