package preview

import (
	"image"
	"image/color"
)

// sample performs bilinear filtering with UV wrapping.
func sample(tex *image.NRGBA, u, v float64) color.NRGBA {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	u -= float64(int(u))
	if u < 0 {
		u += 1.0
	}
	v -= float64(int(v))
	if v < 0 {
		v += 1.0
	}

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0, y0 := int(fx), int(fy)
	x1, y1 := (x0+1)%w, (y0+1)%h
	dx, dy := fx-float64(x0), fy-float64(y0)

	pix, stride := tex.Pix, tex.Stride
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	ch := func(o int) uint8 {
		f := float64(pix[i00+o])*w00 + float64(pix[i10+o])*w10 + float64(pix[i01+o])*w01 + float64(pix[i11+o])*w11
		return uint8(f + 0.5)
	}
	return color.NRGBA{R: ch(0), G: ch(1), B: ch(2), A: ch(3)}
}

// average returns the mean colour of tex, used for meshes without UVs.
func average(tex *image.NRGBA) color.NRGBA {
	b := tex.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return untextured
	}
	var r, g, bl float64
	for y := 0; y < b.Dy(); y++ {
		off := y * tex.Stride
		for x := 0; x < b.Dx(); x++ {
			i := off + x*4
			r += float64(tex.Pix[i])
			g += float64(tex.Pix[i+1])
			bl += float64(tex.Pix[i+2])
		}
	}
	f := float64(n)
	return color.NRGBA{R: uint8(r/f + 0.5), G: uint8(g/f + 0.5), B: uint8(bl/f + 0.5), A: 255}
}
