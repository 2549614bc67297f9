package preview

import (
	"image"
	"image/color"
	"math"

	"avatar-picker/internal/mathutil"
)

// vertex is a projected vertex: screen x, y and depth z (larger is nearer).
type vertex struct {
	x, y, z float64
	u, v    float64
}

// rasterize draws one flat-shaded triangle with z-buffering. tex may be
// nil, in which case fill is used.
func rasterize(fb *FrameBuffer, a, b, c vertex, tex *image.NRGBA, fill color.NRGBA, l *Light) {
	e1 := mathutil.Vec3{b.x - a.x, b.y - a.y, b.z - a.z}
	e2 := mathutil.Vec3{c.x - a.x, c.y - a.y, c.z - a.z}
	n := mathutil.Vec3{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	if n.Len() < 1e-8 {
		return
	}
	shade := l.Shade(n.Normalize())

	minX := max(int(math.Min(math.Min(a.x, b.x), c.x)), 0)
	maxX := min(int(math.Max(math.Max(a.x, b.x), c.x))+1, fb.Width-1)
	minY := max(int(math.Min(math.Min(a.y, b.y), c.y)), 0)
	maxY := min(int(math.Max(math.Max(a.y, b.y), c.y))+1, fb.Height-1)
	if minX >= maxX || minY >= maxY {
		return
	}

	det := (b.y-c.y)*(a.x-c.x) + (c.x-b.x)*(a.y-c.y)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12, dx21 := b.y-c.y, c.x-b.x
	dy20, dx02 := c.y-a.y, a.x-c.x

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - c.y
		row := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - c.x
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			zi := row + sx
			if z <= fb.ZBuf[zi] {
				continue
			}

			px := fill
			if tex != nil {
				px = sample(tex, w0*a.u+w1*b.u+w2*c.u, w0*a.v+w1*b.v+w2*c.v)
			}
			if px.A < 8 {
				continue
			}
			fb.ZBuf[zi] = z

			i := zi * 4
			fb.Color[i] = l.tonemap(px.R, shade)
			fb.Color[i+1] = l.tonemap(px.G, shade)
			fb.Color[i+2] = l.tonemap(px.B, shade)
			fb.Color[i+3] = px.A
		}
	}
}
