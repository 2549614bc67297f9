// Package preview renders the visible avatar to a still image.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/HugoSmits86/nativewebp"

	"avatar-picker/internal/bmd"
	"avatar-picker/internal/mathutil"
	"avatar-picker/internal/scene"
	"avatar-picker/internal/skeleton"
)

// untextured fills meshes with no texture bound or resolvable.
var untextured = color.NRGBA{R: 160, G: 160, B: 170, A: 255}

// TextureFunc resolves a mesh texture reference. It returns nil when the
// texture is unavailable.
type TextureFunc func(ref string) *image.NRGBA

// Options controls a render.
type Options struct {
	Size        int
	Supersample int
	Angle       float64 // turntable degrees
	Textures    TextureFunc
}

// part is one mesh ready to draw: model-space vertices plus its texture.
type part struct {
	mesh  *bmd.Mesh
	verts []mathutil.Vec3
	tex   *image.NRGBA
}

// Render draws the visible body and the items it wears. The result is
// Size×Size; a scene with no visible body renders transparent.
func Render(sc *scene.Scene, opts Options) *image.NRGBA {
	if opts.Size <= 0 {
		opts.Size = 512
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}

	parts := collect(sc, opts.Textures)
	renderSize := opts.Size * opts.Supersample
	fb := NewFrameBuffer(renderSize, renderSize)
	if len(parts) == 0 {
		return Downsample(fb.Image(), opts.Size)
	}

	R := mathutil.Turntable(opts.Angle)
	lo := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := range parts {
		for j, v := range parts[i].verts {
			tv := R.MulVec3(v)
			parts[i].verts[j] = tv
			for k := 0; k < 3; k++ {
				lo[k] = math.Min(lo[k], tv[k])
				hi[k] = math.Max(hi[k], tv[k])
			}
		}
	}

	center := lo.Add(hi).Scale(0.5)
	span := math.Max(math.Max(hi[0]-lo[0], hi[1]-lo[1]), 0.001)
	margin := max(renderSize/32, 1)
	scale := float64(renderSize-2*margin) / span
	half := float64(renderSize) / 2

	light := DefaultLight()
	for _, p := range parts {
		project := func(vi, ti int16) (vertex, bool) {
			if int(vi) < 0 || int(vi) >= len(p.verts) {
				return vertex{}, false
			}
			v := p.verts[vi]
			out := vertex{
				x: half + (v[0]-center[0])*scale,
				y: half - (v[1]-center[1])*scale,
				z: (v[2] - center[2]) * scale,
			}
			if int(ti) >= 0 && int(ti) < len(p.mesh.UVs) {
				out.u = float64(p.mesh.UVs[ti][0])
				out.v = float64(p.mesh.UVs[ti][1])
			}
			return out, true
		}

		tex, fill := p.tex, untextured
		if tex != nil {
			fill = average(tex)
			if len(p.mesh.UVs) == 0 {
				tex = nil
			}
		}

		for _, tri := range p.mesh.Tris {
			corners := []int{0, 1, 2}
			if tri.Polygon == 4 {
				corners = append(corners, 0, 2, 3)
			}
			for c := 0; c+2 < len(corners); c += 3 {
				a, okA := project(tri.VI[corners[c]], tri.TI[corners[c]])
				b, okB := project(tri.VI[corners[c+1]], tri.TI[corners[c+1]])
				d, okD := project(tri.VI[corners[c+2]], tri.TI[corners[c+2]])
				if okA && okB && okD {
					rasterize(fb, a, b, d, tex, fill, &light)
				}
			}
		}
	}
	return Downsample(fb.Image(), opts.Size)
}

func collect(sc *scene.Scene, resolve TextureFunc) []part {
	body := sc.VisibleBody()
	if body == nil {
		return nil
	}
	lookup := func(mesh *bmd.Mesh) *image.NRGBA {
		if resolve == nil || mesh.TexPath == "" {
			return nil
		}
		return resolve(mesh.TexPath)
	}

	var parts []part
	add := func(m *bmd.Model, s *skeleton.Skeleton, item bool, tex func(*bmd.Mesh) *image.NRGBA) {
		for i := range m.Meshes {
			mesh := &m.Meshes[i]
			if len(mesh.Verts) == 0 || effectMesh(mesh) || (item && underlayMesh(mesh)) {
				continue
			}
			parts = append(parts, part{mesh: mesh, verts: s.Skin(mesh), tex: tex(mesh)})
		}
	}

	add(body.Model, body.Skeleton, false, func(mesh *bmd.Mesh) *image.NRGBA {
		if t := body.Texture(mesh.Material); t != nil {
			return t
		}
		return lookup(mesh)
	})
	for _, it := range sc.VisibleItems() {
		if it.Owner != body.Name {
			continue
		}
		add(it.Model, it.Skeleton, true, lookup)
	}
	return parts
}

// Encode writes img to w as lossless WebP.
func Encode(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("preview: webp encode: %w", err)
	}
	return nil
}

// WriteWebP writes img to path as lossless WebP.
func WriteWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: create %s: %w", path, err)
	}
	if err := Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
