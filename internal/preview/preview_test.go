package preview_test

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-picker/internal/bmd/bmdtest"
	"avatar-picker/internal/preview"
	"avatar-picker/internal/scene"
	"avatar-picker/internal/skeleton"
)

func solid(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func avatarScene(t *testing.T) *scene.Scene {
	t.Helper()
	bm := bmdtest.Model("body", 2, "upper")
	body := &scene.Body{Name: "body", Model: bm, Skeleton: skeleton.FromBones(bm.Bones)}
	body.ApplySkin(scene.SkinApplication{Name: "red"}, map[string]*image.NRGBA{
		"upper": solid(color.NRGBA{R: 255, A: 255}),
	})

	hm := bmdtest.Static("hat", 2, "hat")
	hat := &scene.Item{Name: "hat", Location: "head", Owner: "body", Model: hm, Skeleton: skeleton.FromBones(hm.Bones)}

	sc := scene.New()
	require.NoError(t, sc.Add(body, hat))
	require.True(t, sc.ShowBody("body"))
	return sc
}

func opaque(img *image.NRGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			n++
		}
	}
	return n
}

func TestRenderEmptyScene(t *testing.T) {
	img := preview.Render(scene.New(), preview.Options{Size: 32, Supersample: 2})
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
	assert.Zero(t, opaque(img))
}

func TestRenderVisibleBody(t *testing.T) {
	img := preview.Render(avatarScene(t), preview.Options{Size: 64})
	require.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
	require.NotZero(t, opaque(img))

	var red, green int
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] > 0 {
			red += int(img.Pix[i])
			green += int(img.Pix[i+1])
		}
	}
	assert.Greater(t, red, green, "skin texture is sampled")
}

func TestRenderResolvesVisibleItemsOnly(t *testing.T) {
	sc := avatarScene(t)
	var refs []string
	resolve := func(ref string) *image.NRGBA {
		refs = append(refs, ref)
		return solid(color.NRGBA{B: 255, A: 255})
	}

	preview.Render(sc, preview.Options{Size: 16, Textures: resolve})
	assert.Empty(t, refs, "body textures come from the skin, the hat is hidden")

	require.True(t, sc.ShowItem("body", "hat"))
	refs = nil
	img := preview.Render(sc, preview.Options{Size: 16, Angle: 90, Textures: resolve})
	assert.Equal(t, []string{"hat.ozj"}, refs)
	assert.NotZero(t, opaque(img))
}

func TestRenderSkipsEffectsAndUnderlays(t *testing.T) {
	sc := avatarScene(t)
	hat, ok := sc.Item("body", "hat")
	require.True(t, ok)
	hat.Model.Meshes = append(hat.Model.Meshes, bmdtest.Quad("wing_glow01"), bmdtest.Quad("nude_class2"))
	require.True(t, sc.ShowItem("body", "hat"))

	var refs []string
	preview.Render(sc, preview.Options{Size: 16, Textures: func(ref string) *image.NRGBA {
		refs = append(refs, ref)
		return nil
	}})
	assert.Equal(t, []string{"hat.ozj"}, refs)
}

func TestRenderHiddenBody(t *testing.T) {
	sc := avatarScene(t)
	sc.ShowBody("nobody")
	assert.Zero(t, opaque(preview.Render(sc, preview.Options{Size: 16})))
}

func TestDownsample(t *testing.T) {
	src := solid(color.NRGBA{G: 200, A: 255})
	small := preview.Downsample(src, 2)
	assert.Equal(t, image.Rect(0, 0, 2, 2), small.Bounds())
	assert.InDelta(t, 200, int(small.Pix[1]), 1)
	assert.Same(t, src, preview.Downsample(src, 8))
}

func TestWriteWebP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.webp")
	require.NoError(t, preview.WriteWebP(path, preview.Render(avatarScene(t), preview.Options{Size: 16})))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(raw), 12)
	assert.Equal(t, "RIFF", string(raw[:4]))
	assert.Equal(t, "WEBP", string(raw[8:12]))

	assert.Error(t, preview.WriteWebP(filepath.Join(t.TempDir(), "missing", "a.webp"), image.NewNRGBA(image.Rect(0, 0, 1, 1))))
}
