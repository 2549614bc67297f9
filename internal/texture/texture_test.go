package texture_test

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-picker/internal/texture"
)

func solid(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, c color.NRGBA) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(c)))
	return buf.Bytes()
}

func ozjBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, 24))
	require.NoError(t, jpeg.Encode(&buf, solid(color.NRGBA{200, 100, 50, 255}), nil))
	return buf.Bytes()
}

// ozt wraps an uncompressed 32-bit top-left TGA in the 4-byte OZT header.
func oztBytes(c color.NRGBA) []byte {
	var buf bytes.Buffer
	buf.Write(make([]byte, 4))
	hdr := make([]byte, 18)
	hdr[2] = 2
	binary.LittleEndian.PutUint16(hdr[12:], 2)
	binary.LittleEndian.PutUint16(hdr[14:], 2)
	hdr[16] = 32
	hdr[17] = 0x28
	buf.Write(hdr)
	for i := 0; i < 4; i++ {
		buf.Write([]byte{c.B, c.G, c.R, c.A})
	}
	return buf.Bytes()
}

func write(t *testing.T, dir, name string, data []byte) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()

	img, err := texture.Load(write(t, dir, "skin.png", pngBytes(t, color.NRGBA{10, 20, 30, 255})))
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, img.NRGBAAt(1, 1))

	img, err = texture.Load(write(t, dir, "upper.ozj", ozjBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, uint8(255), img.NRGBAAt(0, 0).A)

	img, err = texture.Load(write(t, dir, "hair.ozt", oztBytes(color.NRGBA{1, 2, 3, 128})))
	require.NoError(t, err)
	assert.Equal(t, uint8(128), img.NRGBAAt(0, 0).A)

	// Plain containers go to their own decoder, not the TGA one.
	img, err = texture.Decode(ozjBytes(t)[24:], "face.JPG")
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dy())

	img, err = texture.Decode(oztBytes(color.NRGBA{9, 8, 7, 255})[4:], "eyes.tga")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{9, 8, 7, 255}, img.NRGBAAt(1, 0))
}

func TestDecodeErrors(t *testing.T) {
	_, err := texture.Decode([]byte("short"), "a.ozj")
	assert.ErrorContains(t, err, "too short")

	_, err = texture.Decode([]byte("data"), "a.bmp")
	assert.ErrorContains(t, err, "unknown extension")

	_, err = texture.Decode([]byte("not a png"), "a.png")
	assert.ErrorContains(t, err, "decode")

	_, err = texture.Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorContains(t, err, "texture: read")
}

func TestIndexResolvesCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	model := write(t, dir, "Player/Male_Body_1.BMD", []byte("BMD"))
	ozj := write(t, dir, "Player/Texture/Upper.OZJ", ozjBytes(t))
	ozt := write(t, dir, "Player/Texture/upper.ozt", oztBytes(color.NRGBA{A: 255}))
	png := write(t, dir, "skins/head.png", pngBytes(t, color.NRGBA{A: 255}))

	idx, err := texture.BuildIndex(dir)
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, dir, idx.Root())

	got, ok := idx.ResolvePath("male_body_1.bmd")
	require.True(t, ok)
	assert.Equal(t, model, got)

	got, ok = idx.ResolvePath(`Data\Player\UPPER.OZJ`)
	require.True(t, ok)
	assert.Equal(t, ozj, got)

	// A jpg reference falls back to the best texture with the same stem.
	got, ok = idx.ResolvePath("upper.jpg")
	require.True(t, ok)
	assert.Equal(t, ozt, got)

	got, ok = idx.ResolvePath("Head.tga")
	require.True(t, ok)
	assert.Equal(t, png, got)

	_, ok = idx.ResolvePath("missing.bmd")
	assert.False(t, ok)
}
