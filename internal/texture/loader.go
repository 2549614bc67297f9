package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
)

// Extensions lists the texture formats Load understands, in index priority
// order: when two files share a stem the earlier extension wins.
var Extensions = []string{".ozt", ".ozj", ".png", ".tga", ".jpg", ".jpeg"}

// Load reads a texture file and returns an NRGBA image.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	return Decode(raw, path)
}

// Decode decodes texture bytes. The container and the decoder are chosen
// by the extension of name. TGA has no magic number, so format sniffing
// through image.Decode is never used.
func Decode(raw []byte, name string) (*image.NRGBA, error) {
	imgData := raw
	var decode func(io.Reader) (image.Image, error)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".ozj":
		// OZJ: 24-byte header + JPEG data
		if len(raw) <= 24 {
			return nil, fmt.Errorf("texture: OZJ too short: %s", name)
		}
		imgData, decode = raw[24:], jpeg.Decode
	case ".ozt":
		// OZT: 4-byte header + TGA data
		if len(raw) <= 4 {
			return nil, fmt.Errorf("texture: OZT too short: %s", name)
		}
		imgData, decode = raw[4:], tga.Decode
	case ".jpg", ".jpeg":
		decode = jpeg.Decode
	case ".png":
		decode = png.Decode
	case ".tga":
		decode = tga.Decode
	default:
		return nil, fmt.Errorf("texture: unknown extension %q: %s", ext, name)
	}

	img, err := decode(bytes.NewReader(imgData))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", name, err)
	}
	return toNRGBA(img), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
