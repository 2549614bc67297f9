// Package assetstest provides an in-memory loader for tests.
package assetstest

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"sync"

	"avatar-picker/internal/bmd"
	"avatar-picker/internal/bmd/bmdtest"
	"avatar-picker/internal/catalog"
)

// Bones is the size of the shared rig of every fake model.
const Bones = 4

// Loader serves fixed models and textures and counts every call. It
// implements assets.ModelLoader and assets.TextureLoader.
type Loader struct {
	Models   map[string]*bmd.Model
	Textures map[string]*image.NRGBA

	// Fail makes a reference fail with the given error.
	Fail map[string]error

	// When Gate is non-nil, loads wait for it to close. Hold restricts
	// waiting to the listed references.
	Gate chan struct{}
	Hold map[string]bool

	mu    sync.Mutex
	calls map[string]int
}

// New returns a loader with a model for every body and item of cat and
// a texture for every skin slot. Bodies are animated and carry lower,
// upper and head materials; items are static.
func New(cat *catalog.Catalog) *Loader {
	l := &Loader{
		Models:   make(map[string]*bmd.Model),
		Textures: make(map[string]*image.NRGBA),
		Fail:     make(map[string]error),
		Hold:     make(map[string]bool),
		calls:    make(map[string]int),
	}
	for _, b := range cat.Bodies() {
		l.Models[b.Filename] = bmdtest.Model(b.Name, Bones, catalog.SkinSlots...)
		for _, name := range b.Skins {
			s, _ := cat.FindSkin(name)
			for i, slot := range catalog.SkinSlots {
				l.Textures[s.Texture(slot)] = Solid(color.NRGBA{R: uint8(40 * i), G: 128, B: 200, A: 255})
			}
		}
	}
	for _, it := range cat.Items() {
		l.Models[it.Filename] = bmdtest.Static(it.Name, Bones, it.Location)
	}
	return l
}

// Solid returns a 2×2 image of one colour.
func Solid(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func (l *Loader) enter(ctx context.Context, ref string) error {
	l.mu.Lock()
	l.calls[ref]++
	gate, hold := l.Gate, len(l.Hold) == 0 || l.Hold[ref]
	err := l.Fail[ref]
	l.mu.Unlock()

	if err != nil {
		return err
	}
	if gate != nil && hold {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// LoadModel returns a fresh copy of the model for ref.
func (l *Loader) LoadModel(ctx context.Context, ref string) (*bmd.Model, error) {
	if err := l.enter(ctx, ref); err != nil {
		return nil, err
	}
	m, ok := l.Models[ref]
	if !ok {
		return nil, fmt.Errorf("assetstest: model %s: %w", ref, fs.ErrNotExist)
	}
	return bmd.Decode(bmd.Encode(m), ref)
}

// LoadTexture returns the texture for ref.
func (l *Loader) LoadTexture(ctx context.Context, ref string) (*image.NRGBA, error) {
	if err := l.enter(ctx, ref); err != nil {
		return nil, err
	}
	img, ok := l.Textures[ref]
	if !ok {
		return nil, fmt.Errorf("assetstest: texture %s: %w", ref, fs.ErrNotExist)
	}
	return img, nil
}

// Calls returns how often ref was requested.
func (l *Loader) Calls(ref string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[ref]
}

// TotalCalls returns the number of requests for the given references.
func (l *Loader) TotalCalls(refs ...string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, r := range refs {
		n += l.calls[r]
	}
	return n
}
