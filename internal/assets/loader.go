// Package assets resolves a body's dependencies from the catalog and
// fetches its models and skin textures concurrently.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"avatar-picker/internal/bmd"
	"avatar-picker/internal/catalog"
)

// ErrUnknownBody is returned when a body name is not in the catalog.
var ErrUnknownBody = errors.New("assets: unknown body")

// ModelLoader fetches and decodes one model. Errors are permanent.
type ModelLoader interface {
	LoadModel(ctx context.Context, ref string) (*bmd.Model, error)
}

// TextureLoader fetches and decodes one texture. Errors are permanent.
type TextureLoader interface {
	LoadTexture(ctx context.Context, ref string) (*image.NRGBA, error)
}

// Dependencies is the closure of one body: the body and the items and
// skins it references, in catalog order.
type Dependencies struct {
	Body  catalog.Body
	Items []catalog.Item
	Skins []catalog.Skin
}

// ResolveDependencies expands the items and skins of body name.
func ResolveDependencies(cat *catalog.Catalog, name string) (Dependencies, error) {
	body, ok := cat.FindBody(name)
	if !ok {
		return Dependencies{}, fmt.Errorf("%w: %q", ErrUnknownBody, name)
	}
	deps := Dependencies{
		Body:  body,
		Items: make([]catalog.Item, 0, len(body.Items)),
		Skins: make([]catalog.Skin, 0, len(body.Skins)),
	}
	// The catalog validated every reference.
	for _, n := range body.Items {
		it, _ := cat.FindItem(n)
		deps.Items = append(deps.Items, it)
	}
	for _, n := range body.Skins {
		s, _ := cat.FindSkin(n)
		deps.Skins = append(deps.Skins, s)
	}
	return deps, nil
}

// Asset is one loaded model with its catalog tags.
type Asset struct {
	Name     string
	Category string
	Location string // items only
	InvData  string
	Model    *bmd.Model
}

// Bundle is everything needed to compose one body. Assets holds the body
// first, then its items in catalog order.
type Bundle struct {
	Body   string
	Assets []Asset
	Skins  []*SkinTextures
}

// Loader loads body bundles.
type Loader struct {
	cat    *catalog.Catalog
	models ModelLoader
	skins  *SkinCache
	log    *slog.Logger
}

// NewLoader returns a Loader whose skin textures are cached in skins.
func NewLoader(cat *catalog.Catalog, models ModelLoader, skins *SkinCache, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{cat: cat, models: models, skins: skins, log: log}
}

// Skins returns the shared skin cache.
func (l *Loader) Skins() *SkinCache { return l.skins }

// LoadBodyBundle starts every model load and skin acquisition of body
// name, then waits for all of them. The first failure cancels the rest
// and rejects the whole bundle.
func (l *Loader) LoadBodyBundle(ctx context.Context, name string) (*Bundle, error) {
	deps, err := ResolveDependencies(l.cat, name)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		Body:   name,
		Assets: make([]Asset, 1+len(deps.Items)),
		Skins:  make([]*SkinTextures, len(deps.Skins)),
	}
	b.Assets[0] = Asset{
		Name:     deps.Body.Name,
		Category: catalog.CategoryBody,
		InvData:  deps.Body.InvData,
	}
	for i, it := range deps.Items {
		b.Assets[1+i] = Asset{
			Name:     it.Name,
			Category: catalog.CategoryItem,
			Location: it.Location,
			InvData:  it.InvData,
		}
	}
	refs := make([]string, 0, len(b.Assets))
	refs = append(refs, deps.Body.Filename)
	for _, it := range deps.Items {
		refs = append(refs, it.Filename)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range b.Assets {
		g.Go(func() error {
			m, err := l.models.LoadModel(gctx, refs[i])
			if err != nil {
				return fmt.Errorf("model %s: %w", refs[i], err)
			}
			b.Assets[i].Model = m
			return nil
		})
	}
	for i, skin := range deps.Skins {
		g.Go(func() error {
			st, err := l.skins.Acquire(gctx, skin)
			if err != nil {
				return err
			}
			b.Skins[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("assets: load %s: %w", name, err)
	}

	l.log.Debug("bundle loaded", "body", name, "items", len(deps.Items), "skins", len(deps.Skins))
	return b, nil
}
