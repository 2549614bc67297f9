package assets

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"avatar-picker/internal/catalog"
)

// SkinTextures is the cached texture set of one skin. Textures appear as
// their fetches complete, so a skin can be observed partially loaded.
type SkinTextures struct {
	Name    string
	InvData string

	done chan struct{}

	mu       sync.Mutex
	textures map[string]*image.NRGBA
	err      error
}

func newSkinTextures(s catalog.Skin) *SkinTextures {
	return &SkinTextures{
		Name:     s.Name,
		InvData:  s.InvData,
		done:     make(chan struct{}),
		textures: make(map[string]*image.NRGBA, len(catalog.SkinSlots)),
	}
}

// Texture returns the texture of slot if it has been fetched.
func (s *SkinTextures) Texture(slot string) (*image.NRGBA, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.textures[slot]
	return img, ok
}

// Textures returns a snapshot of the fetched textures by slot.
func (s *SkinTextures) Textures() map[string]*image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*image.NRGBA, len(s.textures))
	for k, v := range s.textures {
		out[k] = v
	}
	return out
}

// Complete reports whether every slot resolved.
func (s *SkinTextures) Complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.textures) == len(catalog.SkinSlots)
}

// Settled reports whether all fetches have finished.
func (s *SkinTextures) Settled() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Err returns the fetch failure once settled, or nil.
func (s *SkinTextures) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *SkinTextures) set(slot string, img *image.NRGBA) {
	s.mu.Lock()
	s.textures[slot] = img
	s.mu.Unlock()
}

// SkinCache holds one SkinTextures per skin name. An entry is claimed
// before its fetches start and is never evicted; failed entries stay
// failed for the life of the cache.
type SkinCache struct {
	loader TextureLoader
	log    *slog.Logger

	mu    sync.Mutex
	slots map[string]*SkinTextures
}

// NewSkinCache returns an empty cache fetching through loader.
func NewSkinCache(loader TextureLoader, log *slog.Logger) *SkinCache {
	if log == nil {
		log = slog.Default()
	}
	return &SkinCache{
		loader: loader,
		log:    log,
		slots:  make(map[string]*SkinTextures),
	}
}

// Acquire returns the textures of skin, fetching them on first use.
// Concurrent callers for the same name share one set of fetches. The
// fetches are not cancelled with ctx; only the wait is.
func (c *SkinCache) Acquire(ctx context.Context, skin catalog.Skin) (*SkinTextures, error) {
	c.mu.Lock()
	st, ok := c.slots[skin.Name]
	if !ok {
		st = newSkinTextures(skin)
		c.slots[skin.Name] = st
	}
	c.mu.Unlock()

	if !ok {
		go c.fetch(context.WithoutCancel(ctx), st, skin)
	}

	select {
	case <-st.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err := st.Err(); err != nil {
		return nil, err
	}
	return st, nil
}

// Lookup returns the entry for name in whatever state it is in.
func (c *SkinCache) Lookup(name string) (*SkinTextures, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.slots[name]
	return st, ok
}

// Len returns the number of claimed entries.
func (c *SkinCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.slots)
}

func (c *SkinCache) fetch(ctx context.Context, st *SkinTextures, skin catalog.Skin) {
	defer close(st.done)

	var g errgroup.Group
	for _, slot := range catalog.SkinSlots {
		ref := skin.Texture(slot)
		g.Go(func() error {
			img, err := c.loader.LoadTexture(ctx, ref)
			if err != nil {
				return fmt.Errorf("skin %s %s texture %s: %w", skin.Name, slot, ref, err)
			}
			st.set(slot, img)
			return nil
		})
	}
	err := g.Wait()

	st.mu.Lock()
	st.err = err
	st.mu.Unlock()

	if err != nil {
		c.log.Warn("skin incomplete", "skin", skin.Name, "err", err)
		return
	}
	c.log.Debug("skin loaded", "skin", skin.Name)
}
