package assets

import (
	"context"
	"fmt"
	"image"
	"io/fs"

	"avatar-picker/internal/bmd"
	"avatar-picker/internal/texture"
)

// FileLoader loads models and textures from an asset directory.
// References are matched case-insensitively by file name.
type FileLoader struct {
	index *texture.Index
}

// NewFileLoader indexes dir.
func NewFileLoader(dir string) (*FileLoader, error) {
	idx, err := texture.BuildIndex(dir)
	if err != nil {
		return nil, err
	}
	return &FileLoader{index: idx}, nil
}

func (l *FileLoader) resolve(ref string) (string, error) {
	path, ok := l.index.ResolvePath(ref)
	if !ok {
		return "", fmt.Errorf("assets: %s not found in %s: %w", ref, l.index.Root(), fs.ErrNotExist)
	}
	return path, nil
}

// LoadModel implements ModelLoader.
func (l *FileLoader) LoadModel(ctx context.Context, ref string) (*bmd.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.resolve(ref)
	if err != nil {
		return nil, err
	}
	return bmd.Parse(path)
}

// LoadTexture implements TextureLoader.
func (l *FileLoader) LoadTexture(ctx context.Context, ref string) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := l.resolve(ref)
	if err != nil {
		return nil, err
	}
	return texture.Load(path)
}
