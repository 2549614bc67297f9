package scene

import (
	"image"

	"avatar-picker/internal/bmd"
	"avatar-picker/internal/skeleton"
)

// Node is a composed scene object: *Body or *Item.
type Node interface {
	NodeName() string
	IsVisible() bool
	node()
}

// Body is a composed body instance with its rig and animation.
type Body struct {
	Name    string
	InvData string

	Model     *bmd.Model
	Skeleton  *skeleton.Skeleton
	Animation *AnimationGroup
	Visible   bool

	// Skin is the applied skin, nil until one is applied.
	Skin *SkinApplication

	// Textures holds the texture bound to each material slot.
	Textures map[string]*image.NRGBA
}

// Item is a composed item instance worn by one body.
type Item struct {
	Name     string
	Location string
	InvData  string
	Owner    string // name of the owning body

	Model    *bmd.Model
	Skeleton *skeleton.Skeleton
	Visible  bool
}

// SkinApplication records the skin applied to a body's materials.
type SkinApplication struct {
	Name    string
	InvData string
}

func (b *Body) NodeName() string { return b.Name }
func (b *Body) IsVisible() bool  { return b.Visible }
func (*Body) node()              {}

func (it *Item) NodeName() string { return it.Name }
func (it *Item) IsVisible() bool  { return it.Visible }
func (*Item) node()               {}

// ApplySkin binds textures to the body's material slots and records app.
// It returns the number of meshes whose material received a texture.
func (b *Body) ApplySkin(app SkinApplication, textures map[string]*image.NRGBA) int {
	if b.Textures == nil {
		b.Textures = make(map[string]*image.NRGBA, len(textures))
	}
	for slot, img := range textures {
		b.Textures[slot] = img
	}
	n := 0
	for _, m := range b.Model.Meshes {
		if _, ok := textures[m.Material]; ok {
			n++
		}
	}
	b.Skin = &app
	return n
}

// Texture returns the texture bound to mesh material slot.
func (b *Body) Texture(slot string) *image.NRGBA {
	return b.Textures[slot]
}
