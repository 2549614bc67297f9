package scene

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jinzhu/copier"

	"avatar-picker/internal/assets"
	"avatar-picker/internal/bmd"
	"avatar-picker/internal/catalog"
	"avatar-picker/internal/skeleton"
)

var (
	// ErrMissingBody aborts composition of a bundle without a body model.
	ErrMissingBody = errors.New("scene: bundle has no body")

	// ErrNoAnimation is reported for a body without an animated action.
	// Composition proceeds without animation.
	ErrNoAnimation = errors.New("scene: body has no animation")
)

// Instancer turns a decoded model into an independent scene object.
type Instancer interface {
	Instance(m *bmd.Model) (*bmd.Model, error)
}

// CopyInstancer deep-copies models so no two instances share state.
type CopyInstancer struct{}

// Instance implements Instancer.
func (CopyInstancer) Instance(m *bmd.Model) (*bmd.Model, error) {
	out := new(bmd.Model)
	if err := copier.CopyWithOption(out, m, copier.Option{CaseSensitive: true, DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("scene: instance %s: %w", m.Name, err)
	}
	return out, nil
}

// Composer builds scene nodes from loaded bundles.
type Composer struct {
	inst Instancer
	log  *slog.Logger
}

// NewComposer returns a Composer. A nil inst uses CopyInstancer.
func NewComposer(inst Instancer, log *slog.Logger) *Composer {
	if inst == nil {
		inst = CopyInstancer{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Composer{inst: inst, log: log}
}

// Compose instantiates the body of b and every item, retargets each item
// onto the body rig and joins it to the body's animation group. All nodes
// come back hidden.
func (c *Composer) Compose(b *assets.Bundle) (*Body, []*Item, error) {
	var bodyAsset *assets.Asset
	for i := range b.Assets {
		if b.Assets[i].Category == catalog.CategoryBody && b.Assets[i].Model != nil {
			bodyAsset = &b.Assets[i]
			break
		}
	}
	if bodyAsset == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingBody, b.Body)
	}

	body, err := c.ComposeBody(*bodyAsset)
	if err != nil {
		return nil, nil, err
	}

	var items []*Item
	for _, a := range b.Assets {
		if a.Category != catalog.CategoryItem {
			continue
		}
		it, err := c.ComposeItem(a, body)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, it)
	}
	return body, items, nil
}

// ComposeBody instantiates a body asset and binds its first animated
// action.
func (c *Composer) ComposeBody(a assets.Asset) (*Body, error) {
	m, err := c.inst.Instance(a.Model)
	if err != nil {
		return nil, err
	}
	body := &Body{
		Name:     a.Name,
		InvData:  a.InvData,
		Model:    m,
		Skeleton: skeleton.FromBones(m.Bones),
	}
	clip, ok := skeleton.NewClip(m, m.FirstAction())
	if !ok {
		c.log.Warn("composing without animation", "body", a.Name, "err", ErrNoAnimation)
	}
	body.Animation = NewAnimationGroup(clip, body.Skeleton)
	return body, nil
}

// ComposeItem instantiates an item asset for owner and retargets it.
func (c *Composer) ComposeItem(a assets.Asset, owner *Body) (*Item, error) {
	m, err := c.inst.Instance(a.Model)
	if err != nil {
		return nil, err
	}
	it := &Item{
		Name:     a.Name,
		Location: a.Location,
		InvData:  a.InvData,
		Owner:    owner.Name,
		Model:    m,
		Skeleton: skeleton.FromBones(m.Bones),
	}
	if n := Retarget(it, owner); n != it.Skeleton.Len() || n != owner.Skeleton.Len() {
		c.log.Debug("partial retarget", "item", it.Name, "body", owner.Name,
			"copied", n, "item_bones", it.Skeleton.Len(), "body_bones", owner.Skeleton.Len())
	}
	owner.Animation.Add(it.Skeleton)
	return it, nil
}

// Retarget copies the body pose onto the item rig bone by bone and
// recomputes its bind state. Rigs must share bone order; this is an
// asset pipeline contract checked offline with skeleton.Congruent.
func Retarget(it *Item, body *Body) int {
	return skeleton.CopyPose(it.Skeleton, body.Skeleton)
}
