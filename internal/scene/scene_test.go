package scene_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-picker/internal/assets"
	"avatar-picker/internal/assets/assetstest"
	"avatar-picker/internal/bmd"
	"avatar-picker/internal/bmd/bmdtest"
	"avatar-picker/internal/catalog"
	"avatar-picker/internal/catalog/catalogtest"
	"avatar-picker/internal/scene"
)

func bundle(t *testing.T, body string) *assets.Bundle {
	t.Helper()
	cat := catalogtest.Catalog(t)
	fake := assetstest.New(cat)
	b, err := assets.NewLoader(cat, fake, assets.NewSkinCache(fake, nil), nil).
		LoadBodyBundle(context.Background(), body)
	require.NoError(t, err)
	return b
}

func compose(t *testing.T, body string) (*scene.Body, []*scene.Item) {
	t.Helper()
	b, items, err := scene.NewComposer(nil, nil).Compose(bundle(t, body))
	require.NoError(t, err)
	return b, items
}

func TestComposeTagsAndHides(t *testing.T) {
	body, items := compose(t, "male_body_1_head_1")

	assert.Equal(t, "male_body_1_head_1", body.Name)
	assert.Equal(t, "inv-body-m11", body.InvData)
	assert.False(t, body.Visible)
	assert.Nil(t, body.Skin)
	require.NotNil(t, body.Animation.Clip())
	assert.Equal(t, 5, body.Animation.Len())

	require.Len(t, items, 4)
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
		assert.Equal(t, body.Name, it.Owner)
		assert.False(t, it.Visible)
	}
	assert.Equal(t, []string{"male_shirt_1", "male_pants_1", "male_shirt_2", "male_hat_1"}, names)
	assert.Equal(t, "hat", items[3].Location)
	assert.Equal(t, "inv-hat-1", items[3].InvData)
}

func TestComposeMissingBody(t *testing.T) {
	b := bundle(t, "male_body_2_head_1")
	b.Assets = b.Assets[1:]

	_, _, err := scene.NewComposer(nil, nil).Compose(b)
	assert.ErrorIs(t, err, scene.ErrMissingBody)
}

func TestComposeStaticBody(t *testing.T) {
	b := bundle(t, "male_body_2_head_1")
	b.Assets[0].Model = bmdtest.Static("male_body_2_head_1", 4, catalog.SkinSlots...)

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	body, items, err := scene.NewComposer(nil, log).Compose(b)
	require.NoError(t, err)
	assert.Nil(t, body.Animation.Clip())
	assert.Len(t, items, 2)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), scene.ErrNoAnimation.Error())

	body.Animation.Advance(1)
	assert.Zero(t, body.Animation.Time())
}

func TestInstancesAreIndependent(t *testing.T) {
	b := bundle(t, "male_body_2_head_1")
	c := scene.NewComposer(nil, nil)

	one, _, err := c.Compose(b)
	require.NoError(t, err)
	two, _, err := c.Compose(b)
	require.NoError(t, err)

	require.NotSame(t, one.Model, two.Model)
	one.Model.Meshes[0].Verts[0][0] = 42
	one.Model.Bones[1].Tracks[0][0].Position[1] = 42
	assert.NotEqual(t, float32(42), two.Model.Meshes[0].Verts[0][0])
	assert.NotEqual(t, float32(42), b.Assets[0].Model.Meshes[0].Verts[0][0])
	assert.NotEqual(t, 42.0, b.Assets[0].Model.Bones[1].Tracks[0][0].Position[1])
}

type failingInstancer struct{}

func (failingInstancer) Instance(*bmd.Model) (*bmd.Model, error) {
	return nil, errors.New("gpu full")
}

func TestComposeInstancerError(t *testing.T) {
	_, _, err := scene.NewComposer(failingInstancer{}, nil).Compose(bundle(t, "male_body_2_head_1"))
	assert.EqualError(t, err, "gpu full")
}

func TestRetargetCopiesBodyPose(t *testing.T) {
	body, items := compose(t, "male_body_2_head_1")
	for _, it := range items {
		require.Equal(t, body.Skeleton.Len(), it.Skeleton.Len())
		for i := range body.Skeleton.Joints {
			assert.Equal(t, body.Skeleton.Joints[i].Position, it.Skeleton.Joints[i].Position, "%s bone %d", it.Name, i)
			assert.Equal(t, body.Skeleton.World[i], it.Skeleton.World[i])
		}
	}
}

func TestRetargetShortRig(t *testing.T) {
	body, _ := compose(t, "male_body_2_head_1")
	m := bmdtest.Static("cape", 2, "cape")
	it, err := scene.NewComposer(nil, nil).ComposeItem(assets.Asset{
		Name: "cape", Category: catalog.CategoryItem, Location: "back", Model: m,
	}, body)
	require.NoError(t, err)
	assert.Equal(t, body.Skeleton.Joints[1].Position, it.Skeleton.Joints[1].Position)
	assert.Equal(t, 2, scene.Retarget(it, body))
}

func TestAnimationLockstep(t *testing.T) {
	body, items := compose(t, "male_body_2_head_1")

	body.Animation.Advance(0.05)
	assert.InDelta(t, 0.05, body.Animation.Time(), 1e-12)
	assert.InDelta(t, 0.5, body.Skeleton.Joints[0].Position[0], 1e-9)
	for _, it := range items {
		for i, j := range body.Skeleton.Joints {
			got := it.Skeleton.Joints[i]
			assert.Equal(t, j.Position, got.Position, "%s bone %d", it.Name, i)
			assert.Equal(t, j.Rotation, got.Rotation, "%s bone %d", it.Name, i)
			assert.Equal(t, j.Scale, got.Scale, "%s bone %d", it.Name, i)
		}
	}

	body.Animation.Advance(0.2) // one full loop
	assert.InDelta(t, 0.05, body.Animation.Time(), 1e-9)
}

func TestApplySkin(t *testing.T) {
	body, _ := compose(t, "male_body_2_head_1")
	tex := map[string]*image.NRGBA{
		catalog.SlotLower: assetstest.Solid(colorAt(1)),
		catalog.SlotUpper: assetstest.Solid(colorAt(2)),
		catalog.SlotHead:  assetstest.Solid(colorAt(3)),
	}
	n := body.ApplySkin(scene.SkinApplication{Name: "male_skin_1", InvData: "k"}, tex)
	assert.Equal(t, 3, n)
	require.NotNil(t, body.Skin)
	assert.Equal(t, "male_skin_1", body.Skin.Name)
	assert.Same(t, tex[catalog.SlotHead], body.Texture(catalog.SlotHead))
}
