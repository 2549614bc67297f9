package skeleton_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-picker/internal/bmd"
	"avatar-picker/internal/bmd/bmdtest"
	"avatar-picker/internal/mathutil"
	"avatar-picker/internal/skeleton"
)

func TestFromBonesChainsParents(t *testing.T) {
	s := skeleton.FromBones(bmdtest.Model("body", 3).Bones)
	require.Equal(t, 3, s.Len())

	// Bind keys place bone i at (0, i, 0) relative to its parent.
	assert.Equal(t, mathutil.Vec3{0, 0, 0}, s.World[0].Translation())
	assert.Equal(t, mathutil.Vec3{0, 1, 0}, s.World[1].Translation())
	assert.Equal(t, mathutil.Vec3{0, 3, 0}, s.World[2].Translation())
}

func TestFromBonesDummyIsIdentity(t *testing.T) {
	bones := append(bmdtest.Model("body", 1).Bones, bmd.Bone{Parent: -1, IsDummy: true})
	s := skeleton.FromBones(bones)
	assert.True(t, s.World[1].IsIdentity())
}

func TestCopyPoseByIndex(t *testing.T) {
	body := skeleton.FromBones(bmdtest.Model("body", 3).Bones)
	item := skeleton.FromBones(bmdtest.Static("shirt", 3).Bones)
	body.Joints[1].Scale = mathutil.Vec3{2, 2, 2}
	body.Update()

	n := skeleton.CopyPose(item, body)
	assert.Equal(t, 3, n)
	for i := range body.Joints {
		assert.Equal(t, body.Joints[i].Position, item.Joints[i].Position)
		assert.Equal(t, body.Joints[i].Rotation, item.Joints[i].Rotation)
		assert.Equal(t, body.Joints[i].Scale, item.Joints[i].Scale)
		assert.True(t, body.World[i].NearEqual(item.World[i], 1e-12), "world %d", i)
	}
}

func TestCopyPoseBoundsToSharedRange(t *testing.T) {
	body := skeleton.FromBones(bmdtest.Model("body", 2).Bones)
	item := skeleton.FromBones(bmdtest.Static("cape", 4).Bones)

	assert.Equal(t, 2, skeleton.CopyPose(item, body))
	assert.Equal(t, 2, skeleton.CopyPose(body, skeleton.FromBones(bmdtest.Static("big", 5).Bones)))
}

func TestCongruent(t *testing.T) {
	body := skeleton.FromBones(bmdtest.Model("body", 3).Bones)
	assert.NoError(t, skeleton.Congruent(body, skeleton.FromBones(bmdtest.Static("shirt", 3).Bones)))

	err := skeleton.Congruent(body, skeleton.FromBones(bmdtest.Static("shirt", 2).Bones))
	assert.ErrorIs(t, err, skeleton.ErrIncongruent)

	odd := skeleton.FromBones(bmdtest.Static("shirt", 3).Bones)
	odd.Joints[2].Parent = 0
	assert.ErrorIs(t, skeleton.Congruent(body, odd), skeleton.ErrIncongruent)
}

func TestCloneIsIndependent(t *testing.T) {
	s := skeleton.FromBones(bmdtest.Model("body", 2).Bones)
	c := s.Clone()
	c.Joints[0].Position = mathutil.Vec3{9, 9, 9}
	c.Update()
	assert.Equal(t, mathutil.Vec3{0, 0, 0}, s.Joints[0].Position)
	assert.NotEqual(t, s.World[0], c.World[0])
}

func TestSkinMovesVerticesWithBone(t *testing.T) {
	m := bmdtest.Model("body", 2, "upper")
	s := skeleton.FromBones(m.Bones)
	s.Joints[0].Position = mathutil.Vec3{10, 0, 0}
	s.Update()

	got := s.Skin(&m.Meshes[0])
	require.Len(t, got, len(m.Meshes[0].Verts))
	assert.InDelta(t, float64(m.Meshes[0].Verts[0][0])+10, got[0][0], 1e-6)
}

func TestClipSample(t *testing.T) {
	m := bmdtest.Model("body", 2)
	clip, ok := skeleton.NewClip(m, 0)
	require.True(t, ok)
	assert.Equal(t, 2, clip.Keys)
	assert.InDelta(t, 0.2, clip.Duration(), 1e-12)

	s := skeleton.FromBones(m.Bones)
	clip.Sample(s, 0.05) // halfway between key 0 and key 1
	assert.InDelta(t, 0.5, s.Joints[0].Position[0], 1e-9)

	clip.Sample(s, clip.Duration()) // wraps to key 0
	assert.InDelta(t, 0, s.Joints[0].Position[0], 1e-9)

	_, ok = skeleton.NewClip(bmdtest.Static("pants", 2), 0)
	assert.False(t, ok)
}
