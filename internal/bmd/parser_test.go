package bmd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-picker/internal/bmd"
	"avatar-picker/internal/bmd/bmdtest"
)

func TestDecodeRoundTrip(t *testing.T) {
	src := bmdtest.Model("male_body", 3, "upper", "lower", "head")

	m, err := bmd.Decode(bmd.Encode(src), "male_body.bmd")
	require.NoError(t, err)

	assert.Equal(t, "male_body", m.Name)
	require.Len(t, m.Meshes, 3)
	assert.Equal(t, []string{"upper", "lower", "head"}, m.Materials())
	assert.Equal(t, src.Meshes[0].Verts, m.Meshes[0].Verts)
	assert.Equal(t, src.Meshes[0].UVs, m.Meshes[0].UVs)
	assert.Equal(t, src.Meshes[0].Tris, m.Meshes[0].Tris)
	assert.Equal(t, "upper.ozj", m.Meshes[0].TexPath)

	require.Len(t, m.Actions, 1)
	assert.Equal(t, 2, m.Actions[0].Keys)
	assert.True(t, m.HasAnimation())

	require.Len(t, m.Bones, 3)
	for i, b := range m.Bones {
		assert.Equal(t, src.Bones[i].Name, b.Name)
		assert.Equal(t, i-1, b.Parent)
		assert.Equal(t, src.Bones[i].Tracks, b.Tracks)
	}
	assert.Equal(t, [3]float64{0, 2, 0}, m.Bones[2].Bind().Position)
}

func TestDecodeDummyBonesAndLockedAction(t *testing.T) {
	src := bmdtest.Model("rig", 2)
	src.Actions[0].LockPositions = true
	src.Bones = append(src.Bones, bmd.Bone{Parent: -1, IsDummy: true})

	m, err := bmd.Decode(bmd.Encode(src), "rig.bmd")
	require.NoError(t, err)
	require.Len(t, m.Bones, 3)
	assert.True(t, m.Bones[2].IsDummy)
	assert.True(t, m.Actions[0].LockPositions)
	assert.Equal(t, src.Bones[1].Tracks, m.Bones[1].Tracks)
}

func TestDecodeStaticModel(t *testing.T) {
	m, err := bmd.Decode(bmd.Encode(bmdtest.Static("pants", 2, "pants")), "pants.bmd")
	require.NoError(t, err)
	assert.False(t, m.HasAnimation())
	assert.Equal(t, -1, m.FirstAction())
	assert.Equal(t, bmd.Key{}, m.Bones[1].Bind())
}

func TestDecodeRejectsBadInput(t *testing.T) {
	_, err := bmd.Decode([]byte("XYZ\x0a"), "bad.bmd")
	assert.ErrorContains(t, err, "invalid header")

	_, err = bmd.Decode([]byte("BMD\x0f\x00\x00\x00\x00"), "enc.bmd")
	assert.ErrorIs(t, err, bmd.ErrEncrypted)

	raw := bmd.Encode(bmdtest.Model("body", 1, "upper"))
	_, err = bmd.Decode(raw[:60], "short.bmd")
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Shirt.bmd")
	require.NoError(t, os.WriteFile(path, bmd.Encode(bmdtest.Model("shirt", 2, "shirt")), 0o644))

	m, err := bmd.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "shirt", m.Name)

	_, err = bmd.Parse(filepath.Join(t.TempDir(), "missing.bmd"))
	assert.ErrorContains(t, err, "bmd: read")
}

func TestSlotName(t *testing.T) {
	assert.Equal(t, "upper", bmd.SlotName(`Player\Texture\Upper.OZJ`))
	assert.Equal(t, "head", bmd.SlotName("head.jpg"))
	assert.Equal(t, "", bmd.SlotName(""))
}
