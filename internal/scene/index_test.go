package scene_test

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-picker/internal/scene"
)

func colorAt(i int) color.NRGBA {
	return color.NRGBA{R: uint8(i * 50), A: 255}
}

func populated(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New()
	for _, name := range []string{"male_body_1_head_1", "male_body_2_head_1"} {
		body, items := compose(t, name)
		require.NoError(t, s.Add(body))
		for _, it := range items {
			require.NoError(t, s.Add(it))
		}
	}
	return s
}

func visibleNames(s *scene.Scene) []string {
	var out []string
	for _, it := range s.VisibleItems() {
		out = append(out, it.Owner+"/"+it.Name)
	}
	return out
}

func TestAddRejectsDuplicates(t *testing.T) {
	s := populated(t)
	assert.Equal(t, 8, s.Len())
	assert.Len(t, s.Bodies(), 2)

	body, items := compose(t, "male_body_2_head_1")
	assert.ErrorContains(t, s.Add(body), "already composed")
	assert.ErrorContains(t, s.Add(items[0]), "already composed")

	// The same item name under another owner is a different node.
	a, ok := s.Item("male_body_1_head_1", "male_shirt_1")
	require.True(t, ok)
	b, ok := s.Item("male_body_2_head_1", "male_shirt_1")
	require.True(t, ok)
	assert.NotSame(t, a, b)
	assert.Len(t, s.ItemsOf("male_body_1_head_1"), 4)
	assert.Empty(t, s.ItemsOf("nobody"))
}

func TestShowBodyIsExclusive(t *testing.T) {
	s := populated(t)

	require.True(t, s.ShowBody("male_body_1_head_1"))
	require.True(t, s.ShowBody("male_body_2_head_1"))
	visible := 0
	for _, b := range s.Bodies() {
		if b.Visible {
			visible++
		}
	}
	assert.Equal(t, 1, visible)
	assert.Equal(t, "male_body_2_head_1", s.VisibleBody().Name)

	assert.False(t, s.ShowBody("female_body_9_head_9"))
	assert.Nil(t, s.VisibleBody())
	for _, b := range s.Bodies() {
		assert.False(t, b.Visible)
	}
}

func TestShowItemOnePerLocation(t *testing.T) {
	s := populated(t)
	const owner = "male_body_1_head_1"

	require.True(t, s.ShowItem(owner, "male_shirt_1"))
	require.True(t, s.ShowItem(owner, "male_pants_1"))
	require.True(t, s.ShowItem(owner, "male_shirt_2"))
	require.True(t, s.ShowItem("male_body_2_head_1", "male_shirt_1"))

	assert.Equal(t, []string{
		owner + "/male_pants_1",
		owner + "/male_shirt_2",
		"male_body_2_head_1/male_shirt_1",
	}, visibleNames(s))

	it, ok := s.VisibleItem(owner, "upper")
	require.True(t, ok)
	assert.Equal(t, "male_shirt_2", it.Name)
	shirt1, _ := s.Item(owner, "male_shirt_1")
	assert.False(t, shirt1.Visible)

	assert.False(t, s.ShowItem(owner, "female_top_1"))
}

func TestHideItemAndLocation(t *testing.T) {
	s := populated(t)
	const owner = "male_body_1_head_1"
	s.ShowItem(owner, "male_shirt_1")
	s.ShowItem(owner, "male_pants_1")

	assert.True(t, s.HideItem(owner, "male_shirt_1"))
	assert.False(t, s.HideItem(owner, "male_shirt_1"))
	_, ok := s.VisibleItem(owner, "upper")
	assert.False(t, ok)

	assert.True(t, s.HideLocation(owner, "lower"))
	assert.False(t, s.HideLocation(owner, "lower"))
	assert.Empty(t, s.VisibleItems())

	s.ShowItem(owner, "male_hat_1")
	s.ShowItem("male_body_2_head_1", "male_pants_1")
	s.HideAllItems()
	assert.Empty(t, s.VisibleItems())
	for _, n := range s.Nodes() {
		if it, ok := n.(*scene.Item); ok {
			assert.False(t, it.IsVisible())
		}
	}
}
