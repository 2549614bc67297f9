package catalog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avatar-picker/internal/catalog"
	"avatar-picker/internal/catalog/catalogtest"
)

func TestParseSample(t *testing.T) {
	c := catalogtest.Catalog(t)

	body, ok := c.FindBody("male_body_1_head_1")
	require.True(t, ok)
	assert.Equal(t, catalog.CategoryBody, body.Category)
	assert.Equal(t, []string{"male_skin_1", "male_skin_2"}, body.Skins)

	item, ok := c.FindItem("male_pants_1")
	require.True(t, ok)
	assert.Equal(t, "lower", item.Location)

	skin, ok := c.FindSkin("male_skin_1")
	require.True(t, ok)
	assert.Equal(t, "male_skin_1_head.png", skin.Texture(catalog.SlotHead))
	assert.Equal(t, "", skin.Texture("feet"))

	_, ok = c.FindBody("male_shirt_1")
	assert.False(t, ok, "items are not bodies")
	_, ok = c.FindItem("nope")
	assert.False(t, ok)
	_, ok = c.FindSkin("nope")
	assert.False(t, ok)

	assert.Equal(t, "male_body_1_head_1", c.DefaultBodyName())
	assert.Equal(t, []string{"male_shirt_1", "male_pants_1"}, c.DefaultItems("male"))
	assert.Empty(t, c.DefaultItems("robot"))
	skinName, ok := c.DefaultSkin("female")
	assert.True(t, ok)
	assert.Equal(t, "female_skin_1", skinName)

	assert.Equal(t, []string{"upper", "lower", "hat"}, c.Locations())
	assert.Equal(t, []string{"female", "male"}, c.Sexes())
	assert.Len(t, c.Bodies(), 4)
	assert.Len(t, c.Items(), 6)
}

func TestCategoryFilledIn(t *testing.T) {
	doc := strings.ReplaceAll(catalogtest.JSON, `"category": "item", `, "")
	c, err := catalog.Parse([]byte(doc), catalog.FormatJSON)
	require.NoError(t, err)
	item, _ := c.FindItem("male_hat_1")
	assert.Equal(t, catalog.CategoryItem, item.Category)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]struct {
		old, new string
		reason   string
	}{
		"duplicate item vs body": {
			`"name": "male_hat_1"`, `"name": "male_body_2_head_1"`, "duplicate name",
		},
		"duplicate skin vs item": {
			`"name": "male_skin_2"`, `"name": "male_shirt_2"`, "duplicate name",
		},
		"missing bodies": {`"bodies"`, `"corpses"`, "missing bodies"},
		"missing items":  {"\"items\": [\n", "\"things\": [\n", "missing items"},
		"missing skins":  {"\"skins\": [\n", "\"hides\": [\n", "missing skins"},
		"missing settings": {
			`"settings"`, `"prefs"`, "missing settings",
		},
		"bad category": {
			`"location": "hat"`, `"location": "hat", "category": "hat"`, "category",
		},
		"no location": {`"location": "hat", `, "", "no location"},
		"skin texture": {
			`"head": "male_skin_2_head.png", `, "", "no head texture",
		},
		"unknown body item": {
			`"items": ["female_top_1", "female_skirt_1"], "skins"`,
			`"items": ["female_top_9"], "skins"`, "unknown item",
		},
		"unknown body skin": {
			`"skins": ["female_skin_1"]`, `"skins": ["female_skin_9"]`, "unknown skin",
		},
		"unknown default item": {
			`"male": ["male_shirt_1", "male_pants_1"]`, `"male": ["male_shirt_9"]`, "default item",
		},
		"unknown default skin": {
			`"male": "male_skin_1"`, `"male": "male_skin_9"`, "default skin",
		},
		"unknown default body": {
			`"default_head_number": 1`, `"default_head_number": 7`, "default body",
		},
		"syntax": {`"settings": {`, `"settings": {{`, "parse"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			doc := strings.Replace(catalogtest.JSON, tc.old, tc.new, 1)
			require.NotEqual(t, catalogtest.JSON, doc, "fixture edit did not apply")

			_, err := catalog.Parse([]byte(doc), catalog.FormatJSON)
			var cfgErr *catalog.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Reason, tc.reason)
		})
	}
}

const yamlDoc = `
bodies:
  - name: male_body_1_head_1
    filename: male_body_1_head_1.bmd
    items: [male_shirt_1]
    skins: [male_skin_1]
    inv_data: b1
    preload: true
items:
  - name: male_shirt_1
    filename: male_shirt_1.bmd
    location: upper
    inv_data: s1
skins:
  - name: male_skin_1
    lower: l.png
    upper: u.png
    head: h.png
    inv_data: k1
settings:
  default_sex: male
  default_body_number: 1
  default_head_number: 1
  default_items:
    male: [male_shirt_1]
  default_skin:
    male: male_skin_1
  required_locations: [upper]
`

const tomlDoc = `
bodies = [
  { name = "male_body_1_head_1", filename = "male_body_1_head_1.bmd", items = ["male_shirt_1"], skins = ["male_skin_1"], inv_data = "b1" },
]
items = [
  { name = "male_shirt_1", filename = "male_shirt_1.bmd", location = "upper", inv_data = "s1" },
]
skins = [
  { name = "male_skin_1", lower = "l.png", upper = "u.png", head = "h.png", inv_data = "k1" },
]

[settings]
default_sex = "male"
default_body_number = 1
default_head_number = 1

[settings.default_items]
male = ["male_shirt_1"]

[settings.default_skin]
male = "male_skin_1"
`

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"catalog.yaml": yamlDoc,
		"catalog.toml": tomlDoc,
		"catalog.json": catalogtest.JSON,
	}
	for name, doc := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		c, err := catalog.Load(path)
		require.NoError(t, err, name)
		body, ok := c.FindBody("male_body_1_head_1")
		require.True(t, ok, name)
		assert.Equal(t, catalog.CategoryBody, body.Category, name)
		assert.Equal(t, []string{"male_shirt_1"}, c.DefaultItems("male")[:1], name)
	}

	c, err := catalog.Load(filepath.Join(dir, "catalog.yaml"))
	require.NoError(t, err)
	body, _ := c.FindBody("male_body_1_head_1")
	assert.True(t, body.Preload)
	assert.Equal(t, []string{"upper"}, c.Settings().RequiredLocations)

	_, err = catalog.Load(filepath.Join(dir, "catalog.xml"))
	var cfgErr *catalog.ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, err = catalog.Load(filepath.Join(dir, "absent.json"))
	assert.ErrorContains(t, err, "catalog: read")
}

func TestSuggest(t *testing.T) {
	c := catalogtest.Catalog(t)

	got, ok := c.Suggest("male_shrit_1")
	assert.True(t, ok)
	assert.Equal(t, "male_shirt_1", got)

	got, ok = c.Suggest("male_skin_3")
	assert.True(t, ok)
	assert.Equal(t, "male_skin_1", got)

	_, ok = c.Suggest("wizard_robe")
	assert.False(t, ok)
	_, ok = c.Suggest("")
	assert.False(t, ok)
}

func TestBodyName(t *testing.T) {
	assert.Equal(t, "female_body_2_head_3", catalog.BodyName("female", 2, 3))

	sex, body, head, ok := catalog.ParseBodyName("dark_elf_body_12_head_3")
	require.True(t, ok)
	assert.Equal(t, "dark_elf", sex)
	assert.Equal(t, 12, body)
	assert.Equal(t, 3, head)

	_, _, _, ok = catalog.ParseBodyName("male_shirt_1")
	assert.False(t, ok)
}
