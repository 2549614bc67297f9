// Package catalogtest holds a small catalog shared by tests.
package catalogtest

import (
	"testing"

	"avatar-picker/internal/catalog"
)

// JSON is a catalog with two sexes, four bodies and a skin shared by
// three of them.
const JSON = `{
  "bodies": [
    {"name": "male_body_1_head_1", "filename": "male_body_1_head_1.bmd", "category": "body",
     "items": ["male_shirt_1", "male_pants_1", "male_shirt_2", "male_hat_1"],
     "skins": ["male_skin_1", "male_skin_2"], "inv_data": "inv-body-m11"},
    {"name": "male_body_1_head_2", "filename": "male_body_1_head_2.bmd", "category": "body",
     "items": ["male_shirt_1", "male_pants_1"], "skins": ["male_skin_1"], "inv_data": "inv-body-m12"},
    {"name": "male_body_2_head_1", "filename": "male_body_2_head_1.bmd", "category": "body",
     "items": ["male_shirt_1", "male_pants_1"], "skins": ["male_skin_1"], "inv_data": "inv-body-m21"},
    {"name": "female_body_1_head_1", "filename": "female_body_1_head_1.bmd", "category": "body",
     "items": ["female_top_1", "female_skirt_1"], "skins": ["female_skin_1"], "inv_data": "inv-body-f11"}
  ],
  "items": [
    {"name": "male_shirt_1", "filename": "male_shirt_1.bmd", "category": "item", "location": "upper", "inv_data": "inv-shirt-1"},
    {"name": "male_pants_1", "filename": "male_pants_1.bmd", "category": "item", "location": "lower", "inv_data": "inv-pants-1"},
    {"name": "male_shirt_2", "filename": "male_shirt_2.bmd", "category": "item", "location": "upper", "inv_data": "inv-shirt-2"},
    {"name": "male_hat_1", "filename": "male_hat_1.bmd", "category": "item", "location": "hat", "inv_data": "inv-hat-1"},
    {"name": "female_top_1", "filename": "female_top_1.bmd", "category": "item", "location": "upper", "inv_data": "inv-top-1"},
    {"name": "female_skirt_1", "filename": "female_skirt_1.bmd", "category": "item", "location": "lower", "inv_data": "inv-skirt-1"}
  ],
  "skins": [
    {"name": "male_skin_1", "lower": "male_skin_1_lower.png", "upper": "male_skin_1_upper.png", "head": "male_skin_1_head.png", "inv_data": "inv-skin-m1"},
    {"name": "male_skin_2", "lower": "male_skin_2_lower.png", "upper": "male_skin_2_upper.png", "head": "male_skin_2_head.png", "inv_data": "inv-skin-m2"},
    {"name": "female_skin_1", "lower": "female_skin_1_lower.png", "upper": "female_skin_1_upper.png", "head": "female_skin_1_head.png", "inv_data": "inv-skin-f1"}
  ],
  "settings": {
    "default_sex": "male",
    "default_body_number": 1,
    "default_head_number": 1,
    "default_items": {
      "male": ["male_shirt_1", "male_pants_1"],
      "female": ["female_top_1", "female_skirt_1"]
    },
    "default_skin": {"male": "male_skin_1", "female": "female_skin_1"}
  }
}`

// Catalog parses JSON.
func Catalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(JSON), catalog.FormatJSON)
	if err != nil {
		t.Fatalf("catalogtest: %v", err)
	}
	return c
}
