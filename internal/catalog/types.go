package catalog

import (
	"fmt"
	"regexp"
	"strconv"
)

// Categories of catalog entries.
const (
	CategoryBody = "body"
	CategoryItem = "item"
)

// Skin texture slots. Body meshes name their material after one of these.
const (
	SlotLower = "lower"
	SlotUpper = "upper"
	SlotHead  = "head"
)

// SkinSlots lists the texture slots every skin fills, in application order.
var SkinSlots = []string{SlotLower, SlotUpper, SlotHead}

// Body is the base mesh and rig of one sex/body/head variant.
type Body struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Filename string   `json:"filename" yaml:"filename" toml:"filename"`
	Category string   `json:"category" yaml:"category" toml:"category"`
	Items    []string `json:"items" yaml:"items" toml:"items"`
	Skins    []string `json:"skins" yaml:"skins" toml:"skins"`
	InvData  string   `json:"inv_data" yaml:"inv_data" toml:"inv_data"`

	// Preload puts the body on the startup critical path next to the
	// default body.
	Preload bool `json:"preload,omitempty" yaml:"preload,omitempty" toml:"preload,omitempty"`
}

// Item is an attachable mesh worn in one location.
type Item struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Filename string `json:"filename" yaml:"filename" toml:"filename"`
	Category string `json:"category" yaml:"category" toml:"category"`
	Location string `json:"location" yaml:"location" toml:"location"`
	InvData  string `json:"inv_data" yaml:"inv_data" toml:"inv_data"`
}

// Skin is a named set of three body textures.
type Skin struct {
	Name    string `json:"name" yaml:"name" toml:"name"`
	Lower   string `json:"lower" yaml:"lower" toml:"lower"`
	Upper   string `json:"upper" yaml:"upper" toml:"upper"`
	Head    string `json:"head" yaml:"head" toml:"head"`
	InvData string `json:"inv_data" yaml:"inv_data" toml:"inv_data"`
}

// Texture returns the texture source of slot, or "" for an unknown slot.
func (s Skin) Texture(slot string) string {
	switch slot {
	case SlotLower:
		return s.Lower
	case SlotUpper:
		return s.Upper
	case SlotHead:
		return s.Head
	}
	return ""
}

// Settings holds the defaults applied at startup and on every body switch.
type Settings struct {
	DefaultSex        string              `json:"default_sex" yaml:"default_sex" toml:"default_sex"`
	DefaultBodyNumber int                 `json:"default_body_number" yaml:"default_body_number" toml:"default_body_number"`
	DefaultHeadNumber int                 `json:"default_head_number" yaml:"default_head_number" toml:"default_head_number"`
	DefaultItems      map[string][]string `json:"default_items" yaml:"default_items" toml:"default_items"`
	DefaultSkin       map[string]string   `json:"default_skin" yaml:"default_skin" toml:"default_skin"`

	// RequiredLocations overrides the engine's completeness slots.
	RequiredLocations []string `json:"required_locations,omitempty" yaml:"required_locations,omitempty" toml:"required_locations,omitempty"`
}

// BodyName derives the catalog name of a body variant.
func BodyName(sex string, body, head int) string {
	return fmt.Sprintf("%s_body_%d_head_%d", sex, body, head)
}

var bodyNameRE = regexp.MustCompile(`^(.+)_body_(\d+)_head_(\d+)$`)

// ParseBodyName splits a name built by BodyName. ok is false for names of
// any other shape.
func ParseBodyName(name string) (sex string, body, head int, ok bool) {
	m := bodyNameRE.FindStringSubmatch(name)
	if m == nil {
		return "", 0, 0, false
	}
	body, _ = strconv.Atoi(m[2])
	head, _ = strconv.Atoi(m[3])
	return m[1], body, head, true
}

// ConfigError reports a malformed or unresolvable catalog document.
type ConfigError struct {
	Source string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return "catalog: " + e.Reason
	}
	return fmt.Sprintf("catalog: %s: %s", e.Source, e.Reason)
}
