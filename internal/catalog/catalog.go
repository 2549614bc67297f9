package catalog

import (
	"fmt"
	"slices"
	"sort"
)

// Catalog is the immutable index of bodies, items and skins. Names are
// unique across all three kinds.
type Catalog struct {
	bodies   []Body
	items    []Item
	skins    []Skin
	settings Settings

	bodyIdx map[string]int
	itemIdx map[string]int
	skinIdx map[string]int
}

func build(doc document, source string) (*Catalog, error) {
	fail := func(format string, args ...any) error {
		return &ConfigError{Source: source, Reason: fmt.Sprintf(format, args...)}
	}
	switch {
	case doc.Bodies == nil:
		return nil, fail("missing bodies")
	case doc.Items == nil:
		return nil, fail("missing items")
	case doc.Skins == nil:
		return nil, fail("missing skins")
	case doc.Settings == nil:
		return nil, fail("missing settings")
	}

	c := &Catalog{
		bodies:   slices.Clone(*doc.Bodies),
		items:    slices.Clone(*doc.Items),
		skins:    slices.Clone(*doc.Skins),
		settings: *doc.Settings,
		bodyIdx:  make(map[string]int),
		itemIdx:  make(map[string]int),
		skinIdx:  make(map[string]int),
	}

	seen := make(map[string]string)
	claim := func(kind, name string) error {
		if name == "" {
			return fail("%s with empty name", kind)
		}
		if prev, dup := seen[name]; dup {
			return fail("duplicate name %q (%s and %s)", name, prev, kind)
		}
		seen[name] = kind
		return nil
	}

	for i := range c.bodies {
		b := &c.bodies[i]
		if err := claim("body", b.Name); err != nil {
			return nil, err
		}
		switch b.Category {
		case "":
			b.Category = CategoryBody
		case CategoryBody:
		default:
			return nil, fail("body %q has category %q", b.Name, b.Category)
		}
		c.bodyIdx[b.Name] = i
	}
	for i := range c.items {
		it := &c.items[i]
		if err := claim("item", it.Name); err != nil {
			return nil, err
		}
		switch it.Category {
		case "":
			it.Category = CategoryItem
		case CategoryItem:
		default:
			return nil, fail("item %q has category %q", it.Name, it.Category)
		}
		if it.Location == "" {
			return nil, fail("item %q has no location", it.Name)
		}
		c.itemIdx[it.Name] = i
	}
	for i, s := range c.skins {
		if err := claim("skin", s.Name); err != nil {
			return nil, err
		}
		for _, slot := range SkinSlots {
			if s.Texture(slot) == "" {
				return nil, fail("skin %q has no %s texture", s.Name, slot)
			}
		}
		c.skinIdx[s.Name] = i
	}

	for _, b := range c.bodies {
		for _, name := range b.Items {
			if _, ok := c.itemIdx[name]; !ok {
				return nil, fail("body %q references unknown item %q", b.Name, name)
			}
		}
		for _, name := range b.Skins {
			if _, ok := c.skinIdx[name]; !ok {
				return nil, fail("body %q references unknown skin %q", b.Name, name)
			}
		}
	}

	st := c.settings
	for sex, names := range st.DefaultItems {
		for _, name := range names {
			if _, ok := c.itemIdx[name]; !ok {
				return nil, fail("default item %q for %s is unknown", name, sex)
			}
		}
	}
	for sex, name := range st.DefaultSkin {
		if _, ok := c.skinIdx[name]; !ok {
			return nil, fail("default skin %q for %s is unknown", name, sex)
		}
	}
	if _, ok := c.bodyIdx[c.DefaultBodyName()]; !ok {
		return nil, fail("default body %q is not in the catalog", c.DefaultBodyName())
	}
	return c, nil
}

// FindBody returns the body named name.
func (c *Catalog) FindBody(name string) (Body, bool) {
	i, ok := c.bodyIdx[name]
	if !ok {
		return Body{}, false
	}
	return c.bodies[i], true
}

// FindItem returns the item named name.
func (c *Catalog) FindItem(name string) (Item, bool) {
	i, ok := c.itemIdx[name]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// FindSkin returns the skin named name.
func (c *Catalog) FindSkin(name string) (Skin, bool) {
	i, ok := c.skinIdx[name]
	if !ok {
		return Skin{}, false
	}
	return c.skins[i], true
}

// Bodies returns all bodies in document order.
func (c *Catalog) Bodies() []Body { return slices.Clone(c.bodies) }

// Items returns all items in document order.
func (c *Catalog) Items() []Item { return slices.Clone(c.items) }

// Settings returns the document settings.
func (c *Catalog) Settings() Settings { return c.settings }

// Locations returns the distinct item locations in first-appearance order.
func (c *Catalog) Locations() []string {
	var out []string
	for _, it := range c.items {
		if !slices.Contains(out, it.Location) {
			out = append(out, it.Location)
		}
	}
	return out
}

// Sexes returns the sexes named by the settings, sorted.
func (c *Catalog) Sexes() []string {
	set := map[string]bool{c.settings.DefaultSex: true}
	for sex := range c.settings.DefaultItems {
		set[sex] = true
	}
	for sex := range c.settings.DefaultSkin {
		set[sex] = true
	}
	out := make([]string, 0, len(set))
	for sex := range set {
		if sex != "" {
			out = append(out, sex)
		}
	}
	sort.Strings(out)
	return out
}

// DefaultBodyName derives the startup body from the settings.
func (c *Catalog) DefaultBodyName() string {
	st := c.settings
	return BodyName(st.DefaultSex, st.DefaultBodyNumber, st.DefaultHeadNumber)
}

// DefaultItems returns the items a body of sex is dressed in on selection.
func (c *Catalog) DefaultItems(sex string) []string {
	return slices.Clone(c.settings.DefaultItems[sex])
}

// DefaultSkin returns the skin applied to a body of sex on selection.
func (c *Catalog) DefaultSkin(sex string) (string, bool) {
	name, ok := c.settings.DefaultSkin[sex]
	return name, ok
}
