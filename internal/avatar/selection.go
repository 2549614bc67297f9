package avatar

import (
	"fmt"

	"avatar-picker/internal/catalog"
	"avatar-picker/internal/scene"
)

// State is the current selection.
type State struct {
	Sex          string
	BodyNumber   int
	HeadNumber   int
	SelectedBody string

	// VisibleItems maps each worn location to its item.
	VisibleItems map[string]string

	// ActiveSkin is the skin applied to the selected body, or "".
	ActiveSkin string
}

type selection struct {
	sex          string
	bodyNumber   int
	headNumber   int
	selectedBody string
}

// State returns a copy of the current selection.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() State {
	st := State{
		Sex:          s.sel.sex,
		BodyNumber:   s.sel.bodyNumber,
		HeadNumber:   s.sel.headNumber,
		SelectedBody: s.sel.selectedBody,
		VisibleItems: make(map[string]string),
	}
	body := s.scene.VisibleBody()
	if body == nil {
		return st
	}
	for _, it := range s.scene.ItemsOf(body.Name) {
		if it.Visible {
			st.VisibleItems[it.Location] = it.Name
		}
	}
	if body.Skin != nil {
		st.ActiveSkin = body.Skin.Name
	}
	return st
}

// mutate runs op under the lock, then notifies observers with the
// resulting snapshot before returning op's error.
func (s *Session) mutate(op func() error) error {
	s.mu.Lock()
	err := op()
	snap := s.snapshot()
	s.mu.Unlock()
	s.notify(snap)
	return err
}

// SetSex switches to the body with the same numbers for sex. It is a
// no-op when sex is already selected.
func (s *Session) SetSex(sex string) error {
	return s.mutate(func() error {
		if sex == s.sel.sex {
			return nil
		}
		return s.switchBody(catalog.BodyName(sex, s.sel.bodyNumber, s.sel.headNumber), sex, s.sel.bodyNumber, s.sel.headNumber)
	})
}

// SetBodyByBodyNumber switches to body number n of the current sex.
func (s *Session) SetBodyByBodyNumber(n int) error {
	return s.mutate(func() error {
		return s.switchBody(catalog.BodyName(s.sel.sex, n, s.sel.headNumber), s.sel.sex, n, s.sel.headNumber)
	})
}

// SetBodyByHeadNumber switches to head number n of the current body.
func (s *Session) SetBodyByHeadNumber(n int) error {
	return s.mutate(func() error {
		return s.switchBody(catalog.BodyName(s.sel.sex, s.sel.bodyNumber, n), s.sel.sex, s.sel.bodyNumber, n)
	})
}

// SetBodyByName shows body name alone, clears every item and dresses it
// in the defaults of its sex.
//
// A name the catalog does not know still clears the scene: no body stays
// visible and ErrUnknownBody is returned. A known body that has not been
// composed yet leaves everything as it was and returns ErrBodyNotLoaded.
func (s *Session) SetBodyByName(name string) error {
	return s.mutate(func() error {
		sex, body, head := s.sel.sex, s.sel.bodyNumber, s.sel.headNumber
		if x, b, h, ok := catalog.ParseBodyName(name); ok {
			sex, body, head = x, b, h
		}
		return s.switchBody(name, sex, body, head)
	})
}

// switchBody must be called with s.mu held.
func (s *Session) switchBody(name, sex string, bodyNumber, headNumber int) error {
	if _, known := s.cat.FindBody(name); !known {
		s.scene.HideAllItems()
		s.scene.ShowBody(name)
		s.sel = selection{sex: sex, bodyNumber: bodyNumber, headNumber: headNumber, selectedBody: name}
		return s.miss("set body", name, ErrUnknownBody)
	}
	if _, composed := s.scene.Body(name); !composed {
		s.log.Warn("set body: not loaded yet", "body", name)
		return fmt.Errorf("%w: %q", ErrBodyNotLoaded, name)
	}

	s.scene.HideAllItems()
	s.scene.ShowBody(name)
	s.sel = selection{sex: sex, bodyNumber: bodyNumber, headNumber: headNumber, selectedBody: name}

	for _, item := range s.cat.DefaultItems(sex) {
		if err := s.setItem(item); err != nil {
			s.log.Debug("default item skipped", "body", name, "item", item, "err", err)
		}
	}
	if skin, ok := s.cat.DefaultSkin(sex); ok {
		if err := s.setSkin(skin); err != nil {
			s.log.Debug("default skin skipped", "body", name, "skin", skin, "err", err)
		}
	}
	return nil
}

// SetItemByName shows item name on the selected body, replacing the item
// at its location.
func (s *Session) SetItemByName(name string) error {
	return s.mutate(func() error { return s.setItem(name) })
}

func (s *Session) setItem(name string) error {
	if !s.scene.ShowItem(s.sel.selectedBody, name) {
		return s.miss("set item", name, ErrUnknownItem)
	}
	return nil
}

// RemoveItemByName hides item name on the selected body.
func (s *Session) RemoveItemByName(name string) error {
	return s.mutate(func() error {
		if !s.scene.HideItem(s.sel.selectedBody, name) {
			return s.miss("remove item", name, ErrUnknownItem)
		}
		return nil
	})
}

// RemoveItemByLocation hides whatever the selected body wears at loc.
func (s *Session) RemoveItemByLocation(loc string) error {
	return s.mutate(func() error {
		if !s.scene.HideLocation(s.sel.selectedBody, loc) {
			s.log.Warn("remove item: nothing worn", "location", loc)
			return fmt.Errorf("%w: nothing worn at %q", ErrUnknownItem, loc)
		}
		return nil
	})
}

// SetSkinByName applies all three textures of skin name to the selected
// body, or nothing: a skin with any texture missing leaves the current
// skin in place and returns ErrIncompleteSkin.
func (s *Session) SetSkinByName(name string) error {
	return s.mutate(func() error { return s.setSkin(name) })
}

func (s *Session) setSkin(name string) error {
	if _, ok := s.cat.FindSkin(name); !ok {
		return s.miss("set skin", name, ErrUnknownSkin)
	}
	st, ok := s.loader.Skins().Lookup(name)
	if !ok || !st.Complete() {
		s.log.Warn("set skin: textures missing", "skin", name)
		return fmt.Errorf("%w: %q", ErrIncompleteSkin, name)
	}
	body := s.scene.VisibleBody()
	if body == nil {
		s.log.Warn("set skin: no body", "skin", name)
		return ErrNoBody
	}
	body.ApplySkin(scene.SkinApplication{Name: st.Name, InvData: st.InvData}, st.Textures())
	return nil
}

// miss logs a lookup miss with a suggestion when one exists.
func (s *Session) miss(op, name string, err error) error {
	if hint, ok := s.cat.Suggest(name); ok && hint != name {
		s.log.Warn(op+": not found", "name", name, "did_you_mean", hint)
	} else {
		s.log.Warn(op+": not found", "name", name)
	}
	return fmt.Errorf("%w: %q", err, name)
}

// Items returns the items the selected body can wear, in scene order.
func (s *Session) Items() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, it := range s.scene.ItemsOf(s.sel.selectedBody) {
		out = append(out, it.Name)
	}
	return out
}
