// Package scene composes loaded bundles into body and item instances and
// keeps the indices the selection state works on.
package scene

import "fmt"

type ownedKey struct{ owner, name string }

type slotKey struct{ owner, location string }

// Scene holds every composed node in composition order. Nodes are
// hidden or shown, never removed. Visibility changes go through Scene so
// the indices stay current.
type Scene struct {
	nodes  []Node
	bodies map[string]*Body
	items  map[ownedKey]*Item
	owned  map[string][]*Item

	body    *Body
	visible map[slotKey]*Item
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{
		bodies:  make(map[string]*Body),
		items:   make(map[ownedKey]*Item),
		owned:   make(map[string][]*Item),
		visible: make(map[slotKey]*Item),
	}
}

// Add appends nodes hidden. A body name or an (owner, item name) pair
// can only be added once.
func (s *Scene) Add(nodes ...Node) error {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Body:
			if _, dup := s.bodies[n.Name]; dup {
				return fmt.Errorf("scene: body %q already composed", n.Name)
			}
			n.Visible = false
			s.bodies[n.Name] = n
		case *Item:
			k := ownedKey{n.Owner, n.Name}
			if _, dup := s.items[k]; dup {
				return fmt.Errorf("scene: item %q of %q already composed", n.Name, n.Owner)
			}
			n.Visible = false
			s.items[k] = n
			s.owned[n.Owner] = append(s.owned[n.Owner], n)
		}
		s.nodes = append(s.nodes, n)
	}
	return nil
}

// Len returns the number of nodes.
func (s *Scene) Len() int { return len(s.nodes) }

// Nodes returns all nodes in composition order.
func (s *Scene) Nodes() []Node {
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Body returns the composed body named name.
func (s *Scene) Body(name string) (*Body, bool) {
	b, ok := s.bodies[name]
	return b, ok
}

// Bodies returns the composed bodies in composition order.
func (s *Scene) Bodies() []*Body {
	var out []*Body
	for _, n := range s.nodes {
		if b, ok := n.(*Body); ok {
			out = append(out, b)
		}
	}
	return out
}

// Item returns the item name owned by body owner.
func (s *Scene) Item(owner, name string) (*Item, bool) {
	it, ok := s.items[ownedKey{owner, name}]
	return it, ok
}

// ItemsOf returns the items of owner in composition order.
func (s *Scene) ItemsOf(owner string) []*Item {
	return append([]*Item(nil), s.owned[owner]...)
}

// VisibleBody returns the visible body, or nil.
func (s *Scene) VisibleBody() *Body { return s.body }

// ShowBody makes body name the only visible body. When name is not
// composed every body is hidden and false is returned.
func (s *Scene) ShowBody(name string) bool {
	if s.body != nil {
		s.body.Visible = false
		s.body = nil
	}
	b, ok := s.bodies[name]
	if !ok {
		return false
	}
	b.Visible = true
	s.body = b
	return true
}

// HideAllItems hides every item of every body.
func (s *Scene) HideAllItems() {
	for k, it := range s.visible {
		it.Visible = false
		delete(s.visible, k)
	}
}

// ShowItem makes item name of owner visible, hiding the item it
// replaces at the same location.
func (s *Scene) ShowItem(owner, name string) bool {
	it, ok := s.items[ownedKey{owner, name}]
	if !ok {
		return false
	}
	k := slotKey{owner, it.Location}
	if prev := s.visible[k]; prev != nil {
		prev.Visible = false
	}
	it.Visible = true
	s.visible[k] = it
	return true
}

// HideItem hides item name of owner. It reports whether it was visible.
func (s *Scene) HideItem(owner, name string) bool {
	it, ok := s.items[ownedKey{owner, name}]
	if !ok || !it.Visible {
		return false
	}
	it.Visible = false
	delete(s.visible, slotKey{owner, it.Location})
	return true
}

// HideLocation hides the item owner wears at location. It reports
// whether one was visible.
func (s *Scene) HideLocation(owner, location string) bool {
	k := slotKey{owner, location}
	it, ok := s.visible[k]
	if !ok {
		return false
	}
	it.Visible = false
	delete(s.visible, k)
	return true
}

// VisibleItem returns the item owner wears at location.
func (s *Scene) VisibleItem(owner, location string) (*Item, bool) {
	it, ok := s.visible[slotKey{owner, location}]
	return it, ok
}

// VisibleItems returns the visible items of every body in composition
// order.
func (s *Scene) VisibleItems() []*Item {
	var out []*Item
	for _, n := range s.nodes {
		if it, ok := n.(*Item); ok && it.Visible {
			out = append(out, it)
		}
	}
	return out
}
