package avatar

import (
	"slices"

	"avatar-picker/internal/catalog"
	"avatar-picker/internal/scene"
)

// DefaultRequired is the completeness set when neither the catalog nor
// the engine config names one.
var DefaultRequired = []string{catalog.SlotLower, catalog.SlotUpper}

// Policy decides whether a selection may proceed.
type Policy struct {
	Required []string
}

// NewPolicy takes the required locations from the catalog settings, else
// from engine, else DefaultRequired.
func NewPolicy(cat *catalog.Catalog, engine []string) Policy {
	switch {
	case len(cat.Settings().RequiredLocations) > 0:
		return Policy{Required: slices.Clone(cat.Settings().RequiredLocations)}
	case len(engine) > 0:
		return Policy{Required: slices.Clone(engine)}
	}
	return Policy{Required: slices.Clone(DefaultRequired)}
}

// Complete reports whether exactly one body is visible and it wears an
// item at every required location.
func (p Policy) Complete(sc *scene.Scene) bool {
	body := sc.VisibleBody()
	if body == nil {
		return false
	}
	visible := 0
	for _, b := range sc.Bodies() {
		if b.Visible {
			visible++
		}
	}
	if visible != 1 {
		return false
	}
	for _, loc := range p.Required {
		if _, ok := sc.VisibleItem(body.Name, loc); !ok {
			return false
		}
	}
	return true
}

// Missing returns the required locations the visible body leaves empty.
func (p Policy) Missing(sc *scene.Scene) []string {
	body := sc.VisibleBody()
	if body == nil {
		return slices.Clone(p.Required)
	}
	var out []string
	for _, loc := range p.Required {
		if _, ok := sc.VisibleItem(body.Name, loc); !ok {
			out = append(out, loc)
		}
	}
	return out
}

// IsComplete applies the policy to the current scene.
func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy.Complete(s.scene)
}

// Missing returns the required locations still empty.
func (s *Session) Missing() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy.Missing(s.scene)
}

// Ready reports whether the selection is complete and every body has
// settled. Only then may the user proceed.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy.Complete(s.scene) && s.fullyLoaded()
}
