package avatar

import "avatar-picker/internal/inventory"

// Publish lists the inventory of the visible parts: the body, its skin
// if one is applied, then every visible item in composition order.
func (s *Session) Publish() []inventory.Ref {
	s.mu.Lock()
	defer s.mu.Unlock()

	body := s.scene.VisibleBody()
	if body == nil {
		return nil
	}
	refs := []inventory.Ref{{Kind: inventory.KindBody, Name: body.Name, InvData: body.InvData}}
	if body.Skin != nil {
		refs = append(refs, inventory.Ref{Kind: inventory.KindSkin, Name: body.Skin.Name, InvData: body.Skin.InvData})
	}
	for _, it := range s.scene.VisibleItems() {
		refs = append(refs, inventory.Ref{
			Kind:     inventory.KindItem,
			Name:     it.Name,
			Location: it.Location,
			InvData:  it.InvData,
		})
	}
	return refs
}

// PublishInvData returns Publish as a JSON array of inventory identifiers.
func (s *Session) PublishInvData() ([]byte, error) {
	return inventory.Encode(s.Publish())
}

// Manifest returns the detailed inventory record of the session.
func (s *Session) Manifest() inventory.Manifest {
	refs := s.Publish()
	st := s.State()
	return inventory.NewManifest(s.id, st.SelectedBody, s.Ready(), refs)
}
