// Package inventory encodes the published inventory of an avatar.
package inventory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Kinds of inventory entries.
const (
	KindBody = "body"
	KindSkin = "skin"
	KindItem = "item"
)

// Ref is one published inventory entry.
type Ref struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
	InvData  string `json:"inv_data"`
}

// InvData returns the inventory identifiers of refs, in order.
func InvData(refs []Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.InvData
	}
	return out
}

// Encode returns the JSON array of inventory identifiers. An empty
// inventory encodes as [].
func Encode(refs []Ref) ([]byte, error) {
	data, err := json.Marshal(InvData(refs))
	if err != nil {
		return nil, fmt.Errorf("inventory: encode: %w", err)
	}
	return data, nil
}

// Manifest is the detailed record written next to the plain array.
type Manifest struct {
	Session string   `json:"session"`
	Body    string   `json:"body"`
	Ready   bool     `json:"ready"`
	Entries []Ref    `json:"entries"`
	InvData []string `json:"inv_data"`
}

// NewManifest builds a manifest for refs.
func NewManifest(session, body string, ready bool, refs []Ref) Manifest {
	if refs == nil {
		refs = []Ref{}
	}
	return Manifest{
		Session: session,
		Body:    body,
		Ready:   ready,
		Entries: refs,
		InvData: InvData(refs),
	}
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("inventory: encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("inventory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("inventory: write %s: %w", path, err)
	}
	return nil
}
