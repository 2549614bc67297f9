// Package bmdtest builds small in-memory BMD models for tests.
package bmdtest

import (
	"fmt"

	"avatar-picker/internal/bmd"
)

// Model returns a model with a chain of bones (bone i parented to i-1),
// one two-key action, and one unit quad per material, bound to bone 0.
// Bone i binds at (0, i, 0); the second key moves it to (1, i, 0).
func Model(name string, bones int, materials ...string) *bmd.Model {
	m := &bmd.Model{
		Name:    name,
		Actions: []bmd.Action{{Keys: 2}},
	}
	for i := 0; i < bones; i++ {
		m.Bones = append(m.Bones, bmd.Bone{
			Name:   fmt.Sprintf("bone%02d", i),
			Parent: i - 1,
			Tracks: [][]bmd.Key{{
				{Position: [3]float64{0, float64(i), 0}},
				{Position: [3]float64{1, float64(i), 0}, Rotation: [3]float64{0, 0, 0.5}},
			}},
		})
	}
	for _, mat := range materials {
		m.Meshes = append(m.Meshes, Quad(mat))
	}
	return m
}

// Static returns Model without any animation action. BMD stores the bind
// pose in the first action, so every bone binds at the origin.
func Static(name string, bones int, materials ...string) *bmd.Model {
	m := Model(name, bones, materials...)
	m.Actions = nil
	for i := range m.Bones {
		m.Bones[i].Tracks = nil
	}
	return m
}

// Quad returns a unit quad mesh textured with material+".ozj".
func Quad(material string) bmd.Mesh {
	return bmd.Mesh{
		Verts:   [][3]float32{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}},
		Nodes:   []int16{0, 0, 0, 0},
		Normals: [][3]float32{{0, 0, 1}},
		UVs:     [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
		Tris: []bmd.Triangle{{
			Polygon: 4,
			VI:      [4]int16{0, 1, 2, 3},
			TI:      [4]int16{0, 1, 2, 3},
		}},
		TexPath:  material + ".ozj",
		Material: material,
	}
}
