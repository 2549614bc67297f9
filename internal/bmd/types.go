package bmd

// Triangle holds polygon type and index triples into vertex/normal/texcoord arrays.
// Polygon == 4 means quad (two triangles: 0-1-2 and 0-2-3).
type Triangle struct {
	Polygon int
	VI      [4]int16
	NI      [4]int16
	TI      [4]int16
}

// Mesh holds parsed geometry for one sub-mesh within a BMD file.
type Mesh struct {
	Verts   [][3]float32 // bone-local positions
	Nodes   []int16      // bone index per vertex
	Normals [][3]float32
	UVs     [][2]float32
	Tris    []Triangle
	TexPath string // texture reference from BMD (e.g. "upper_m01.jpg")

	// Material is the lower-cased texture stem. Skins address meshes by it.
	Material string
}

// Key is one keyframe of a bone track.
type Key struct {
	Position [3]float64
	Rotation [3]float64 // Euler XYZ radians
}

// Bone holds one bone of the skeleton hierarchy.
// Tracks[a] holds the keyframes of action a; it is empty for actions
// without keys and for dummy bones.
type Bone struct {
	Name    string
	Parent  int
	IsDummy bool
	Tracks  [][]Key
}

// Action describes one animation clip: its key count and whether the
// root position is locked.
type Action struct {
	Keys          int
	LockPositions bool
}

// Model is a decoded BMD file.
type Model struct {
	Name    string
	Meshes  []Mesh
	Bones   []Bone
	Actions []Action
}

// Bind returns the bind pose of bone b: the first key of the first action
// that has keys, or the zero key.
func (b Bone) Bind() Key {
	for _, track := range b.Tracks {
		if len(track) > 0 {
			return track[0]
		}
	}
	return Key{}
}

// HasAnimation reports whether the model has at least one action with keys.
func (m *Model) HasAnimation() bool {
	return m.FirstAction() >= 0
}

// FirstAction returns the index of the first action with keys, or -1.
func (m *Model) FirstAction() int {
	for i, a := range m.Actions {
		if a.Keys > 0 {
			return i
		}
	}
	return -1
}

// Materials returns the distinct material slot names in mesh order.
func (m *Model) Materials() []string {
	seen := make(map[string]bool, len(m.Meshes))
	var out []string
	for _, mesh := range m.Meshes {
		if mesh.Material == "" || seen[mesh.Material] {
			continue
		}
		seen[mesh.Material] = true
		out = append(out, mesh.Material)
	}
	return out
}
