package bmd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// ErrEncrypted is returned for BMD versions whose payload is encrypted (12, 15).
// Avatar parts are exported unencrypted.
var ErrEncrypted = errors.New("bmd: encrypted model")

// maxMeshes guards against garbage headers.
const maxMeshes = 100

// Parse reads a BMD file and decodes it.
func Parse(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bmd: read %s: %w", path, err)
	}
	return Decode(raw, path)
}

// Decode decodes BMD bytes. name is only used in error messages.
func Decode(raw []byte, name string) (*Model, error) {
	if len(raw) < 4 || string(raw[:3]) != "BMD" {
		return nil, fmt.Errorf("bmd: invalid header in %s", name)
	}

	switch version := raw[3]; version {
	case 12, 15:
		return nil, fmt.Errorf("%w: version %d in %s", ErrEncrypted, version, name)
	}

	r := &reader{data: raw[4:]}
	return r.parse(name)
}

// SlotName returns the material slot for a texture reference:
// the lower-cased file stem ("Player/Upper.OZJ" -> "upper").
func SlotName(texPath string) string {
	texPath = strings.ReplaceAll(texPath, "\\", "/")
	base := filepath.Base(texPath)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

type reader struct {
	data []byte
	off  int
}

func (r *reader) readStr(n int) string {
	if r.off+n > len(r.data) {
		r.off = len(r.data)
		return ""
	}
	s := r.data[r.off : r.off+n]
	r.off += n
	for i, b := range s {
		if b == 0 {
			return string(s[:i])
		}
	}
	return string(s)
}

func (r *reader) readI16() int16 {
	if r.off+2 > len(r.data) {
		r.off = len(r.data)
		return 0
	}
	v := int16(binary.LittleEndian.Uint16(r.data[r.off:]))
	r.off += 2
	return v
}

func (r *reader) readU16() uint16 {
	if r.off+2 > len(r.data) {
		r.off = len(r.data)
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) readF32() float32 {
	if r.off+4 > len(r.data) {
		r.off = len(r.data)
		return 0
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v
}

func (r *reader) readByte() byte {
	if r.off >= len(r.data) {
		return 0
	}
	b := r.data[r.off]
	r.off++
	return b
}

func (r *reader) readVec3() [3]float64 {
	return [3]float64{float64(r.readF32()), float64(r.readF32()), float64(r.readF32())}
}

func (r *reader) parse(name string) (*Model, error) {
	m := &Model{Name: r.readStr(32)}
	meshCount := int(r.readU16())
	boneCount := int(r.readU16())
	actionCount := int(r.readU16())

	if meshCount > maxMeshes {
		return nil, fmt.Errorf("bmd: invalid mesh count %d in %s", meshCount, name)
	}

	m.Meshes = make([]Mesh, 0, meshCount)
	for i := 0; i < meshCount; i++ {
		nv := int(r.readI16())
		nn := int(r.readI16())
		ntc := int(r.readI16())
		nt := int(r.readI16())
		_ = r.readI16() // texture index
		if nv < 0 || nn < 0 || ntc < 0 || nt < 0 {
			return nil, fmt.Errorf("bmd: negative counts in mesh %d of %s", i, name)
		}

		// Vertices: 16 bytes each (node:i16, pad:i16, x:f32, y:f32, z:f32)
		verts := make([][3]float32, nv)
		nodes := make([]int16, nv)
		for j := 0; j < nv; j++ {
			nodes[j] = r.readI16()
			_ = r.readI16()
			verts[j] = [3]float32{r.readF32(), r.readF32(), r.readF32()}
		}

		// Normals: 20 bytes each (node:i16, pad:i16, nx, ny, nz:f32, bind:i16, pad:i16)
		normals := make([][3]float32, nn)
		for j := 0; j < nn; j++ {
			_ = r.readI16()
			_ = r.readI16()
			normals[j] = [3]float32{r.readF32(), r.readF32(), r.readF32()}
			_ = r.readI16()
			_ = r.readI16()
		}

		uvs := make([][2]float32, ntc)
		for j := 0; j < ntc; j++ {
			uvs[j] = [2]float32{r.readF32(), r.readF32()}
		}

		// Triangles: 64 bytes each
		tris := make([]Triangle, 0, nt)
		for j := 0; j < nt; j++ {
			base := r.off
			if base+triangleSize > len(r.data) {
				return nil, fmt.Errorf("bmd: truncated triangles in mesh %d of %s", i, name)
			}
			var tri Triangle
			tri.Polygon = int(r.data[base])
			for k := 0; k < 4; k++ {
				tri.VI[k] = int16(binary.LittleEndian.Uint16(r.data[base+2+k*2:]))
				tri.NI[k] = int16(binary.LittleEndian.Uint16(r.data[base+10+k*2:]))
				tri.TI[k] = int16(binary.LittleEndian.Uint16(r.data[base+18+k*2:]))
			}
			tris = append(tris, tri)
			r.off += triangleSize
		}

		texPath := strings.ReplaceAll(r.readStr(32), "\\", "/")
		m.Meshes = append(m.Meshes, Mesh{
			Verts:    verts,
			Nodes:    nodes,
			Normals:  normals,
			UVs:      uvs,
			Tris:     tris,
			TexPath:  texPath,
			Material: SlotName(texPath),
		})
	}

	m.Actions = make([]Action, actionCount)
	for a := range m.Actions {
		keys := int(r.readI16())
		if keys < 0 {
			keys = 0
		}
		lock := r.readByte() > 0
		if lock {
			r.off += keys * 12 // locked root positions, unused
		}
		m.Actions[a] = Action{Keys: keys, LockPositions: lock}
	}

	m.Bones = make([]Bone, 0, boneCount)
	for b := 0; b < boneCount; b++ {
		if r.readByte() > 0 {
			m.Bones = append(m.Bones, Bone{Parent: -1, IsDummy: true})
			continue
		}

		bone := Bone{
			Name:   r.readStr(32),
			Parent: int(r.readI16()),
			Tracks: make([][]Key, actionCount),
		}
		for a, action := range m.Actions {
			if action.Keys == 0 {
				continue
			}
			track := make([]Key, action.Keys)
			for k := range track {
				track[k].Position = r.readVec3()
			}
			for k := range track {
				track[k].Rotation = r.readVec3()
			}
			bone.Tracks[a] = track
		}
		m.Bones = append(m.Bones, bone)
	}

	if r.off > len(r.data) {
		return nil, fmt.Errorf("bmd: truncated data in %s", name)
	}
	return m, nil
}
