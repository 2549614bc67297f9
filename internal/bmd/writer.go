package bmd

import (
	"bytes"
	"encoding/binary"
	"math"
)

const (
	version10    = 10
	triangleSize = 64
)

// Encode writes m as an unencrypted version 10 BMD file. Round-tripping
// through Decode preserves everything Decode reads.
func Encode(m *Model) []byte {
	var w writer
	w.buf.WriteString("BMD")
	w.buf.WriteByte(version10)
	w.str(m.Name, 32)
	w.u16(uint16(len(m.Meshes)))
	w.u16(uint16(len(m.Bones)))
	w.u16(uint16(len(m.Actions)))

	for i, mesh := range m.Meshes {
		w.i16(int16(len(mesh.Verts)))
		w.i16(int16(len(mesh.Normals)))
		w.i16(int16(len(mesh.UVs)))
		w.i16(int16(len(mesh.Tris)))
		w.i16(int16(i))
		for j, v := range mesh.Verts {
			var node int16
			if j < len(mesh.Nodes) {
				node = mesh.Nodes[j]
			}
			w.i16(node)
			w.i16(0)
			w.f32(v[0])
			w.f32(v[1])
			w.f32(v[2])
		}
		for _, n := range mesh.Normals {
			w.i16(0)
			w.i16(0)
			w.f32(n[0])
			w.f32(n[1])
			w.f32(n[2])
			w.i16(0)
			w.i16(0)
		}
		for _, uv := range mesh.UVs {
			w.f32(uv[0])
			w.f32(uv[1])
		}
		for _, tri := range mesh.Tris {
			var rec [triangleSize]byte
			rec[0] = byte(tri.Polygon)
			for k := 0; k < 4; k++ {
				binary.LittleEndian.PutUint16(rec[2+k*2:], uint16(tri.VI[k]))
				binary.LittleEndian.PutUint16(rec[10+k*2:], uint16(tri.NI[k]))
				binary.LittleEndian.PutUint16(rec[18+k*2:], uint16(tri.TI[k]))
			}
			w.buf.Write(rec[:])
		}
		w.str(mesh.TexPath, 32)
	}

	for _, a := range m.Actions {
		w.i16(int16(a.Keys))
		if a.LockPositions {
			w.buf.WriteByte(1)
			w.buf.Write(make([]byte, a.Keys*12))
		} else {
			w.buf.WriteByte(0)
		}
	}

	for _, b := range m.Bones {
		if b.IsDummy {
			w.buf.WriteByte(1)
			continue
		}
		w.buf.WriteByte(0)
		w.str(b.Name, 32)
		w.i16(int16(b.Parent))
		for a, action := range m.Actions {
			if action.Keys == 0 {
				continue
			}
			var track []Key
			if a < len(b.Tracks) {
				track = b.Tracks[a]
			}
			for k := 0; k < action.Keys; k++ {
				w.vec3(keyAt(track, k).Position)
			}
			for k := 0; k < action.Keys; k++ {
				w.vec3(keyAt(track, k).Rotation)
			}
		}
	}
	return w.buf.Bytes()
}

func keyAt(track []Key, k int) Key {
	if k < len(track) {
		return track[k]
	}
	return Key{}
}

type writer struct {
	buf bytes.Buffer
}

func (w *writer) str(s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	w.buf.Write(b)
}

func (w *writer) u16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *writer) i16(v int16) { w.u16(uint16(v)) }

func (w *writer) f32(v float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	w.buf.Write(b[:])
}

func (w *writer) vec3(v [3]float64) {
	w.f32(float32(v[0]))
	w.f32(float32(v[1]))
	w.f32(float32(v[2]))
}
