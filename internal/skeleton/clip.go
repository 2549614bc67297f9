package skeleton

import (
	"math"

	"avatar-picker/internal/bmd"
	"avatar-picker/internal/mathutil"
)

// KeyRate is the playback rate of BMD keyframes, in keys per second.
const KeyRate = 10.0

// Clip is one looping action sampled by joint index.
type Clip struct {
	Name   string
	Keys   int
	tracks [][]bmd.Key
}

// NewClip extracts action a of m. It returns false when the action has
// no keys.
func NewClip(m *bmd.Model, a int) (*Clip, bool) {
	if a < 0 || a >= len(m.Actions) || m.Actions[a].Keys == 0 {
		return nil, false
	}
	c := &Clip{
		Name:   m.Name,
		Keys:   m.Actions[a].Keys,
		tracks: make([][]bmd.Key, len(m.Bones)),
	}
	for i, b := range m.Bones {
		if a < len(b.Tracks) {
			c.tracks[i] = b.Tracks[a]
		}
	}
	return c, true
}

// Duration is the loop length in seconds.
func (c *Clip) Duration() float64 {
	return float64(c.Keys) / KeyRate
}

// Sample poses s at time t (seconds, wrapped into the loop) and updates
// its world matrices. Joints without a track keep their pose.
func (c *Clip) Sample(s *Skeleton, t float64) {
	frame := math.Mod(t*KeyRate, float64(c.Keys))
	if frame < 0 {
		frame += float64(c.Keys)
	}
	k0 := int(frame)
	k1 := (k0 + 1) % c.Keys
	f := frame - float64(k0)

	n := min(len(s.Joints), len(c.tracks))
	for i := 0; i < n; i++ {
		track := c.tracks[i]
		if len(track) == 0 {
			continue
		}
		a, b := track[min(k0, len(track)-1)], track[min(k1, len(track)-1)]
		qa := mathutil.EulerToQuat(a.Rotation[0], a.Rotation[1], a.Rotation[2])
		qb := mathutil.EulerToQuat(b.Rotation[0], b.Rotation[1], b.Rotation[2])
		s.Joints[i].Position = mathutil.Lerp(a.Position, b.Position, f)
		s.Joints[i].Rotation = mathutil.Slerp(qa, qb, f)
	}
	s.Update()
}
