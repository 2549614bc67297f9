package skeleton

import (
	"errors"
	"fmt"

	"avatar-picker/internal/bmd"
	"avatar-picker/internal/mathutil"
)

// ErrIncongruent is returned by Congruent when two rigs cannot share poses.
var ErrIncongruent = errors.New("skeleton: incongruent rigs")

// Joint is the local transform of one bone.
type Joint struct {
	Name     string
	Parent   int
	Position mathutil.Vec3
	Rotation mathutil.Quat
	Scale    mathutil.Vec3
}

// Local returns the joint transform relative to its parent.
func (j Joint) Local() mathutil.Mat4 {
	return mathutil.Compose(j.Position, j.Rotation, j.Scale)
}

// Skeleton is a bone hierarchy with cached world matrices. Joints are
// addressed by index; a parent index always precedes its child.
type Skeleton struct {
	Joints []Joint
	World  []mathutil.Mat4
}

// FromBones builds a skeleton in bind pose (first key of the first
// animated action). Dummy bones become identity roots.
func FromBones(bones []bmd.Bone) *Skeleton {
	s := &Skeleton{
		Joints: make([]Joint, len(bones)),
		World:  make([]mathutil.Mat4, len(bones)),
	}
	for i, b := range bones {
		j := Joint{Name: b.Name, Parent: b.Parent, Rotation: mathutil.QuatIdentity, Scale: mathutil.One}
		if !b.IsDummy {
			key := b.Bind()
			j.Position = key.Position
			j.Rotation = mathutil.EulerToQuat(key.Rotation[0], key.Rotation[1], key.Rotation[2])
		}
		s.Joints[i] = j
	}
	s.Update()
	return s
}

// Len returns the number of joints.
func (s *Skeleton) Len() int { return len(s.Joints) }

// Update recomputes world matrices from the joint transforms.
// Parents that do not precede the child are treated as roots.
func (s *Skeleton) Update() {
	if len(s.World) != len(s.Joints) {
		s.World = make([]mathutil.Mat4, len(s.Joints))
	}
	for i, j := range s.Joints {
		local := j.Local()
		if j.Parent >= 0 && j.Parent < i {
			s.World[i] = mathutil.Mat4Mul(s.World[j.Parent], local)
		} else {
			s.World[i] = local
		}
	}
}

// Clone returns an independent copy.
func (s *Skeleton) Clone() *Skeleton {
	c := &Skeleton{
		Joints: make([]Joint, len(s.Joints)),
		World:  make([]mathutil.Mat4, len(s.World)),
	}
	copy(c.Joints, s.Joints)
	copy(c.World, s.World)
	return c
}

// CopyPose copies position, rotation and scale of every joint of src onto
// the joint with the same index in dst, then recomputes dst's world
// matrices. Only the shared index range is copied; the count is returned.
func CopyPose(dst, src *Skeleton) int {
	n := min(len(dst.Joints), len(src.Joints))
	for i := 0; i < n; i++ {
		dst.Joints[i].Position = src.Joints[i].Position
		dst.Joints[i].Rotation = src.Joints[i].Rotation
		dst.Joints[i].Scale = src.Joints[i].Scale
	}
	dst.Update()
	return n
}

// Congruent reports whether item can be posed from body by index: same
// joint count and the same parent at every index.
func Congruent(body, item *Skeleton) error {
	if len(body.Joints) != len(item.Joints) {
		return fmt.Errorf("%w: %d bones vs %d", ErrIncongruent, len(body.Joints), len(item.Joints))
	}
	for i := range body.Joints {
		if body.Joints[i].Parent != item.Joints[i].Parent {
			return fmt.Errorf("%w: bone %d (%s) parent %d vs %d", ErrIncongruent,
				i, item.Joints[i].Name, body.Joints[i].Parent, item.Joints[i].Parent)
		}
	}
	return nil
}

// Skin returns mesh vertices in model space. Rigid skinning: one bone
// per vertex, weight 1. Vertices bound to unknown bones are left as is.
func (s *Skeleton) Skin(mesh *bmd.Mesh) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(mesh.Verts))
	for i, v := range mesh.Verts {
		p := mathutil.F32(v)
		if i < len(mesh.Nodes) {
			if b := int(mesh.Nodes[i]); b >= 0 && b < len(s.World) {
				p = s.World[b].MulPoint(p)
			}
		}
		out[i] = p
	}
	return out
}
