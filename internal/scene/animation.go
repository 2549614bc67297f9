package scene

import "avatar-picker/internal/skeleton"

// AnimationGroup plays one clip on a body rig and keeps every member rig
// in the same pose.
type AnimationGroup struct {
	clip    *skeleton.Clip
	body    *skeleton.Skeleton
	members []*skeleton.Skeleton
	time    float64
}

// NewAnimationGroup binds clip to body. clip may be nil for a static body.
func NewAnimationGroup(clip *skeleton.Clip, body *skeleton.Skeleton) *AnimationGroup {
	return &AnimationGroup{clip: clip, body: body}
}

// Clip returns the bound clip, or nil.
func (g *AnimationGroup) Clip() *skeleton.Clip { return g.clip }

// Add joins a member rig.
func (g *AnimationGroup) Add(s *skeleton.Skeleton) {
	g.members = append(g.members, s)
}

// Len returns the number of rigs in the group, the body included.
func (g *AnimationGroup) Len() int { return 1 + len(g.members) }

// Time returns the playback position in seconds.
func (g *AnimationGroup) Time() float64 { return g.time }

// Advance moves playback forward by dt seconds and poses every member.
// Groups without a clip do not move.
func (g *AnimationGroup) Advance(dt float64) {
	if g.clip == nil {
		return
	}
	g.time += dt
	if d := g.clip.Duration(); g.time >= d {
		g.time -= d * float64(int(g.time/d))
	}
	g.clip.Sample(g.body, g.time)
	for _, m := range g.members {
		skeleton.CopyPose(m, g.body)
	}
}
