package preview

import (
	"regexp"
	"strings"

	"avatar-picker/internal/bmd"
)

// Effect overlays (auras, glows, trails) are drawn additively in game and
// come out as opaque blobs in a still, so they are skipped.
var effectPatterns = []string{
	"glow", "flare", "chrome", "effect", "aura", "shiny", "spark",
	"fire", "blur", "energy", "plasma", "shine", "halo", "trail",
	"gradation", "force", "shockwave",
}

var gradientEffectRE = regexp.MustCompile(`^(?:mini_)?gra(?:\d|_|$)`)

// underlayRE matches body skin and hair meshes that some item models carry
// under the equipment piece. The worn body already draws them.
var underlayRE = regexp.MustCompile(`^(?:nude_|skin_|hqskin|level_man\d+|(?:hq)?hair_r)`)

func effectMesh(m *bmd.Mesh) bool {
	stem := m.Material
	if stem == "" {
		return false
	}
	if gradientEffectRE.MatchString(stem) || strings.HasPrefix(stem, "flame") {
		return true
	}
	for _, p := range effectPatterns {
		if strings.Contains(stem, p) {
			return true
		}
	}
	return false
}

func underlayMesh(m *bmd.Mesh) bool {
	return m.Material != "" && underlayRE.MatchString(m.Material)
}
