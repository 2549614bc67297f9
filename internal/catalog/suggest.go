package catalog

import "github.com/agnivade/levenshtein"

// Suggest returns the known name closest to name, for "did you mean"
// hints. It returns false when nothing is close enough.
func (c *Catalog) Suggest(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	best, bestDist := "", -1
	consider := func(cand string) {
		dist := levenshtein.ComputeDistance(name, cand)
		if dist > suggestLimit(len(cand)) {
			return
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && cand < best) {
			best, bestDist = cand, dist
		}
	}
	for _, b := range c.bodies {
		consider(b.Name)
	}
	for _, it := range c.items {
		consider(it.Name)
	}
	for _, s := range c.skins {
		consider(s.Name)
	}
	return best, bestDist >= 0
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
