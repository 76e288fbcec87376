package registry

import (
	"sort"

	"github.com/agnivade/levenshtein"
)

// Suggest returns up to limit existing full names close to query, nearest
// first. It is meant for "did you mean" hints after a failed lookup.
func (r *Registry) Suggest(query string, limit int) []string {
	type candidate struct {
		name string
		dist int
	}

	q := fold(query)
	threshold := max(2, len(q)/3)

	var cands []candidate
	for _, k := range r.order {
		d := levenshtein.ComputeDistance(q, string(k))
		if d <= threshold {
			cands = append(cands, candidate{name: r.bundles[k].FullName(), dist: d})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })

	var out []string
	for _, c := range cands {
		if len(out) == limit {
			break
		}
		out = append(out, c.name)
	}
	return out
}
