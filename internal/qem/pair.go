package qem

import "github.com/mirstar13/qemsimplify/internal/quadric"

// pair is a candidate contraction between two vertex IDs, first <
// second at creation time.
//
// Invariant: if valid, first != second.
type pair struct {
	first, second int
	q             quadric.Matrix
	best          Vector3
	cost          float64
	valid         bool
	dirty         bool
}

// recompute refreshes a pair's combined quadric, optimal point, and
// cost from its current endpoints' quadrics and positions. Called
// once at construction and again, lazily, whenever a dirty pair
// reaches the top of the heap (see Simplifier.nextVictim).
func (p *pair) recompute(firstV, secondV *vertex) {
	p.q = firstV.q.Add(secondV.q)
	if x, y, z, ok := quadric.Best(p.q); ok {
		p.best = Vector3{X: x, Y: y, Z: z}
	} else {
		p.best = firstV.coord.Midpoint(secondV.coord)
	}
	p.cost = p.q.Error(p.best.X, p.best.Y, p.best.Z)
	p.dirty = false
}

// rewriteEndpoint rewrites the endpoint at slot to the merged vertex
// id w, marking the pair dirty so its cached cost is recomputed before
// it can next win the heap. It returns true iff the pair's two
// endpoints remain distinct after the rewrite; the caller destroys the
// pair when it returns false, since both endpoints would otherwise
// coincide.
func (p *pair) rewriteEndpoint(slot pairSlot, w int) bool {
	p.dirty = true
	switch slot {
	case slotFirst:
		p.first = w
		return p.second != w
	case slotSecond:
		p.second = w
		return p.first != w
	default:
		invariantf("unknown pair slot %d", slot)
		return false
	}
}
