package qem

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/mirstar13/qemsimplify/internal/meshio"
)

// DefaultPairDistanceThreshold is the maximum Euclidean distance
// between two vertices for them to be considered a contraction
// candidate. The reference implementation hard-codes this at 10.0
// units; here it is a configurable field (see WithPairDistanceThreshold)
// resolving the distance-threshold Open Question.
const DefaultPairDistanceThreshold = 10.0

// Simplifier owns the vertex, face, and pair stores and the
// contraction heap for a single simplification run. It is not safe
// for concurrent use: every mutation is driven by one caller, by
// design (see doc.go and the spec's single-threaded resource model).
type Simplifier struct {
	vertices []vertex
	faces    []face
	pairs    []pair
	heap     pairRefHeap
	trash    []int

	liveFaces int

	pairDistanceThreshold float64
	logger                *slog.Logger
}

// Option configures a Simplifier at construction time.
type Option func(*Simplifier)

// WithPairDistanceThreshold overrides DefaultPairDistanceThreshold.
func WithPairDistanceThreshold(d float64) Option {
	return func(s *Simplifier) { s.pairDistanceThreshold = d }
}

// WithLogger overrides the default slog.Default() logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simplifier) { s.logger = l }
}

// New builds a Simplifier from an already-parsed mesh: vertex and face
// stores are populated, quadrics are accumulated, and the candidate
// pair heap is seeded. It does not perform any contraction; call Run
// for that.
func New(mesh *meshio.Mesh, opts ...Option) (*Simplifier, error) {
	s := &Simplifier{
		pairDistanceThreshold: DefaultPairDistanceThreshold,
		logger:                slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.loadVertices(mesh)
	if err := s.loadFaces(mesh); err != nil {
		return nil, err
	}
	s.computeVertexQuadrics()
	s.enumeratePairs()

	s.logger.Info("mesh loaded",
		"vertices", len(s.vertices)-1, // scratch slot excluded
		"faces", s.liveFaces,
		"pairs", len(s.pairs),
	)

	return s, nil
}

func (s *Simplifier) loadVertices(mesh *meshio.Mesh) {
	s.vertices = make([]vertex, 0, len(mesh.Vertices)+1)
	for _, v := range mesh.Vertices {
		s.vertices = append(s.vertices, vertex{
			coord: Vector3{X: v.X, Y: v.Y, Z: v.Z},
			valid: true,
		})
	}
	// A perpetual scratch slot at the tail, used as contraction
	// staging (step 4 of the contraction procedure). It starts
	// invalid: nothing references it yet.
	s.vertices = append(s.vertices, vertex{})
}

func (s *Simplifier) loadFaces(mesh *meshio.Mesh) error {
	s.faces = make([]face, 0, len(mesh.Triangles))
	for i, t := range mesh.Triangles {
		if t.A == t.B || t.B == t.C || t.A == t.C {
			return fmt.Errorf("qem: face %d has duplicate vertex indices", i)
		}
		a, b, c := s.vertices[t.A].coord, s.vertices[t.B].coord, s.vertices[t.C].coord
		f := face{
			indices: [3]int{t.A, t.B, t.C},
			kp:      newFaceQuadric(a, b, c),
			valid:   true,
		}
		faceID := len(s.faces)
		s.faces = append(s.faces, f)

		s.vertices[t.A].addFace(faceRef{Face: faceID, Slot: 0})
		s.vertices[t.B].addFace(faceRef{Face: faceID, Slot: 1})
		s.vertices[t.C].addFace(faceRef{Face: faceID, Slot: 2})
	}
	s.liveFaces = len(s.faces)
	return nil
}

// computeVertexQuadrics sums each vertex's incident faces' Kp into
// Qv, once, after all faces are loaded. Subsequent maintenance is
// incremental: on contraction Qw = Qu + Qv (see contract).
func (s *Simplifier) computeVertexQuadrics() {
	for i := range s.vertices {
		if !s.vertices[i].valid {
			continue
		}
		for _, ref := range s.vertices[i].faces {
			s.vertices[i].q = s.vertices[i].q.Add(s.faces[ref.Face].kp)
		}
	}
}

// enumeratePairs walks every face's three edges, deduplicates them by
// ordered (min,max) vertex id, drops any pair farther apart than
// pairDistanceThreshold, and seeds the heap with the rest. Only
// edge-adjacent pairs are generated; the "virtual pair" extension from
// the general QEM paper is not implemented.
func (s *Simplifier) enumeratePairs() {
	seen := make(map[[2]int]bool)

	addEdge := func(u, v int) {
		if u > v {
			u, v = v, u
		}
		key := [2]int{u, v}
		if seen[key] {
			return
		}
		seen[key] = true

		if s.vertices[u].coord.Distance(s.vertices[v].coord) > s.pairDistanceThreshold {
			return
		}
		s.addPair(u, v)
	}

	for _, f := range s.faces {
		addEdge(f.indices[0], f.indices[1])
		addEdge(f.indices[1], f.indices[2])
		addEdge(f.indices[2], f.indices[0])
	}
}

func (s *Simplifier) addPair(u, v int) {
	if u == v {
		invariantf("pair endpoints equal at creation: %d", u)
	}
	p := pair{first: u, second: v, valid: true}
	p.recompute(&s.vertices[u], &s.vertices[v])

	id := len(s.pairs)
	s.pairs = append(s.pairs, p)
	s.heap.push(id, p.cost)

	s.vertices[u].addPair(pairRef{Pair: id, Slot: slotFirst})
	s.vertices[v].addPair(pairRef{Pair: id, Slot: slotSecond})
}

// Run contracts pairs in ascending-cost order until the live face
// count drops to or below floor(initialFaces * scale), or the
// candidate heap is exhausted first. scale must be in [0,1]; a value
// outside that range is a usage error the CLI should reject before
// calling Run.
//
// If the heap empties before the target is reached, Run logs a
// warning and returns ErrHeapExhausted wrapping the counts actually
// achieved; this is non-fatal and the caller should proceed to
// Result() regardless.
func (s *Simplifier) Run(scale float64) error {
	initial := s.liveFaces
	target := int(math.Floor(float64(initial) * scale))

	for s.liveFaces > target {
		entry, ok := s.nextVictim()
		if !ok {
			s.logger.Warn("pair heap exhausted before target reached",
				"target", target, "reached", s.liveFaces)
			return fmt.Errorf("%w: target %d, reached %d", ErrHeapExhausted, target, s.liveFaces)
		}
		s.contract(entry.pairID)
		s.logger.Debug("contracted pair", "pair", entry.pairID, "faces", s.liveFaces)
	}
	return nil
}

// nextVictim implements the lazy invalidation/refresh discipline: it
// repeatedly peeks the heap's minimum, discarding invalid entries and
// recomputing-then-reinserting dirty ones, until either the heap is
// empty or the top entry is both valid and clean — at which point it
// is popped and returned as the next contraction.
func (s *Simplifier) nextVictim() (pairHeapEntry, bool) {
	for {
		entry, ok := s.heap.popEntry()
		if !ok {
			return pairHeapEntry{}, false
		}

		p := &s.pairs[entry.pairID]
		if !p.valid {
			continue
		}
		if p.dirty {
			p.recompute(&s.vertices[p.first], &s.vertices[p.second])
			s.heap.push(entry.pairID, p.cost)
			continue
		}
		return entry, true
	}
}

// contract merges the pair's two endpoints into one vertex at the
// best point, per the ten-step procedure of SPEC_FULL.md §4.5.
func (s *Simplifier) contract(pairID int) {
	p := &s.pairs[pairID]
	p.valid = false

	u, v := p.first, p.second
	if u == v {
		invariantf("contraction endpoints equal: %d", u)
	}

	// Step 3: recycle u and v, reclaim one slot as the merged vertex w.
	s.trash = append(s.trash, u, v)
	w := s.popTrash()

	// Step 4: stage the merge in the perpetual scratch slot (tail).
	scratch := len(s.vertices) - 1
	if scratch == u || scratch == v {
		invariantf("scratch slot collided with contraction endpoint")
	}
	s.vertices[scratch].resetAsScratch()
	s.vertices[scratch].coord = p.best
	s.vertices[scratch].q = s.vertices[u].q.Add(s.vertices[v].q)

	s.rewriteFacesOf(u, v, w, scratch)
	s.rewriteFacesOf(v, -1, w, scratch) // -1: degeneracy already resolved via u's pass
	s.rewritePairsOf(u, pairID, w, scratch)
	s.rewritePairsOf(v, pairID, w, scratch)

	s.vertices[u].valid = false
	s.vertices[v].valid = false

	// Step 10: the vertex record built up at scratch (correct coord,
	// Q, and incidence lists, all already stamped with the final ID
	// w) swaps into slot w; the stale, now-invalid data that used to
	// live at w becomes the next iteration's scratch slot at the tail.
	s.vertices[w], s.vertices[scratch] = s.vertices[scratch], s.vertices[w]
}

// popTrash pops exactly one ID off the free-list, as required by step
// 3: two IDs go in (u, v), one comes out (w), keeping |vertices|
// stable while freeing one slot for the next scratch.
func (s *Simplifier) popTrash() int {
	n := len(s.trash)
	w := s.trash[n-1]
	s.trash = s.trash[:n-1]
	return w
}

// rewriteFacesOf rewrites faces incident to src so they reference the
// merged vertex's final ID w, appending the rewritten (face,slot) to
// the scratch vertex's incidence list (the merged vertex's record is
// being built at scratch and swapped into slot w at the end of
// contract — see step 10). other is the contraction's other endpoint;
// when a face is incident to both (triangle degeneracy), it is
// invalidated instead of rewritten and the live-face counter is
// decremented. Pass other = -1 to skip the degeneracy check (used for
// the second, v-incident pass, where any remaining shared face would
// already violate the invariant — see spec §4.5 step 6).
func (s *Simplifier) rewriteFacesOf(src, other, w, scratch int) {
	for _, ref := range s.vertices[src].faces {
		f := &s.faces[ref.Face]
		if !f.valid {
			continue
		}
		if other >= 0 && f.otherCornersContain(ref.Slot, other) {
			f.valid = false
			s.liveFaces--
			continue
		}
		f.indices[ref.Slot] = w
		s.vertices[scratch].addFace(ref)
	}
}

// rewritePairsOf rewrites pairs incident to src (other than the pair
// being contracted) so their src-side endpoint becomes the merged
// vertex's final ID w, appending surviving ones to the scratch
// vertex's pair list and invalidating any that collapse onto the
// other endpoint.
func (s *Simplifier) rewritePairsOf(src, contractedPair, w, scratch int) {
	for _, ref := range s.vertices[src].pairs {
		if ref.Pair == contractedPair {
			continue
		}
		p := &s.pairs[ref.Pair]
		if p.rewriteEndpoint(ref.Slot, w) {
			s.vertices[scratch].addPair(ref)
		} else {
			p.valid = false
		}
	}
}

// LiveFaceCount returns the number of currently-valid faces.
func (s *Simplifier) LiveFaceCount() int { return s.liveFaces }

// Result compacts the surviving vertices and faces into 1-based
// contiguous output order (spec §4.6) and returns the result as a
// meshio.Mesh (0-based internally; meshio.Write re-bases to 1-based on
// output).
func (s *Simplifier) Result() *meshio.Mesh {
	remap := make(map[int]int, len(s.vertices))
	out := &meshio.Mesh{}

	for id := range s.vertices {
		v := &s.vertices[id]
		if !v.valid {
			continue
		}
		remap[id] = len(out.Vertices)
		out.Vertices = append(out.Vertices, meshio.Vector3{X: v.coord.X, Y: v.coord.Y, Z: v.coord.Z})
	}

	for _, f := range s.faces {
		if !f.valid {
			continue
		}
		out.Triangles = append(out.Triangles, meshio.Triangle{
			A: remap[f.indices[0]],
			B: remap[f.indices[1]],
			C: remap[f.indices[2]],
		})
	}

	return out
}
