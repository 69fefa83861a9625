package qem

import "github.com/mirstar13/qemsimplify/internal/quadric"

// vertex is one entry of the Simplifier's vertex store. Every
// cross-reference (faces, pairs) is an integer ID, never a pointer;
// see doc.go for why.
//
// Invariant: if valid, then for every faceRef{f,s} in faces,
// faces-store[f].valid && faces-store[f].indices[s] == this vertex's
// own ID. Symmetrically for pairs.
type vertex struct {
	coord Vector3
	q     quadric.Matrix
	faces []faceRef
	pairs []pairRef
	valid bool
}

// resetAsScratch clears a vertex entry for reuse as the staging slot
// during a contraction (step 4 of the contraction procedure): incident
// lists are cleared and valid is set, but coord/q are left for the
// caller to fill in immediately after.
func (v *vertex) resetAsScratch() {
	v.faces = v.faces[:0]
	v.pairs = v.pairs[:0]
	v.valid = true
}

func (v *vertex) addFace(ref faceRef) {
	v.faces = append(v.faces, ref)
}

func (v *vertex) addPair(ref pairRef) {
	v.pairs = append(v.pairs, ref)
}
