package qem

import "github.com/mirstar13/qemsimplify/internal/quadric"

// face is one entry of the Simplifier's face store: a triangle's three
// vertex IDs plus its fixed fundamental quadric Kp.
//
// Invariant: if valid, the three indices are distinct and all
// reference valid vertices. Kp never changes after construction, even
// once the face becomes invalid — the published QEM convention bakes
// a dying face's contribution into both endpoint quadrics permanently
// (see quadric.Matrix.Add).
type face struct {
	indices [3]int
	kp      quadric.Matrix
	valid   bool
}

// otherCornersContain reports whether either of the two corners of f
// other than except reference vertex id. Used to detect the
// degenerate-triangle case during contraction: a face incident to both
// endpoints of a collapsing pair must die rather than be rewritten.
func (f *face) otherCornersContain(except int, id int) bool {
	return f.indices[(except+1)%3] == id || f.indices[(except+2)%3] == id
}

func newFaceQuadric(a, b, c Vector3) quadric.Matrix {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	d := -n.Dot(a)
	return quadric.FromPlane(n.X, n.Y, n.Z, d)
}
