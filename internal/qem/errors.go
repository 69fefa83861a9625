package qem

import (
	"errors"
	"fmt"
)

// ErrHeapExhausted is returned (wrapped with the counts reached) when
// the candidate-pair heap empties before the target face count is
// reached. This is non-fatal: the caller should proceed to
// finalization with whatever reduction was achieved, per the spec's
// "heap exhaustion before target" error kind.
var ErrHeapExhausted = errors.New("qem: pair heap exhausted before target face count reached")

// invariantf panics with a formatted message. It is used for
// structural assertions that indicate a bug in this package, not bad
// input — the equivalent of the reference Rust implementation's
// assert! calls in mesh.rs (e.g. "first != second", "temp_pos !=
// second && temp_pos != first"). These never fire on well-formed input
// and are not meant to be recovered from.
func invariantf(format string, args ...any) {
	panic(fmt.Sprintf("qem: invariant violated: "+format, args...))
}
