package manifest

import (
	"strconv"
	"strings"
)

// Path is a logical location inside a parsed document: an ordered list of
// mapping keys and sequence indices, starting at the document root (empty
// path). Sequence indices are stored as decimal string segments so a single
// slice type covers both kinds of step.
type Path []string

// Child returns a new Path with the given mapping keys appended.
// The receiver is never modified; the result is always a fresh slice so
// derived paths cannot alias each other's backing arrays.
func (p Path) Child(keys ...string) Path {
	out := make(Path, 0, len(p)+len(keys))
	out = append(out, p...)
	return append(out, keys...)
}

// Index returns a new Path with the given sequence index appended.
func (p Path) Index(i int) Path {
	return p.Child(strconv.Itoa(i))
}

// Parent returns the path with its last step removed.
// The parent of the empty path is the empty path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// String renders the path for messages and JSON output, e.g.
// "spec/template/spec/containers/0/image". The root path renders as "".
func (p Path) String() string {
	return strings.Join(p, "/")
}

// pathKey builds the internal map key for a PositionIndex entry. The unit
// separator cannot occur in YAML scalar keys produced by the parser, so
// joined paths never collide.
func pathKey(p Path) string {
	return strings.Join(p, "\x1f")
}
