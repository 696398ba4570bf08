package manifest

// Position is a 1-based (line, column) pair in the original document text.
type Position struct {
	Line int
	Col  int
}

// rootPosition is returned when not even the document root has a recorded
// position. Annotations require line and column of at least 1.
var rootPosition = Position{Line: 1, Col: 1}

// PositionIndex maps logical paths to source positions. It is built once per
// document and read-only afterward. Every mapping, sequence and scalar node
// present in the document tree has an entry; a path whose key is absent from
// the source (for example a missing hardening field) has none, which is what
// Lookup's ancestor fallback is for.
type PositionIndex struct {
	byPath map[string]Position
}

func newPositionIndex() *PositionIndex {
	return &PositionIndex{byPath: make(map[string]Position)}
}

func (ix *PositionIndex) record(p Path, pos Position) {
	ix.byPath[pathKey(p)] = pos
}

// At returns the exact position recorded for p, if any.
func (ix *PositionIndex) At(p Path) (Position, bool) {
	if ix == nil {
		return Position{}, false
	}
	pos, ok := ix.byPath[pathKey(p)]
	return pos, ok
}

// Lookup returns the position of the longest prefix of p present in the
// index, walking from the exact path back towards the document root. When no
// prefix at all is indexed it returns (1,1), so findings about absent fields
// always point at the nearest existing ancestor and never at (0,0).
func (ix *PositionIndex) Lookup(p Path) Position {
	if ix == nil {
		return rootPosition
	}
	for ; len(p) > 0; p = p.Parent() {
		if pos, ok := ix.byPath[pathKey(p)]; ok {
			return pos
		}
	}
	if pos, ok := ix.byPath[pathKey(nil)]; ok {
		return pos
	}
	return rootPosition
}

// Len returns the number of indexed paths.
func (ix *PositionIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.byPath)
}
