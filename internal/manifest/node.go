package manifest

// Kind discriminates the closed set of node variants a parsed document is
// built from.
type Kind int

const (
	KindNull Kind = iota
	KindScalar
	KindMapping
	KindSequence
)

// MapEntry is one key/value pair of a mapping node, in source order.
type MapEntry struct {
	Key   string
	Value *Node
}

// Node is one vertex of a parsed document tree: a mapping, a sequence, a
// scalar, or null. All accessors are nil-receiver safe and return "absent"
// zero values on shape mismatch, so callers can chain lookups over untyped
// manifest structure without guarding every step.
type Node struct {
	kind    Kind
	scalar  any // string, bool, int64 or float64 for KindScalar
	entries []MapEntry
	index   map[string]*Node
	items   []*Node
	line    int
	col     int
}

// Line returns the 1-based source line of the node, or 0 for a nil node.
func (n *Node) Line() int {
	if n == nil {
		return 0
	}
	return n.line
}

// Column returns the 1-based source column of the node, or 0 for a nil node.
func (n *Node) Column() int {
	if n == nil {
		return 0
	}
	return n.col
}

// Kind returns the node variant. A nil node reports KindNull.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

func (n *Node) IsMapping() bool  { return n != nil && n.kind == KindMapping }
func (n *Node) IsSequence() bool { return n != nil && n.kind == KindSequence }
func (n *Node) IsScalar() bool   { return n != nil && n.kind == KindScalar }

// Get returns the value for key when the node is a mapping and the key is
// present; nil otherwise.
func (n *Node) Get(key string) *Node {
	if n == nil || n.kind != KindMapping {
		return nil
	}
	return n.index[key]
}

// Map returns the value for key only when that value is itself a mapping.
func (n *Node) Map(key string) *Node {
	v := n.Get(key)
	if v.IsMapping() {
		return v
	}
	return nil
}

// Has reports whether key is present in the mapping, regardless of its
// value's shape.
func (n *Node) Has(key string) bool {
	if n == nil || n.kind != KindMapping {
		return false
	}
	_, ok := n.index[key]
	return ok
}

// Entries returns the mapping's key/value pairs in source order.
func (n *Node) Entries() []MapEntry {
	if n == nil {
		return nil
	}
	return n.entries
}

// Items returns the sequence's elements in source order, or nil when the
// node is not a sequence.
func (n *Node) Items() []*Node {
	if n == nil || n.kind != KindSequence {
		return nil
	}
	return n.items
}

// Str returns the node's string value. ok is false for non-string scalars
// and non-scalar nodes.
func (n *Node) Str() (string, bool) {
	if n == nil || n.kind != KindScalar {
		return "", false
	}
	s, ok := n.scalar.(string)
	return s, ok
}

// StrOr returns the node's string value or def when absent.
func (n *Node) StrOr(def string) string {
	if s, ok := n.Str(); ok {
		return s
	}
	return def
}

// Bool returns the node's boolean value. ok is false unless the node is a
// boolean scalar; the string "true" is not a boolean.
func (n *Node) Bool() (bool, bool) {
	if n == nil || n.kind != KindScalar {
		return false, false
	}
	b, ok := n.scalar.(bool)
	return b, ok
}

// IsTrue reports whether the node is exactly the boolean scalar true.
// This is the strict check required by the hardening rules: "true" (string),
// 1, or an absent key never satisfy it.
func (n *Node) IsTrue() bool {
	b, ok := n.Bool()
	return ok && b
}

// Len returns the number of entries or items of a composite node, and 0 for
// scalars and null.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.kind {
	case KindMapping:
		return len(n.entries)
	case KindSequence:
		return len(n.items)
	default:
		return 0
	}
}

// Truthy reports loose truthiness: null and absent nodes are false, booleans
// are themselves, numbers are true when non-zero, strings when non-empty,
// and composites when non-empty. The "is true" error rules (hostNetwork,
// hostPID, hostIPC, privileged) use this; hardening rules use IsTrue.
func (n *Node) Truthy() bool {
	if n == nil {
		return false
	}
	switch n.kind {
	case KindNull:
		return false
	case KindMapping, KindSequence:
		return n.Len() > 0
	}
	switch v := n.scalar.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}
