// Package manifest parses Kubernetes manifest text into untyped document
// trees that preserve the source position of every mapping key, sequence
// element and scalar. Policy rules navigate the tree through the Node
// accessors; the PositionIndex maps the logical path of each finding back to
// a 1-based line/column in the original text.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseError reports malformed manifest text. It is recoverable: callers log
// it, skip the file and continue the run.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse manifest: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Document is one top-level mapping parsed from manifest text, paired with
// the position index built from the same parse tree. Immutable once parsed.
type Document struct {
	Root      *Node
	Positions *PositionIndex
}

// Parse decodes all YAML documents in data. Top-level documents that are not
// mappings (bare scalars, nulls, sequences) are skipped. A syntax error
// anywhere in the stream yields zero documents and a *ParseError; partial
// results are never returned so a file is either fully indexed or skipped.
func Parse(data []byte) ([]*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var docs []*Document
	for {
		var root yaml.Node
		err := dec.Decode(&root)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		body := documentBody(&root)
		if body == nil || body.Kind != yaml.MappingNode {
			continue
		}

		ix := newPositionIndex()
		node := convert(body, nil, ix, make(map[*yaml.Node]bool))
		docs = append(docs, &Document{Root: node, Positions: ix})
	}
	return docs, nil
}

// documentBody unwraps the DocumentNode produced by the decoder, following
// a top-level alias if present.
func documentBody(root *yaml.Node) *yaml.Node {
	n := root
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		n = n.Content[0]
	}
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// convert builds the Node tree for yn rooted at logical path p, recording
// source positions for every visited node into ix. Aliases are resolved to
// their anchor's content, so aliased subtrees are indexed at the anchor's
// original source position (matching how the values resolve); seen guards
// against recursive anchors.
func convert(yn *yaml.Node, p Path, ix *PositionIndex, seen map[*yaml.Node]bool) *Node {
	if yn == nil {
		return &Node{kind: KindNull}
	}
	if yn.Kind == yaml.AliasNode {
		if yn.Alias == nil || seen[yn.Alias] {
			return &Node{kind: KindNull, line: yn.Line, col: yn.Column}
		}
		seen[yn.Alias] = true
		n := convert(yn.Alias, p, ix, seen)
		delete(seen, yn.Alias)
		return n
	}

	pos := Position{Line: yn.Line, Col: yn.Column}

	switch yn.Kind {
	case yaml.MappingNode:
		ix.record(p, pos)
		n := &Node{
			kind:  KindMapping,
			index: make(map[string]*Node, len(yn.Content)/2),
			line:  yn.Line,
			col:   yn.Column,
		}
		for i := 0; i+1 < len(yn.Content); i += 2 {
			keyNode, valNode := yn.Content[i], yn.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				// Composite keys cannot appear in a logical path; index
				// the value subtree under the current path so its children
				// remain locatable.
				convert(valNode, p, ix, seen)
				continue
			}
			key := keyNode.Value
			childPath := p.Child(key)
			ix.record(childPath, Position{Line: keyNode.Line, Col: keyNode.Column})
			val := convert(valNode, childPath, ix, seen)
			n.entries = append(n.entries, MapEntry{Key: key, Value: val})
			n.index[key] = val
		}
		return n

	case yaml.SequenceNode:
		ix.record(p, pos)
		n := &Node{kind: KindSequence, line: yn.Line, col: yn.Column}
		for i, item := range yn.Content {
			n.items = append(n.items, convert(item, p.Index(i), ix, seen))
		}
		return n

	default: // scalar
		ix.record(p, pos)
		return &Node{
			kind:   scalarKind(yn),
			scalar: scalarValue(yn),
			line:   yn.Line,
			col:    yn.Column,
		}
	}
}

func scalarKind(yn *yaml.Node) Kind {
	if yn.Tag == "!!null" {
		return KindNull
	}
	return KindScalar
}

// scalarValue resolves a scalar node into its Go value following the node's
// resolved tag. Values that fail to decode under their tag fall back to the
// raw string rather than erroring; rules treat unexpected shapes as absent.
func scalarValue(yn *yaml.Node) any {
	switch yn.Tag {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := yn.Decode(&b); err == nil {
			return b
		}
	case "!!int":
		var i int64
		if err := yn.Decode(&i); err == nil {
			return i
		}
	case "!!float":
		var f float64
		if err := yn.Decode(&f); err == nil {
			return f
		}
	}
	return yn.Value
}
