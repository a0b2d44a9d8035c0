// Package pricetree models a card's price history as a tree of
// medium → vendor → listing type → finish → date → price.
//
// A Tree is either a Node (a mapping of key to sub-tree) or a Leaf holding a
// single raw JSON value. Arrays and null are leaves: they are opaque to the
// merge and replaced as a whole. The zero Tree is an empty Node, which is what
// a record that does not exist yet looks like.
//
// Trees are immutable once built; Merge shares untouched sub-trees between its
// inputs and its result.
package pricetree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

type Kind uint8

const (
	Node Kind = iota
	Leaf
)

func (k Kind) String() string {
	if k == Leaf {
		return "leaf"
	}
	return "node"
}

type Tree struct {
	kind     Kind
	raw      json.RawMessage
	children map[string]Tree
}

// Empty returns an empty node.
func Empty() Tree { return Tree{} }

// NewNode builds a node from children. The map is copied.
func NewNode(children map[string]Tree) Tree {
	if len(children) == 0 {
		return Tree{}
	}
	return Tree{kind: Node, children: maps.Clone(children)}
}

// NewLeaf builds a leaf from a raw JSON value. The value is compacted.
func NewLeaf(raw json.RawMessage) (Tree, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return Tree{}, fmt.Errorf("invalid leaf value: %w", err)
	}
	return Tree{kind: Leaf, raw: buf.Bytes()}, nil
}

// Price builds a leaf holding a decimal price.
func Price(d decimal.Decimal) Tree {
	return Tree{kind: Leaf, raw: json.RawMessage(d.String())}
}

// MustPrice parses s as a decimal price and panics if it cannot.
// Meant for fixtures and tests.
func MustPrice(s string) Tree {
	return Price(decimal.RequireFromString(s))
}

func (t Tree) Kind() Kind    { return t.kind }
func (t Tree) IsLeaf() bool  { return t.kind == Leaf }
func (t Tree) IsEmpty() bool { return t.kind == Node && len(t.children) == 0 }
func (t Tree) Raw() []byte   { return slices.Clone(t.raw) }
func (t Tree) Len() int      { return len(t.children) }

// Keys returns the node's keys in sorted order. Leaves have none.
func (t Tree) Keys() []string {
	return slices.Sorted(maps.Keys(t.children))
}

// Child returns the sub-tree under key.
func (t Tree) Child(key string) (Tree, bool) {
	c, ok := t.children[key]
	return c, ok
}

// Get walks path from t and returns the sub-tree found there.
func (t Tree) Get(path ...string) (Tree, bool) {
	cur := t
	for _, k := range path {
		if cur.kind != Node {
			return Tree{}, false
		}
		next, ok := cur.children[k]
		if !ok {
			return Tree{}, false
		}
		cur = next
	}
	return cur, true
}

// Decimal interprets a leaf as a decimal price.
func (t Tree) Decimal() (decimal.Decimal, error) {
	if t.kind != Leaf {
		return decimal.Zero, fmt.Errorf("not a leaf")
	}
	raw := t.raw
	// Some feeds quote their prices.
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	}
	return decimal.NewFromString(string(raw))
}

// Walk calls fn for every leaf, in sorted key order, with the path leading to
// it. Walking stops when fn returns false.
func (t Tree) Walk(fn func(path []string, leaf Tree) bool) {
	t.walk(nil, fn)
}

func (t Tree) walk(prefix []string, fn func([]string, Tree) bool) bool {
	if t.kind == Leaf {
		return fn(slices.Clone(prefix), t)
	}
	for _, k := range t.Keys() {
		if !t.children[k].walk(append(prefix, k), fn) {
			return false
		}
	}
	return true
}

// LeafCount counts the leaves below t.
func (t Tree) LeafCount() int {
	n := 0
	t.Walk(func([]string, Tree) bool {
		n++
		return true
	})
	return n
}

// Equal compares two trees structurally. Leaves compare by their compact
// JSON text, so 1.0 and 1.00 are different leaves.
func Equal(a, b Tree) bool {
	if a.kind != b.kind {
		return false
	}
	if a.kind == Leaf {
		return bytes.Equal(a.raw, b.raw)
	}
	if len(a.children) != len(b.children) {
		return false
	}
	for k, av := range a.children {
		bv, ok := b.children[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

func (t Tree) String() string { return string(t.Encode()) }
