package pricetree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
)

// Decode parses a JSON document into a Tree. Objects become nodes, anything
// else becomes a leaf. Number text is preserved as written.
func Decode(data []byte) (Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	t, err := decodeValue(dec)
	if err != nil {
		return Tree{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Tree{}, fmt.Errorf("unexpected data after price tree")
	}
	return t, nil
}

// DecodeFrom reads exactly one JSON value from dec. The decoder should have
// UseNumber enabled so prices keep their exact text.
func DecodeFrom(dec *json.Decoder) (Tree, error) {
	return decodeValue(dec)
}

func decodeValue(dec *json.Decoder) (Tree, error) {
	tok, err := dec.Token()
	if err != nil {
		return Tree{}, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return Tree{}, fmt.Errorf("unexpected delimiter %q", v)
		}
	default:
		return scalarLeaf(v)
	}
}

func decodeObject(dec *json.Decoder) (Tree, error) {
	children := make(map[string]Tree)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Tree{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Tree{}, fmt.Errorf("object key is %T, not a string", tok)
		}
		child, err := decodeValue(dec)
		if err != nil {
			return Tree{}, fmt.Errorf("%s: %w", key, err)
		}
		children[key] = child
	}
	if _, err := dec.Token(); err != nil { // '}'
		return Tree{}, err
	}
	if len(children) == 0 {
		return Tree{}, nil
	}
	return Tree{kind: Node, children: children}, nil
}

// decodeArray re-encodes the array as one opaque leaf.
func decodeArray(dec *json.Decoder) (Tree, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	first := true
	for dec.More() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		elem, err := decodeValue(dec)
		if err != nil {
			return Tree{}, err
		}
		elem.encode(&buf)
	}
	if _, err := dec.Token(); err != nil { // ']'
		return Tree{}, err
	}
	buf.WriteByte(']')
	return Tree{kind: Leaf, raw: buf.Bytes()}, nil
}

func scalarLeaf(tok json.Token) (Tree, error) {
	switch v := tok.(type) {
	case nil:
		return Tree{kind: Leaf, raw: json.RawMessage("null")}, nil
	case bool:
		if v {
			return Tree{kind: Leaf, raw: json.RawMessage("true")}, nil
		}
		return Tree{kind: Leaf, raw: json.RawMessage("false")}, nil
	case json.Number:
		return Tree{kind: Leaf, raw: json.RawMessage(v.String())}, nil
	case float64:
		return Tree{kind: Leaf, raw: json.RawMessage(decimal.NewFromFloat(v).String())}, nil
	case string:
		b, err := json.Marshal(v)
		if err != nil {
			return Tree{}, err
		}
		return Tree{kind: Leaf, raw: b}, nil
	default:
		return Tree{}, fmt.Errorf("unexpected token %T", tok)
	}
}

// Encode returns the canonical JSON form of t: compact, object keys sorted.
// Equal trees always encode to identical bytes.
func (t Tree) Encode() []byte {
	var buf bytes.Buffer
	t.encode(&buf)
	return buf.Bytes()
}

func (t Tree) encode(buf *bytes.Buffer) {
	if t.kind == Leaf {
		buf.Write(t.raw)
		return
	}
	keys := make([]string, 0, len(t.children))
	for k := range t.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		buf.Write(kb)
		buf.WriteByte(':')
		t.children[k].encode(buf)
	}
	buf.WriteByte('}')
}

func (t Tree) MarshalJSON() ([]byte, error) { return t.Encode(), nil }

func (t *Tree) UnmarshalJSON(data []byte) error {
	parsed, err := Decode(data)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value converts t to plain Go values: map[string]interface{} for nodes,
// json.Number for numeric leaves and the natural Go type for other leaves.
func (t Tree) Value() interface{} {
	if t.kind == Leaf {
		dec := json.NewDecoder(bytes.NewReader(t.raw))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil
		}
		return v
	}
	out := make(map[string]interface{}, len(t.children))
	for k, c := range t.children {
		out[k] = c.Value()
	}
	return out
}
