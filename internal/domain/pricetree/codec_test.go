package pricetree

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecode_Encode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "empty object", in: `{}`, want: `{}`},
		{name: "keys are sorted", in: `{"b": 1, "a": 2}`, want: `{"a":2,"b":1}`},
		{name: "number text preserved", in: `{"2025-09-20": 0.10}`, want: `{"2025-09-20":0.10}`},
		{name: "whitespace dropped", in: " { \"a\" : { \"b\" : [ 1 , 2 ] } } ", want: `{"a":{"b":[1,2]}}`},
		{name: "scalars", in: `{"s": "USD", "t": true, "f": false, "n": null}`, want: `{"f":false,"n":null,"s":"USD","t":true}`},
		{name: "array of objects is opaque", in: `{"a": [{"y": 1, "x": 2}]}`, want: `{"a":[{"x":2,"y":1}]}`},
		{name: "unicode keys", in: `{"é": 1}`, want: `{"é":1}`},
		{name: "top-level scalar", in: `5.5`, want: `5.5`},
		{name: "truncated", in: `{"a": {"b": 1}`, wantErr: true},
		{name: "trailing data", in: `{"a": 1} {}`, wantErr: true},
		{name: "bad token", in: `{"a": nope}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if string(got.Encode()) != tt.want {
				t.Errorf("Encode() = %s, want %s", got.Encode(), tt.want)
			}
		})
	}
}

func TestTree_Get(t *testing.T) {
	tree := mustDecode(t, `{"paper": {"tcgplayer": {"retail": {"normal": {"2025-09-20": 1.25}}}}}`)

	leaf, ok := tree.Get("paper", "tcgplayer", "retail", "normal", "2025-09-20")
	if !ok || !leaf.IsLeaf() {
		t.Fatalf("Get() = %v, %v; want a leaf", leaf, ok)
	}
	d, err := leaf.Decimal()
	if err != nil {
		t.Fatalf("Decimal() error = %v", err)
	}
	if !d.Equal(decimal.RequireFromString("1.25")) {
		t.Errorf("Decimal() = %s, want 1.25", d)
	}

	if _, ok := tree.Get("paper", "cardkingdom"); ok {
		t.Error("Get() found a missing vendor")
	}
	if _, ok := tree.Get("paper", "tcgplayer", "retail", "normal", "2025-09-20", "deeper"); ok {
		t.Error("Get() walked through a leaf")
	}
}

func TestTree_DecimalQuoted(t *testing.T) {
	leaf, err := NewLeaf([]byte(`"3.10"`))
	if err != nil {
		t.Fatal(err)
	}
	d, err := leaf.Decimal()
	if err != nil {
		t.Fatalf("Decimal() error = %v", err)
	}
	if d.String() != "3.1" {
		t.Errorf("Decimal() = %s, want 3.1", d)
	}
	if _, err := Empty().Decimal(); err == nil {
		t.Error("Decimal() on a node should fail")
	}
}

func TestTree_Walk(t *testing.T) {
	tree := mustDecode(t, `{"b": {"2": 2, "1": 1}, "a": 0}`)

	var paths [][]string
	tree.Walk(func(path []string, _ Tree) bool {
		paths = append(paths, path)
		return true
	})
	want := [][]string{{"a"}, {"b", "1"}, {"b", "2"}}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Walk() paths = %v, want %v", paths, want)
	}
	if n := tree.LeafCount(); n != 3 {
		t.Errorf("LeafCount() = %d, want 3", n)
	}
}

func TestTree_Value(t *testing.T) {
	tree := mustDecode(t, `{"paper": {"ck": {"buylist": {"foil": {"2025-09-20": 12.40}}}}, "currency": "USD"}`)

	want := map[string]interface{}{
		"paper": map[string]interface{}{
			"ck": map[string]interface{}{
				"buylist": map[string]interface{}{
					"foil": map[string]interface{}{"2025-09-20": json.Number("12.40")},
				},
			},
		},
		"currency": "USD",
	}
	if got := tree.Value(); !reflect.DeepEqual(got, want) {
		t.Errorf("Value() = %#v, want %#v", got, want)
	}
}

func TestEqual(t *testing.T) {
	a := mustDecode(t, `{"x": {"y": 1}}`)
	b := mustDecode(t, `{"x": {"y": 1}}`)
	c := mustDecode(t, `{"x": {"y": 1.0}}`)
	if !Equal(a, b) {
		t.Error("Equal() = false for identical trees")
	}
	if Equal(a, c) {
		t.Error("Equal() = true for different number text")
	}
	if Equal(a, Empty()) {
		t.Error("Equal() = true against empty")
	}
}
