package pricetree

// Merge combines the stored history with an incoming delta.
//
// Keys present on one side only are carried over unchanged. When both sides
// hold a node under the same key the two nodes are merged recursively; any
// other pairing resolves to the incoming value, so a leaf is only ever
// replaced by a newer value for the same path. Nothing is deleted.
//
// Neither input is modified.
func Merge(existing, incoming Tree) Tree {
	if existing.kind != Node || incoming.kind != Node {
		return incoming
	}
	if len(incoming.children) == 0 {
		return existing
	}
	if len(existing.children) == 0 {
		return incoming
	}

	out := make(map[string]Tree, len(existing.children)+len(incoming.children))
	for k, v := range existing.children {
		out[k] = v
	}
	for k, in := range incoming.children {
		if cur, ok := out[k]; ok {
			out[k] = Merge(cur, in)
			continue
		}
		out[k] = in
	}
	return Tree{kind: Node, children: out}
}
