package node

import (
	"strings"
)

// Collect flattens a value into the ordered list of element nodes it
// contains: pre-order, parent before children, descending through sequences
// and child lists. Primitives and bare sequences do not appear as entries.
func Collect(v any) []*Element {
	var out []*Element
	collect(v, &out)
	return out
}

func collect(v any, out *[]*Element) {
	switch t := v.(type) {
	case []any:
		for _, c := range t {
			collect(c, out)
		}
	case *Element:
		if t == nil {
			return
		}
		*out = append(*out, t)
		for _, c := range t.Children {
			collect(c, out)
		}
	}
}

// ClassNames returns every class-name token present on the given nodes in
// first-seen traversal order, deduplicated. Multiple tokens may appear
// space-separated in one className prop value.
func ClassNames(nodes []*Element) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, n := range nodes {
		for _, tok := range strings.Fields(n.ClassName()) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			out = append(out, tok)
		}
	}
	return out
}
