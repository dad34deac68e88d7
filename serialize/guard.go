package serialize

import (
	"snapcss/node"
)

// guard tracks nodes already produced by this pipeline, keyed by node
// identity. It is what keeps a re-entrant host-printer callback from
// re-transforming nodes or emitting their CSS twice during one top-level
// print call.
type guard struct {
	members map[*node.Element]struct{}
}

func newGuard() *guard {
	return &guard{members: make(map[*node.Element]struct{})}
}

func (g *guard) contains(v any) bool {
	el, ok := v.(*node.Element)
	if !ok || el == nil {
		return false
	}
	_, ok = g.members[el]
	return ok
}

// register marks nodes as produced by this pipeline and returns the subset
// that was not registered before. A nested call releasing its registrations
// must not drop nodes still owned by the enclosing call.
func (g *guard) register(nodes []*node.Element) []*node.Element {
	var added []*node.Element
	for _, n := range nodes {
		if _, ok := g.members[n]; ok {
			continue
		}
		g.members[n] = struct{}{}
		added = append(added, n)
	}
	return added
}

func (g *guard) release(nodes []*node.Element) {
	for _, n := range nodes {
		delete(g.members, n)
	}
}
