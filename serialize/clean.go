package serialize

import (
	"strings"

	"snapcss/node"
)

// clean runs the in-place cleanup pass over the normalized tree. Empty
// className props are dropped so output never shows className="", and style
// descriptor remnants are removed once the owning class name is confirmed
// present in the collected set. Every node reachable here is a
// pipeline-owned copy, never caller-owned input.
func clean(nodes []*node.Element, collected []string) {
	set := make(map[string]struct{}, len(collected))
	for _, c := range collected {
		set[c] = struct{}{}
	}
	for _, el := range nodes {
		cn, present := el.Props["className"]
		name, _ := cn.(string)
		if present && strings.TrimSpace(name) == "" {
			delete(el.Props, "className")
			continue
		}
		if name == "" {
			continue
		}
		for _, tok := range strings.Fields(name) {
			if _, ok := set[tok]; ok {
				el.StyleID, el.Wrapped, el.Shallow = "", nil, false
				break
			}
		}
	}
}
