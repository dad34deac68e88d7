package serialize

import (
	"strings"

	"snapcss/node"
	"snapcss/registry"
)

// normalize is the recursive rewrite pass. Style-prop elements become plain
// elements carrying a resolved class name and element type, shallow wrappers
// are disambiguated, and every other element is passed on as a fresh
// structural copy so nothing downstream ever mutates caller-owned nodes.
func (s *Serializer) normalize(v any, snaps []registry.Snapshot) (any, error) {
	if seq, ok := v.([]any); ok {
		out := make([]any, len(seq))
		for i := range seq {
			n, err := s.normalize(seq[i], snaps)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}

	el, ok := v.(*node.Element)
	if !ok || el == nil || s.guard.contains(el) {
		// primitive, or already produced by this pipeline
		return v, nil
	}

	var out *node.Element
	switch {
	case node.IsShallowStyleProp(el):
		expected := expectedClassNames(el.StyleID, snaps)
		if overlaps(childClassNames(el.Children), expected) {
			// children already carry the resolved class names, so this
			// subtree was genuinely rendered and the wrapper is a
			// duplicate: surface the children as siblings
			return s.normalizeChildren(el.Children, snaps)
		}
		// never actually rendered: the wrapper itself is the leaf and
		// must carry the synthesized class names
		typ, err := node.DisplayName(el.Wrapped)
		if err != nil {
			return nil, err
		}
		out = el.Clone()
		out.Type = typ
		out.StyleID, out.Wrapped, out.Shallow = "", nil, false
		if out.Props == nil {
			out.Props = make(map[string]any, 1)
		}
		out.Props["className"] = joinClassNames(el.ClassName(), expected)

	case node.IsStyleProp(el):
		// rendered style-prop element: structural shape is final, only
		// the descriptor needs resolving
		typ, err := node.DisplayName(el.Wrapped)
		if err != nil {
			return nil, err
		}
		out = el.Clone()
		out.Type = typ
		out.StyleID, out.Wrapped = "", nil

	default:
		out = el.Clone()
	}

	// prop values may embed nodes of their own (render-style props)
	for k, pv := range out.Props {
		npv, err := s.normalize(pv, snaps)
		if err != nil {
			return nil, err
		}
		out.Props[k] = npv
	}
	children, err := s.normalizeChildren(out.Children, snaps)
	if err != nil {
		return nil, err
	}
	out.Children = children
	return out, nil
}

// normalizeChildren rewrites a child list, splicing one level of nesting:
// a child that expands into a sequence (a discarded wrapper yielding its
// children) contributes siblings, not a nested pair.
func (s *Serializer) normalizeChildren(children []any, snaps []registry.Snapshot) ([]any, error) {
	if children == nil {
		return nil, nil
	}
	out := make([]any, 0, len(children))
	for _, c := range children {
		n, err := s.normalize(c, snaps)
		if err != nil {
			return nil, err
		}
		if seq, ok := n.([]any); ok {
			out = append(out, seq...)
		} else {
			out = append(out, n)
		}
	}
	return out, nil
}

// expectedClassNames lists the class names a shallow wrapper would have
// produced had it been rendered: prefix + "-" + token for every key-prefix
// known to the registry and every token of the style-id.
func expectedClassNames(styleID string, snaps []registry.Snapshot) []string {
	tokens := strings.Fields(styleID)
	var out []string
	for _, snap := range snaps {
		for _, tok := range tokens {
			out = append(out, snap.Key+"-"+tok)
		}
	}
	return out
}

// childClassNames gathers class-name tokens from the direct children only.
// Evidence of real rendering sits immediately below the wrapper.
func childClassNames(children []any) []string {
	var out []string
	for _, c := range children {
		if el, ok := c.(*node.Element); ok && el != nil {
			out = append(out, strings.Fields(el.ClassName())...)
		}
	}
	return out
}

func overlaps(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	for _, s := range a {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}

// joinClassNames keeps the element's own class names first, then the
// synthesized ones in generation order.
func joinClassNames(own string, expected []string) string {
	joined := strings.Join(expected, " ")
	switch {
	case own == "":
		return joined
	case joined == "":
		return own
	}
	return own + " " + joined
}
