// Package node defines the element tree model being serialized.
package node

import (
	"fmt"
)

// Kind classifies a value the pipeline may encounter.
type Kind int

const (
	// KindPrimitive is an opaque leaf (string, number, nil, ...) passed
	// through untouched.
	KindPrimitive Kind = iota
	// KindPlain is a regular tree element: type, props, ordered children.
	KindPlain
	// KindStyleProp is an element declared with an inline style descriptor
	// (style-id + wrapped type) that must be resolved before printing.
	KindStyleProp
)

// Named resolves a component reference to its display name. Wrapped-type
// references that are not plain tag strings must implement it.
type Named interface {
	DisplayName() string
}

// Element is a typed node with props and ordered children, the unit being
// serialized. Children and prop values hold nested elements, element
// sequences ([]any) or primitives.
//
// A style-prop element additionally carries StyleID and Wrapped. Shallow
// marks the variant whose children reflect construction-time input rather
// than true rendered output.
type Element struct {
	Type     string
	Props    map[string]any
	Children []any

	StyleID string // opaque generated style identifier, empty on plain elements
	Wrapped any    // tag string or Named reference the style descriptor wraps
	Shallow bool   // children were never actually rendered

	// DOM marks elements originating from a DOM-like source (see the
	// domhtml adapter) rather than from the component tree.
	DOM bool
}

// KindOf classifies an arbitrary value.
func KindOf(v any) Kind {
	el, ok := v.(*Element)
	if !ok || el == nil {
		return KindPrimitive
	}
	if el.StyleID != "" {
		return KindStyleProp
	}
	return KindPlain
}

// IsPrimitive reports whether v is an opaque leaf. Sequences are not
// primitives, they are containers the walker descends into.
func IsPrimitive(v any) bool {
	switch v.(type) {
	case *Element, []any:
		return false
	}
	return true
}

// IsElement reports whether v is a tree element.
func IsElement(v any) bool {
	el, ok := v.(*Element)
	return ok && el != nil
}

// IsStyleProp reports whether v is a style-prop element.
func IsStyleProp(v any) bool {
	return KindOf(v) == KindStyleProp
}

// IsDOMElement reports whether v is an element originating from a DOM-like
// source rather than from the component tree.
func IsDOMElement(v any) bool {
	el, ok := v.(*Element)
	return ok && el != nil && el.DOM
}

// IsShallowStyleProp reports whether v is a style-prop element whose
// subtree was never actually rendered.
func IsShallowStyleProp(v any) bool {
	el, ok := v.(*Element)
	return ok && el != nil && el.StyleID != "" && el.Shallow
}

// Clone returns a shallow structural copy of e: new identity, own prop
// mapping and child slice, same references inside. This is what lets the
// pipeline mutate its output without touching caller-owned nodes.
func (e *Element) Clone() *Element {
	c := *e
	if e.Props != nil {
		c.Props = make(map[string]any, len(e.Props))
		for k, v := range e.Props {
			c.Props[k] = v
		}
	}
	if e.Children != nil {
		c.Children = append([]any(nil), e.Children...)
	}
	return &c
}

// ClassName returns the element's className prop if it is a non-empty string.
func (e *Element) ClassName() string {
	s, _ := e.Props["className"].(string)
	return s
}

// DisplayName resolves a wrapped-type reference to a printable element type.
// Plain strings are DOM-like tag names and are used verbatim; anything else
// must implement Named.
func DisplayName(wrapped any) (string, error) {
	switch t := wrapped.(type) {
	case string:
		return t, nil
	case Named:
		return t.DisplayName(), nil
	default:
		return "", fmt.Errorf("unresolvable element type: %T(%v)", wrapped, wrapped)
	}
}
