package node_test

import (
	"strings"
	"testing"

	"snapcss/node"
)

type comp struct {
	name string
}

func (c comp) DisplayName() string { return c.name }

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want node.Kind
	}{
		{"nil", nil, node.KindPrimitive},
		{"string", "hello", node.KindPrimitive},
		{"number", 42, node.KindPrimitive},
		{"plain element", &node.Element{Type: "div"}, node.KindPlain},
		{"style prop", &node.Element{StyleID: "abc", Wrapped: "span"}, node.KindStyleProp},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := node.KindOf(tc.v); got != tc.want {
				t.Errorf("KindOf(%v) = %v, want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestCollect_PreOrder(t *testing.T) {
	leaf1 := &node.Element{Type: "span"}
	leaf2 := &node.Element{Type: "em"}
	inner := &node.Element{Type: "p", Children: []any{"text", leaf1}}
	root := &node.Element{Type: "div", Children: []any{inner, []any{leaf2}}}

	got := node.Collect(root)
	want := []*node.Element{root, inner, leaf1, leaf2}
	if len(got) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("node %d: got %s, want %s", i, got[i].Type, want[i].Type)
		}
	}
}

func TestCollect_SkipsPrimitives(t *testing.T) {
	if got := node.Collect("just text"); got != nil {
		t.Errorf("expected no nodes for a primitive, got %d", len(got))
	}
	if got := node.Collect([]any{"a", 1, nil}); got != nil {
		t.Errorf("expected no nodes for a primitive sequence, got %d", len(got))
	}
}

func TestClassNames_OrderAndDedup(t *testing.T) {
	nodes := []*node.Element{
		{Type: "div", Props: map[string]any{"className": "b a"}},
		{Type: "span", Props: map[string]any{"className": "a c"}},
		{Type: "em"},
	}
	got := node.ClassNames(nodes)
	want := []string{"b", "a", "c"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestClone_DetachedIdentity(t *testing.T) {
	orig := &node.Element{
		Type:     "div",
		Props:    map[string]any{"className": "x"},
		Children: []any{"text"},
	}
	c := orig.Clone()
	if c == orig {
		t.Fatal("clone must have a new identity")
	}
	c.Props["className"] = "y"
	c.Children[0] = "changed"
	if orig.Props["className"] != "x" {
		t.Error("clone prop mutation leaked into original")
	}
	if orig.Children[0] != "text" {
		t.Error("clone child mutation leaked into original")
	}
}

func TestDisplayName(t *testing.T) {
	if got, err := node.DisplayName("span"); err != nil || got != "span" {
		t.Errorf("DisplayName(string) = %q, %v", got, err)
	}
	if got, err := node.DisplayName(comp{name: "Button"}); err != nil || got != "Button" {
		t.Errorf("DisplayName(Named) = %q, %v", got, err)
	}
	if _, err := node.DisplayName(42); err == nil {
		t.Error("expected error for unresolvable wrapped type")
	} else if !strings.Contains(err.Error(), "unresolvable element type") {
		t.Errorf("unexpected error text: %v", err)
	}
}

func TestDecode(t *testing.T) {
	doc := `{
		"type": "div",
		"props": {"className": "x", "label": {"type": "b", "children": ["hi"]}},
		"children": ["text", {"styleId": "abc", "wrapped": "span", "shallow": true}]
	}`
	v, err := node.Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	el, ok := v.(*node.Element)
	if !ok {
		t.Fatalf("expected element, got %T", v)
	}
	if el.Type != "div" || el.Props["className"] != "x" {
		t.Errorf("unexpected element: %+v", el)
	}
	if _, ok := el.Props["label"].(*node.Element); !ok {
		t.Error("nested element in props not decoded")
	}
	if len(el.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(el.Children))
	}
	sp, ok := el.Children[1].(*node.Element)
	if !ok || sp.StyleID != "abc" || sp.Wrapped != "span" || !sp.Shallow {
		t.Errorf("style-prop child not decoded: %+v", sp)
	}
}

func TestDecode_Rejects(t *testing.T) {
	for _, src := range []string{
		`{"props": {}}`,
		`{"type": 42}`,
		`not json`,
	} {
		if _, err := node.Decode([]byte(src)); err == nil {
			t.Errorf("expected error for %s", src)
		}
	}
}
