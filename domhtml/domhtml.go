// Package domhtml adapts parsed HTML fragments to the element tree model so
// DOM-like sources can run through the same snapshot pipeline as component
// trees.
package domhtml

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"snapcss/node"
)

// ParseFragment parses an HTML fragment (body context) and returns its
// top-level values: DOM-marked elements and text primitives.
func ParseFragment(r io.Reader) ([]any, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(r, ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to parse HTML fragment: %w", err)
	}
	var out []any
	for _, n := range nodes {
		if v := convert(n); v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

func convert(n *html.Node) any {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return strings.TrimSpace(n.Data)
	case html.ElementNode:
		el := &node.Element{Type: n.Data, DOM: true}
		if len(n.Attr) > 0 {
			el.Props = make(map[string]any, len(n.Attr))
			for _, a := range n.Attr {
				key := a.Key
				if key == "class" {
					key = "className"
				}
				el.Props[key] = a.Val
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if v := convert(c); v != nil {
				el.Children = append(el.Children, v)
			}
		}
		return el
	}
	return nil
}
