// Package printer renders element trees to the readable JSX-like text used
// in snapshots. It is generic: a delegate may claim any value it encounters
// and take over serialization of that subtree.
package printer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"snapcss/node"
	"snapcss/serialize"
)

// Delegate claims and serializes values the generic printer encounters.
type Delegate interface {
	Test(v any) bool
	Print(v any, host serialize.HostPrinter) (string, error)
}

// Printer renders values to text, handing matching subtrees to its
// delegate.
type Printer struct {
	delegate Delegate
	err      error
}

// New creates a printer. A nil delegate renders everything generically.
func New(delegate Delegate) *Printer {
	return &Printer{delegate: delegate}
}

// Print renders v, consulting the delegate first.
func (p *Printer) Print(v any) (string, error) {
	p.err = nil
	if p.delegate != nil && p.delegate.Test(v) {
		out, err := p.delegate.Print(v, p.Render)
		if err != nil {
			return "", err
		}
		if p.err != nil {
			return "", p.err
		}
		return out, nil
	}
	out := p.Render(v)
	return out, p.err
}

// Render formats a value generically. Nested values still go through the
// delegate, which is what makes re-entrant serialization reachable.
func (p *Printer) Render(v any) string {
	var sb strings.Builder
	p.value(&sb, v, 0)
	return strings.TrimRight(sb.String(), "\n")
}

func (p *Printer) value(sb *strings.Builder, v any, depth int) {
	switch t := v.(type) {
	case []any:
		for _, c := range t {
			p.value(sb, c, depth)
		}
	case *node.Element:
		if t == nil {
			return
		}
		p.element(sb, t, depth)
	case nil:
		// nothing to show
	case string:
		line(sb, depth, t)
	default:
		line(sb, depth, fmt.Sprintf("%v", t))
	}
}

func (p *Printer) element(sb *strings.Builder, el *node.Element, depth int) {
	names := propNames(el)

	if len(names) == 0 && len(el.Children) == 0 {
		line(sb, depth, "<"+el.Type+" />")
		return
	}

	if len(names) == 0 {
		line(sb, depth, "<"+el.Type+">")
	} else {
		line(sb, depth, "<"+el.Type)
		for _, name := range names {
			line(sb, depth+1, name+"="+propValue(el.Props[name]))
		}
		if len(el.Children) == 0 {
			line(sb, depth, "/>")
			return
		}
		line(sb, depth, ">")
	}

	for _, c := range el.Children {
		p.child(sb, c, depth+1)
	}
	line(sb, depth, "</"+el.Type+">")
}

func (p *Printer) child(sb *strings.Builder, v any, depth int) {
	if p.delegate != nil && p.delegate.Test(v) {
		txt, err := p.delegate.Print(v, p.Render)
		if err != nil {
			if p.err == nil {
				p.err = err
			}
			return
		}
		for _, l := range strings.Split(txt, "\n") {
			if l == "" {
				sb.WriteByte('\n')
				continue
			}
			line(sb, depth, l)
		}
		return
	}
	p.value(sb, v, depth)
}

// propNames returns prop names in render order: className first, the rest
// alphabetically.
func propNames(el *node.Element) []string {
	names := make([]string, 0, len(el.Props))
	for name := range el.Props {
		if name != "className" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := el.Props["className"]; ok {
		names = append([]string{"className"}, names...)
	}
	return names
}

func propValue(v any) string {
	switch t := v.(type) {
	case string:
		return strconv.Quote(t)
	case *node.Element:
		return "{" + inline(t) + "}"
	default:
		return fmt.Sprintf("{%v}", t)
	}
}

// inline renders an element compactly for prop positions.
func inline(el *node.Element) string {
	var sb strings.Builder
	sb.WriteString("<" + el.Type)
	for _, name := range propNames(el) {
		sb.WriteString(" " + name + "=" + propValue(el.Props[name]))
	}
	if len(el.Children) == 0 {
		sb.WriteString(" />")
	} else {
		sb.WriteString(">…</" + el.Type + ">")
	}
	return sb.String()
}

func line(sb *strings.Builder, depth int, text string) {
	for range depth {
		sb.WriteString("  ")
	}
	sb.WriteString(text)
	sb.WriteByte('\n')
}
