package css

import (
	"fmt"
	"io"
	"strings"
)

// Declaration is a single property declaration inside a rule.
type Declaration struct {
	Property string
	Value    string
}

// Rule is a top-level stylesheet item: either a plain ruleset (Selectors +
// Declarations) or an at-rule (AtRule prelude, with nested Rules when the
// at-rule carries a block).
type Rule struct {
	Selectors    []string
	Declarations []Declaration

	AtRule string // raw prelude, e.g. "@media screen and (max-width: 40em)"
	Rules  []Rule // nested rules for block at-rules
}

// Stylesheet is a parsed CSS source in document order.
type Stylesheet struct {
	Rules []Rule
}

// WriteTo writes the stylesheet in its canonical pretty form, implementing
// io.WriterTo. Rules are separated by a blank line, selectors go one per
// line, declarations are indented two spaces and kept in source order.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i := range s.Rules {
		n, err := writeRule(w, &s.Rules[i], 0)
		total += int64(n)
		if err != nil {
			return total, err
		}
		if i < len(s.Rules)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the canonical CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func writeRule(w io.Writer, rule *Rule, depth int) (int, error) {
	indent := strings.Repeat("  ", depth)
	var total int

	if rule.AtRule != "" {
		if len(rule.Rules) == 0 {
			return fmt.Fprintf(w, "%s%s;\n", indent, rule.AtRule)
		}
		n, err := fmt.Fprintf(w, "%s%s {\n", indent, rule.AtRule)
		total += n
		if err != nil {
			return total, err
		}
		for i := range rule.Rules {
			n, err = writeRule(w, &rule.Rules[i], depth+1)
			total += n
			if err != nil {
				return total, err
			}
			if i < len(rule.Rules)-1 {
				n, err = fmt.Fprint(w, "\n")
				total += n
				if err != nil {
					return total, err
				}
			}
		}
		n, err = fmt.Fprintf(w, "%s}\n", indent)
		total += n
		return total, err
	}

	for i, sel := range rule.Selectors {
		sep := ",\n"
		if i == len(rule.Selectors)-1 {
			sep = " {\n"
		}
		n, err := fmt.Fprintf(w, "%s%s%s", indent, sel, sep)
		total += n
		if err != nil {
			return total, err
		}
	}
	for _, d := range rule.Declarations {
		n, err := fmt.Fprintf(w, "%s  %s: %s;\n", indent, d.Property, d.Value)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}
