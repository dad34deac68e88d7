// Package css parses raw style source into a rule structure and prints it
// back in a canonical pretty form.
package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// ParseError reports malformed CSS source. It carries the offending raw
// text so the failure can be identified without re-running anything.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse CSS: %v\n%s", e.Err, e.Source)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser parses CSS text into structured rules. Unlike a browser it is
// strict: any tokenization or grammar failure aborts the parse.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. Malformed source fails the whole
// parse: the underlying error is logged and a ParseError naming the raw
// source is returned. No partial stylesheet is ever returned.
func (p *Parser) Parse(data []byte) (*Stylesheet, error) {
	if err := checkBalance(data); err != nil {
		p.log.Error("CSS parse error", zap.Error(err))
		return nil, &ParseError{Source: string(data), Err: err}
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	rules, err := p.parseRules(parser, false)
	if err != nil {
		p.log.Error("CSS parse error", zap.Error(err))
		return nil, &ParseError{Source: string(data), Err: err}
	}
	return &Stylesheet{Rules: rules}, nil
}

// checkBalance verifies that block braces pair up. The tokenizer below
// recovers from unbalanced blocks silently, which would turn malformed
// registry contents into quietly truncated output.
func checkBalance(data []byte) error {
	depth := 0
	for _, b := range data {
		switch b {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return errors.New("unbalanced braces: unexpected '}'")
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unbalanced braces: %d unclosed block(s)", depth)
	}
	return nil
}

// parseRules consumes grammar items until EOF (top level) or the end of the
// enclosing at-rule block.
func (p *Parser) parseRules(parser *css.Parser, inBlock bool) ([]Rule, error) {
	var (
		rules   []Rule
		pending []string
	)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			if inBlock {
				return nil, errors.New("unexpected end of input inside at-rule block")
			}
			return rules, nil

		case css.CommentGrammar:
			// ignored

		case css.AtRuleGrammar:
			rules = append(rules, Rule{AtRule: prelude(data, parser.Values())})

		case css.BeginAtRuleGrammar:
			at := prelude(data, parser.Values())
			nested, err := p.parseRules(parser, true)
			if err != nil {
				return nil, err
			}
			rules = append(rules, Rule{AtRule: at, Rules: nested})

		case css.EndAtRuleGrammar:
			if !inBlock {
				return nil, errors.New("unexpected end of at-rule block")
			}
			return rules, nil

		case css.QualifiedRuleGrammar:
			pending = append(pending, selectors(data, parser.Values())...)

		case css.BeginRulesetGrammar:
			pending = append(pending, selectors(data, parser.Values())...)
			if len(pending) == 0 {
				return nil, errors.New("ruleset without selectors")
			}
			decls, err := p.parseDeclarations(parser)
			if err != nil {
				return nil, err
			}
			rules = append(rules, Rule{Selectors: pending, Declarations: decls})
			pending = nil

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			return nil, fmt.Errorf("declaration %q outside of a ruleset", string(data))
		}
	}
}

// parseDeclarations consumes property declarations until the end of the
// current ruleset.
func (p *Parser) parseDeclarations(parser *css.Parser) ([]Declaration, error) {
	var decls []Declaration
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			return nil, errors.New("unexpected end of input inside ruleset")

		case css.EndRulesetGrammar:
			return decls, nil

		case css.CommentGrammar:
			// ignored

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			val := tokensText(parser.Values())
			if val == "" {
				return nil, fmt.Errorf("declaration %q without a value", string(data))
			}
			decls = append(decls, Declaration{Property: string(data), Value: val})
		}
	}
}

// prelude rebuilds an at-rule prelude ("@media" + condition tokens).
func prelude(data []byte, tokens []css.Token) string {
	txt := tokensText(tokens)
	if txt == "" {
		return string(data)
	}
	return string(data) + " " + txt
}

// selectors rebuilds selector strings from grammar data plus value tokens,
// splitting grouped selectors on commas.
func selectors(data []byte, tokens []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	var out []string
	for _, s := range strings.Split(sb.String(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// tokensText joins token texts, collapsing whitespace runs to single spaces.
func tokensText(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}
