// Package serialize turns element trees with generated style identifiers
// into stable snapshot text: opaque class names become deterministic
// aliases and the style rules they map to are resolved from the runtime
// registry, pretty-printed and spliced into the output.
package serialize

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"snapcss/css"
	"snapcss/node"
	"snapcss/registry"
)

// HostPrinter produces text for a normalized tree. It is an opaque external
// callback and may recurse back into this package while printing.
type HostPrinter func(v any) string

// Options configures a Serializer. The zero value is usable.
type Options struct {
	// ClassNameReplacer overrides alias generation for rewritten class
	// names. Defaults to DefaultReplacer.
	ClassNameReplacer Replacer
	// DOMElements enables matching plain DOM-like elements in addition to
	// tree elements. Defaults to true.
	DOMElements *bool
	// Registry overrides the style registry consulted during resolution.
	// Defaults to registry.Default.
	Registry *registry.Registry
	// Logger defaults to a nop logger.
	Logger *zap.Logger
}

// Serializer is the snapshot pipeline: normalize, collect, resolve styles,
// clean, print, stabilize.
type Serializer struct {
	replacer    Replacer
	domElements bool
	reg         *registry.Registry
	css         *css.Parser
	log         *zap.Logger
	guard       *guard
}

// New creates a configured Serializer.
func New(opts Options) *Serializer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = registry.Default
	}
	domElements := true
	if opts.DOMElements != nil {
		domElements = *opts.DOMElements
	}
	return &Serializer{
		replacer:    opts.ClassNameReplacer,
		domElements: domElements,
		reg:         reg,
		css:         css.NewParser(log),
		log:         log.Named("serializer"),
		guard:       newGuard(),
	}
}

// Default is the zero-configuration instance.
var Default = New(Options{})

// Test reports whether Default would serialize v.
func Test(v any) bool { return Default.Test(v) }

// Print serializes v through the Default instance.
func Print(v any, host HostPrinter) (string, error) { return Default.Print(v, host) }

// Test reports whether v is a value this serializer handles: a non-nil
// element that this pipeline has not already produced. DOM-like elements
// match only when enabled.
func (s *Serializer) Test(v any) bool {
	el, ok := v.(*node.Element)
	if !ok || el == nil {
		return false
	}
	if s.guard.contains(el) {
		return false
	}
	if node.IsDOMElement(el) {
		return s.domElements
	}
	return true
}

// Print runs the pipeline on v and returns the snapshot text. A nested call
// (the host printer recursing into output this pipeline already produced
// earlier in the same top-level call) returns the host text unchanged so
// CSS is never emitted twice; the top-level call additionally stabilizes
// class names and splices in the CSS block.
func (s *Serializer) Print(v any, host HostPrinter) (string, error) {
	// captured before anything else: registration of v is what marks this
	// exact call as a recursion into our own output
	nested := s.guard.contains(v)

	snaps := s.reg.StyleElements()

	norm, err := s.normalize(v, snaps)
	if err != nil {
		return "", err
	}

	nodes := node.Collect(norm)
	added := s.guard.register(nodes)
	// the guard must drain on every exit path, host failures included
	defer s.guard.release(added)

	classNames := node.ClassNames(nodes)
	prettyCSS, err := s.resolveStyles(classNames, snaps)
	if err != nil {
		return "", err
	}

	clean(nodes, classNames)

	text := host(norm)
	if nested {
		return text, nil
	}

	s.log.Debug("Snapshot printed",
		zap.Int("nodes", len(nodes)),
		zap.Strings("classNames", classNames))
	return ReplaceClassNames(classNames, prettyCSS, text, registry.Keys(snaps), s.replacer), nil
}

// resolveStyles maps the collected class names to pretty-printed CSS via
// the registry snapshot taken at call entry.
func (s *Serializer) resolveStyles(classNames []string, snaps []registry.Snapshot) (string, error) {
	if len(classNames) == 0 {
		return "", nil
	}
	raw := registry.StylesFromClassNames(classNames, snaps)
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	sheet, err := s.css.Parse([]byte(raw))
	if err != nil {
		return "", fmt.Errorf("unable to resolve snapshot styles: %w", err)
	}
	return sheet.String(), nil
}
