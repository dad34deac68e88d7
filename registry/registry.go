// Package registry accumulates raw style source emitted during rendering,
// keyed by the prefix that identifies each independent style cache.
package registry

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/maruel/natural"
	"go.uber.org/zap"
)

// Snapshot is the read view of one style cache at a point in time.
type Snapshot struct {
	Key string // key-prefix identifying the cache
	CSS string // raw accumulated style source
}

// Registry holds the style caches of one host environment. Rendering code
// appends raw CSS as a side effect; the snapshot pipeline only ever reads.
// Contents may change between print calls, so readers must not cache
// snapshots beyond one call.
type Registry struct {
	log    *zap.Logger
	sheets map[string]*Sheet
}

// Sheet is one independent style cache.
type Sheet struct {
	key     string
	sources []string
}

// New creates an empty registry.
func New(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:    log.Named("style-registry"),
		sheets: make(map[string]*Sheet),
	}
}

// Default is the process-wide registry used when no explicit instance is
// wired, mirroring the single runtime style cache of the host environment.
var Default = New(nil)

// Sheet returns the cache for the given key-prefix, creating it on first use.
func (r *Registry) Sheet(key string) *Sheet {
	if s, ok := r.sheets[key]; ok {
		return s
	}
	s := &Sheet{key: key}
	r.sheets[key] = s
	r.log.Debug("Style cache created", zap.String("key", key))
	return s
}

// Reset drops all accumulated style source. Intended for tests.
func (r *Registry) Reset() {
	r.sheets = make(map[string]*Sheet)
}

// StyleElements returns the current snapshot of every style cache, ordered
// naturally by key so output never depends on registration order.
func (r *Registry) StyleElements() []Snapshot {
	keys := make([]string, 0, len(r.sheets))
	for k := range r.sheets {
		keys = append(keys, k)
	}
	sort.Sort(natural.StringSlice(keys))

	out := make([]Snapshot, 0, len(keys))
	for _, k := range keys {
		s := r.sheets[k]
		out = append(out, Snapshot{Key: k, CSS: strings.Join(s.sources, "\n")})
	}
	return out
}

// Add records raw CSS source in the cache.
func (s *Sheet) Add(css string) {
	if css == "" {
		return
	}
	s.sources = append(s.sources, css)
}

// Key returns the cache's key-prefix.
func (s *Sheet) Key() string {
	return s.key
}

// MintStyleID returns a fresh opaque style identifier. These are the
// run-to-run unstable tokens the snapshot pipeline rewrites into
// deterministic aliases.
func MintStyleID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Keys returns the key-prefixes of the given snapshots in order.
func Keys(snapshots []Snapshot) []string {
	out := make([]string, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, s.Key)
	}
	return out
}

// StylesFromClassNames concatenates the raw source of every snapshot whose
// content references at least one of the given class names.
func StylesFromClassNames(classNames []string, snapshots []Snapshot) string {
	var parts []string
	for _, snap := range snapshots {
		if snap.CSS == "" {
			continue
		}
		for _, name := range classNames {
			if strings.Contains(snap.CSS, "."+name) {
				parts = append(parts, snap.CSS)
				break
			}
		}
	}
	return strings.Join(parts, "\n")
}
