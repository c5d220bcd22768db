package datalayer

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/tealium/internal/tag"
)

// ReasonEmptyKey rejects entries without a key.
const ReasonEmptyKey = "empty key"

// Rejection records a value that was left out of the data layer.
type Rejection struct {
	Key    string `json:"key"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// DataLayer is an immutable snapshot of a Builder.
type DataLayer struct {
	Values   tag.Set     `json:"values"`
	Rejected []Rejection `json:"rejected"`
	Hash     string      `json:"hash"`
}

// Builder collects tag values. It is safe for concurrent use.
type Builder struct {
	mu       sync.Mutex
	values   tag.Set
	rejected map[string]Rejection
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for rejected values.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates an empty Builder. Logs are discarded unless WithLogger is given.
func New(opts ...Option) *Builder {
	b := &Builder{
		values:   make(tag.Set),
		rejected: make(map[string]Rejection),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Set classifies value and stores it under key when it is valid.
//
// The last call for a key wins: a valid value replaces an earlier one and
// clears an earlier rejection, an invalid value removes an earlier accepted
// value. Returns whether the value was accepted.
func (b *Builder) Set(key string, value any) bool {
	v := tag.Of(value)

	reason := tag.Reason(v)
	if key == "" {
		reason = ReasonEmptyKey
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if reason != "" {
		delete(b.values, key)
		b.rejected[key] = Rejection{Key: key, Kind: tag.Kind(v), Reason: reason}
		b.logger.Debug("tag value rejected",
			"key", key,
			"kind", tag.Kind(v),
			"reason", reason,
		)
		return false
	}

	delete(b.rejected, key)
	b.values[key] = v
	return true
}

// SetAll sets every entry of m in sorted key order.
// Returns the number of accepted values.
func (b *Builder) SetAll(m map[string]any) int {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	accepted := 0
	for _, k := range keys {
		if b.Set(k, m[k]) {
			accepted++
		}
	}
	return accepted
}

// Len returns the number of accepted values.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.values)
}

// Build returns a snapshot of the current state.
// Later calls to Set do not affect the returned DataLayer.
func (b *Builder) Build() DataLayer {
	b.mu.Lock()
	defer b.mu.Unlock()

	values := make(tag.Set, len(b.values))
	for k, v := range b.values {
		values[k] = v
	}

	rejected := make([]Rejection, 0, len(b.rejected))
	for _, r := range b.rejected {
		rejected = append(rejected, r)
	}
	slices.SortFunc(rejected, func(x, y Rejection) int {
		return strings.Compare(x.Key, y.Key)
	})

	return DataLayer{
		Values:   values,
		Rejected: rejected,
		// Accepted values always encode, so the hash cannot fail.
		Hash: tag.MustSetHash(values),
	}
}

// JSON returns the canonical JSON object of the accepted values.
func (d DataLayer) JSON() ([]byte, error) {
	return tag.MarshalCanonical(d.Values)
}

// Keys returns the accepted keys in canonical order.
func (d DataLayer) Keys() []string {
	return d.Values.SortedKeys()
}
