package cache

// ScopedKeyer wraps a Keyer with a prefix so separate contexts get
// separate cache namespaces. On a shared Redis backend this keeps one
// deployment's entries apart from another's even when they hold equal
// graphs.
//
// Example usage:
//
//	// Per-workspace keys on a shared backend
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "workspace:"+id+":")
//
//	// Global keys for the CLI
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GraphKey generates a prefixed key for a parsed graph.
func (k *ScopedKeyer) GraphKey(source []byte) string {
	return k.prefix + k.inner.GraphKey(source)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}
