package cache

// ScopedKeyer wraps a Keyer with a prefix so that several producers can
// share one backend without seeing each other's entries.
//
// Example usage:
//
//	// Entries written by one release are invisible to the next
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "mcl:v1.2.0:")
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

// CompileKey generates a prefixed key for compiled documents.
func (k *ScopedKeyer) CompileKey(treeHash string, opts CompileKeyOpts) string {
	return k.prefix + k.inner.CompileKey(treeHash, opts)
}

// ArtifactKey generates a prefixed key for rendered diagrams.
func (k *ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}
