package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// can share one redis instance.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SolveKey implements [Keyer].
func (k *ScopedKeyer) SolveKey(graphHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(graphHash, opts)
}
