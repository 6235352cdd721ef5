package cache

// ScopedKeyer namespaces the keys of another Keyer, so several deployments
// can share one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "publiccodelooks:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a Keyer that prepends prefix to every key of inner.
// A nil inner falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) SummaryKey(repositoryID string, opts SummaryKeyOpts) string {
	return k.prefix + k.inner.SummaryKey(repositoryID, opts)
}
