package cache

// ScopedKeyer prefixes every key produced by another Keyer.
//
// The server uses it to keep each deployment's entries apart when several
// share one redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "wordstream:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) CloudKey(textHash string, opts CloudKeyOpts) string {
	return k.prefix + k.inner.CloudKey(textHash, opts)
}

func (k *ScopedKeyer) StreamKey(dataHash string, opts StreamKeyOpts) string {
	return k.prefix + k.inner.StreamKey(dataHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}
