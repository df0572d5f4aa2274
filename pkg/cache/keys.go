package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout generated from options with
	// the given hash.
	LayoutKey(paramsHash string) string

	// ArtifactKey returns the key for a rendering of a layout.
	ArtifactKey(layoutID string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that distinguish artifacts of the
// same layout.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Detailed bool    `json:"detailed,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// Key kinds. They lead every unscoped key so entries of one kind can be
// listed or flushed together in Redis.
const (
	kindLayout   = "layout"
	kindArtifact = "artifact"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DefaultKeyer produces unprefixed keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer. The options hash is already a digest, so it is
// used as is.
func (DefaultKeyer) LayoutKey(paramsHash string) string {
	return kindLayout + ":" + paramsHash
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutID string, opts ArtifactKeyOpts) string {
	// Marshalling a struct of scalars cannot fail.
	data, _ := json.Marshal(struct {
		Layout string          `json:"layout"`
		Opts   ArtifactKeyOpts `json:"opts"`
	}{layoutID, opts})
	return kindArtifact + ":" + Hash(data)
}

// ScopedKeyer prefixes every key of an inner Keyer so several deployments can
// share one backend.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil. A
// trailing ":" is added to prefix when missing.
func NewScopedKeyer(inner Keyer, prefix string) *ScopedKeyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(paramsHash string) string {
	return k.prefix + k.inner.LayoutKey(paramsHash)
}

func (k *ScopedKeyer) ArtifactKey(layoutID string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutID, opts)
}
