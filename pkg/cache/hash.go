package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Keyer builds cache keys for cached artifacts.
type Keyer interface {
	// SummaryKey identifies a generated README summary.
	SummaryKey(repositoryID string, opts SummaryKeyOpts) string
}

// SummaryKeyOpts are the inputs that change a generated summary.
type SummaryKeyOpts struct {
	Model    string `json:"model"`
	Language string `json:"language"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SummaryKey returns "summary:<repositoryID>:<hash(opts)>".
// The repository id stays readable so operators can find entries by hand.
func (DefaultKeyer) SummaryKey(repositoryID string, opts SummaryKeyOpts) string {
	return hashKey("summary:"+repositoryID, opts)
}
