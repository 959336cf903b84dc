package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer generates deterministic storage keys from call parameters.
//
// Contract:
// - Determinism: same inputs must produce same key, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a storage key from call name and input.
	Key(call string, input any) (string, error)
}

// DefaultKeyer generates SHA-256 based keys. It relies on
// encoding/json sorting map keys, so equal inputs serialize equally.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic storage key.
// Format: invoke:<call>:<hash>
// where hash is the first 16 hex characters of SHA-256(JSON(input)).
func (k *DefaultKeyer) Key(call string, input any) (string, error) {
	encoded, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("cache: failed to encode input: %w", err)
	}

	hash := sha256.Sum256(encoded)
	return fmt.Sprintf("invoke:%s:%s", call, hex.EncodeToString(hash[:8])), nil
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
