// Package keygen creates and verifies the API keys that guard the HTTP API.
//
// Keys follow the layout {type}-{service}-{version}-{short_token}-{secret}.
// Only the BLAKE2b hash of the secret is kept in configuration.
package keygen

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/rezkam/dolist/internal/domain"
)

// Fixed key prefix components.
const (
	KeyType = "sk"
	Service = "dolist"
	Version = "v1"
)

// Key represents the components of an API key.
type Key struct {
	ShortToken string // 12 hex chars from the BLAKE2b hash prefix, safe to display
	Secret     string // 43 chars base64, never logged
}

// Generate creates a new API key backed by 256 bits of crypto/rand entropy.
func Generate() (*Key, error) {
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	secret := base64.RawURLEncoding.EncodeToString(secretBytes)

	sum := blake2b.Sum256([]byte(secret))
	return &Key{
		ShortToken: hex.EncodeToString(sum[:6]),
		Secret:     secret,
	}, nil
}

// Parse splits an API key into its components.
// The secret uses base64 URL encoding and may itself contain hyphens.
func Parse(apiKey string) (*Key, error) {
	parts := strings.SplitN(apiKey, "-", 5)
	if len(parts) != 5 {
		return nil, fmt.Errorf("%w: expected 5 parts, got %d", domain.ErrInvalidAPIKeyFormat, len(parts))
	}
	if parts[0] != KeyType || parts[1] != Service || parts[2] != Version {
		return nil, fmt.Errorf("%w: unexpected prefix %s-%s-%s", domain.ErrInvalidAPIKeyFormat, parts[0], parts[1], parts[2])
	}
	if parts[3] == "" || parts[4] == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrInvalidAPIKeyFormat)
	}

	return &Key{
		ShortToken: parts[3],
		Secret:     parts[4],
	}, nil
}

// String assembles the full key.
func (k *Key) String() string {
	return fmt.Sprintf("%s-%s-%s-%s-%s", KeyType, Service, Version, k.ShortToken, k.Secret)
}

// Display returns a safe-to-display version showing only prefix and short token.
// Example: "sk-dolist-v1-a3f5d8c2b4e6-****"
func (k *Key) Display() string {
	return fmt.Sprintf("%s-%s-%s-%s-****", KeyType, Service, Version, k.ShortToken)
}

// Hash returns the hex-encoded BLAKE2b-256 hash of the secret.
func (k *Key) Hash() string {
	return HashSecret(k.Secret)
}

// HashSecret computes BLAKE2b-256 hash of the secret and returns hex-encoded string.
func HashSecret(secret string) string {
	sum := blake2b.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether apiKey hashes to wantHash. The comparison is
// constant-time.
func Verify(apiKey, wantHash string) bool {
	key, err := Parse(apiKey)
	if err != nil {
		return false
	}
	got := key.Hash()
	return subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(wantHash))) == 1
}

// Mask returns a safe-to-log version of an API key showing only the type.
func Mask(apiKey string) string {
	if _, err := Parse(apiKey); err != nil {
		return "***"
	}
	return KeyType + "-***"
}
