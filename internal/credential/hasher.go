// Package credential hashes and verifies account passwords with argon2id.
package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength = 16
	keyLength  = 32
	algorithm  = "argon2id"
)

// KDFParams controls the cost of argon2id derivation.
type KDFParams struct {
	Time   uint32
	MemKiB uint32
	Par    uint8
}

// DefaultKDFParams are used for any zero field of the configured parameters.
var DefaultKDFParams = KDFParams{Time: 3, MemKiB: 64 * 1024, Par: 2}

// Hasher derives salted password hashes.
type Hasher struct {
	params KDFParams
}

// NewHasher creates a Hasher, filling unset parameters from DefaultKDFParams.
func NewHasher(params KDFParams) *Hasher {
	if params.Time == 0 {
		params.Time = DefaultKDFParams.Time
	}
	if params.MemKiB == 0 {
		params.MemKiB = DefaultKDFParams.MemKiB
	}
	if params.Par == 0 {
		params.Par = DefaultKDFParams.Par
	}
	return &Hasher{params: params}
}

// Hash returns the stored form of password: parameters, salt and derived key
// joined in one string.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.MemKiB, h.params.Par, keyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithm, argon2.Version,
		h.params.MemKiB, h.params.Time, h.params.Par,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches stored. A stored value that cannot
// be parsed never matches.
func (h *Hasher) Verify(password, stored string) bool {
	params, salt, key, err := decode(stored)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(password), salt, params.Time, params.MemKiB, params.Par, uint32(len(key)))
	return subtle.ConstantTimeCompare(candidate, key) == 1
}

func decode(stored string) (KDFParams, []byte, []byte, error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != algorithm {
		return KDFParams{}, nil, nil, fmt.Errorf("unrecognized hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return KDFParams{}, nil, nil, fmt.Errorf("unsupported argon2 version")
	}

	var params KDFParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.MemKiB, &params.Time, &params.Par); err != nil {
		return KDFParams{}, nil, nil, fmt.Errorf("invalid kdf params: %w", err)
	}
	if params.Time == 0 || params.MemKiB == 0 || params.Par == 0 {
		return KDFParams{}, nil, nil, fmt.Errorf("invalid kdf params")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return KDFParams{}, nil, nil, fmt.Errorf("invalid salt")
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return KDFParams{}, nil, nil, fmt.Errorf("invalid key")
	}

	return params, salt, key, nil
}
