// Package password hashes account secrets with argon2id and checks them
// against the account password policy.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/argon2"
)

// Params are the argon2id cost parameters encoded into every hash.
type Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams returns the production cost parameters (64 MiB, 3 passes).
func DefaultParams() Params {
	return Params{Memory: 64 * 1024, Iterations: 3, Parallelism: 2, SaltLength: 16, KeyLength: 32}
}

// Policy defines password strength requirements.
type Policy struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
}

// DefaultPolicy returns the password policy applied on registration.
func DefaultPolicy() Policy {
	return Policy{MinLength: 8, RequireUppercase: true, RequireLowercase: true, RequireNumber: true}
}

// Policy and format errors.
var (
	ErrTooShort     = errors.New("password is too short")
	ErrNoUppercase  = errors.New("password must contain at least one uppercase letter")
	ErrNoLowercase  = errors.New("password must contain at least one lowercase letter")
	ErrNoNumber     = errors.New("password must contain at least one number")
	ErrInvalidHash  = errors.New("invalid argon2id hash format")
	ErrIncompatible = errors.New("incompatible argon2 version")
)

// Check reports the first policy rule secret violates.
func (p Policy) Check(secret string) error {
	if len(secret) < p.MinLength {
		return ErrTooShort
	}
	var upper, lower, number bool
	for _, r := range secret {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			number = true
		}
	}
	if p.RequireUppercase && !upper {
		return ErrNoUppercase
	}
	if p.RequireLowercase && !lower {
		return ErrNoLowercase
	}
	if p.RequireNumber && !number {
		return ErrNoNumber
	}
	return nil
}

// Hasher produces and verifies PHC-formatted argon2id hashes.
type Hasher struct {
	params Params
}

// NewHasher creates a Hasher using the given parameters.
func NewHasher(params Params) *Hasher {
	return &Hasher{params: params}
}

// Hash returns $argon2id$v=19$m=..,t=..,p=..$<salt>$<key>.
func (h *Hasher) Hash(secret string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(secret), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether secret matches encoded. The cost parameters are read
// from the hash, so hashes created with older parameters keep verifying.
func (h *Hasher) Verify(secret, encoded string) (bool, error) {
	params, salt, key, err := decode(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(secret), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)
	return subtle.ConstantTimeCompare(key, computed) == 1, nil
}

func decode(encoded string) (Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return Params{}, nil, nil, ErrIncompatible
	}

	var p Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidHash
	}
	p.SaltLength = uint32(len(salt)) //nolint:gosec // salt length is bounded by the encoder
	p.KeyLength = uint32(len(key))   //nolint:gosec // key length is bounded by the encoder

	return p, salt, key, nil
}
