package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"

	"github.com/cohort-tools/cohort-tools/internal/shared"
)

const (
	// MinPasswordLength and MaxPasswordLength bound passwords in characters
	// after NFKC normalization.
	MinPasswordLength = 6
	MaxPasswordLength = 128

	saltLength = 16
)

// ErrInvalidCredential is returned when a password cannot be hashed.
var ErrInvalidCredential = shared.NewValidationError("password", "password is required")

// Argon2Params tunes the Argon2id derivation.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultArgon2Params costs a few tens of milliseconds per hash.
var DefaultArgon2Params = Argon2Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher struct {
	params Argon2Params
}

// NewPasswordHasher constructs a hasher. Zero params fall back to the defaults.
func NewPasswordHasher(params Argon2Params) *PasswordHasher {
	if params == (Argon2Params{}) {
		params = DefaultArgon2Params
	}
	return &PasswordHasher{params: params}
}

// Hash derives an encoded Argon2id hash of password using a fresh random salt.
// The encoded hash embeds the salt and parameters; salt is also returned on
// its own so it can be stored next to the hash.
func (h *PasswordHasher) Hash(password string) (hash string, salt string, err error) {
	if password == "" {
		return "", "", ErrInvalidCredential
	}
	rawSalt := make([]byte, saltLength)
	if _, err := rand.Read(rawSalt); err != nil {
		return "", "", fmt.Errorf("auth: read salt: %w", err)
	}
	p := h.params
	key := argon2.IDKey(normalize(password), rawSalt, p.Time, p.Memory, p.Threads, p.KeyLen)
	salt = base64.RawStdEncoding.EncodeToString(rawSalt)
	hash = fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.Memory, p.Time, p.Threads, salt, base64.RawStdEncoding.EncodeToString(key))
	return hash, salt, nil
}

// Verify reports whether password matches storedHash. Hashes produced by
// bcrypt (the format of accounts imported from the previous system) are
// accepted as well. Malformed hashes never match.
func (h *PasswordHasher) Verify(password, storedHash string) bool {
	if password == "" || storedHash == "" {
		return false
	}
	if isBcrypt(storedHash) {
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
	}
	p, salt, key, err := decodeArgon2(storedHash)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey(normalize(password), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
	return subtle.ConstantTimeCompare(candidate, key) == 1
}

// CheckPolicy enforces the password length policy.
func CheckPolicy(password string) error {
	n := utf8.RuneCount(normalize(password))
	switch {
	case n == 0:
		return ErrInvalidCredential
	case n < MinPasswordLength:
		return shared.NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	case n > MaxPasswordLength:
		return shared.NewValidationError("password", fmt.Sprintf("must be at most %d characters", MaxPasswordLength))
	}
	return nil
}

func normalize(password string) []byte {
	return norm.NFKC.Bytes([]byte(password))
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

var errMalformedHash = errors.New("auth: malformed password hash")

func decodeArgon2(encoded string) (Argon2Params, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Argon2Params{}, nil, nil, errMalformedHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Argon2Params{}, nil, nil, errMalformedHash
	}
	var p Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Time, &p.Threads); err != nil {
		return Argon2Params{}, nil, nil, errMalformedHash
	}
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return Argon2Params{}, nil, nil, errMalformedHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Argon2Params{}, nil, nil, errMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Argon2Params{}, nil, nil, errMalformedHash
	}
	p.KeyLen = uint32(len(key))
	return p, salt, key, nil
}
