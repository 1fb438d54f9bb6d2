package v1

import "golang.org/x/crypto/bcrypt"

// PasswordHasher wraps bcrypt so the service never handles salts or cost
// parameters directly. bcrypt embeds a fresh salt per call, so hashing the
// same plaintext twice yields different digests.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher at bcrypt's default cost.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: bcrypt.DefaultCost}
}

// Hash returns the salted one-way digest of plaintext.
// Empty plaintext is rejected upstream by the service, not here.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest.
// The comparison runs in constant-relevant time inside bcrypt.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
