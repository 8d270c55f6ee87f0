// Package passwords isolates the two credential schemes the account
// service depends on: the one-way bcrypt digest stored in the users
// collection, and the symmetric transport encryption clients apply to
// passwords before they cross the wire.
package passwords

import "golang.org/x/crypto/bcrypt"

// Hasher produces and checks one-way password digests.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, digest string) bool
}

// BcryptHasher hashes with bcrypt at the given cost.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a hasher at the historical cost of 10.
func NewBcryptHasher() BcryptHasher {
	return BcryptHasher{Cost: 10}
}

func (h BcryptHasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h BcryptHasher) Compare(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
