package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a raw password with bcrypt at the given cost.
func HashPassword(raw string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	return string(b), err
}

// CheckPassword reports whether raw matches the stored bcrypt hash.
func CheckPassword(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
