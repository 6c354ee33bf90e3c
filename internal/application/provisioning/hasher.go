package provisioning

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var _ PasswordHasher = BcryptHasher{}

// BcryptHasher hashea con bcrypt; cada hash lleva su propio salt aleatorio.
type BcryptHasher struct {
	Cost int
}

// Hash implementa PasswordHasher.
func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}
