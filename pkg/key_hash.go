package pkg

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultKeyHashCost = 14

// HashKey returns the bcrypt hash of an API key, to be stored instead of the key.
func HashKey(key string, cost int) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultKeyHashCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", fmt.Errorf("hash key: %w", err)
	}
	return string(hash), nil
}

func KeyMatchesHash(key, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
