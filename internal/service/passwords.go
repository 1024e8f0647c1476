package service

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"barbercash/backend/internal/domain"
)

const minPasswordLength = 6

var passwordCost = bcrypt.DefaultCost

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func verifyPassword(stored string, input string) bool {
	if stored == "" || strings.TrimSpace(input) == "" || !isPasswordHash(stored) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(input)) == nil
}

func isPasswordHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}

// UpgradeLegacyPassword hashes a plaintext password carried by an old user
// record. The second result reports whether the record changed.
func UpgradeLegacyPassword(user domain.User) (domain.User, bool) {
	legacy := user.LegacyPassword
	if legacy == "" {
		return user, false
	}
	user.LegacyPassword = ""
	if isPasswordHash(legacy) {
		user.PasswordHash = legacy
		return user, true
	}
	hashed, err := hashPassword(legacy)
	if err != nil {
		log.Printf("[service] WARN: failed to hash legacy password user=%s: %v", user.Username, err)
		return user, true
	}
	user.PasswordHash = hashed
	return user, true
}

// DefaultUsers returns the bootstrap administrator used when no user list
// has been cached yet.
func DefaultUsers(adminPassword string) func() []domain.User {
	return func() []domain.User {
		if adminPassword == "" {
			adminPassword = "admin123"
			log.Println("[service] WARNING: using default admin password. Set SEED_ADMIN_PASSWORD to override.")
		}
		hash, err := hashPassword(adminPassword)
		if err != nil {
			log.Fatalf("[service] failed to hash seed password: %v", err)
		}
		return []domain.User{{
			ID:           "admin-1",
			Name:         "ADMINISTRADOR",
			Username:     "admin",
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
			CreatedAt:    time.Now().UTC(),
		}}
	}
}
