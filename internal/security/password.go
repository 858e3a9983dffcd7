package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const passwordHashCost = 10

func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), passwordHashCost)
	if err != nil {
		return "", fmt.Errorf("ошибка хэширования пароля: %w", err)
	}
	return string(digest), nil
}

// CheckPassword сравнивает пароль с хэшем за константное время.
// Несовпадение — обычный отрицательный результат, не ошибка.
func CheckPassword(plaintext string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
