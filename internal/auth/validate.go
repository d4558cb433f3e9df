package auth

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 50
	passwordMinLen = 8
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NormalizeEmail canonicalizes an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateUsername(username string) error {
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return invalidField("username", "must be between 3 and 50 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return invalidField("email", "is not a valid address")
	}
	return nil
}

// validatePassword enforces the registration password policy: minimum
// eight characters with at least one lowercase letter, one uppercase
// letter, one digit and one symbol.
func validatePassword(password string) error {
	if len(password) < passwordMinLen {
		return invalidField("password", "must be at least 8 characters")
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if !lower || !upper || !digit || !symbol {
		return invalidField("password", "must contain a lowercase letter, an uppercase letter, a digit and a symbol")
	}
	return nil
}
