// Package validation holds the pure credential checks that gate every remote
// auth call. Nothing here performs I/O.
package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Result carries the outcome of a check together with the user-facing
// warning for the field that failed. Message is empty when Valid is true.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

const (
	msgPasswordTooShort = "Password should be at least 8 characters long."
	msgPasswordWeak     = "Password should contain at least one uppercase letter, one lowercase letter, one digit, and one special character (@$!%*?&)."
	msgInvalidEmail     = "Please enter a valid email address."
	msgPasswordMismatch = "Passwords do not match."
)

// passwordSymbols is the allowed special-character set
const passwordSymbols = "@$!%*?&"

var emailRegex = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// PasswordSecure checks the password strength rules: at least 8 characters
// with one uppercase, one lowercase, one digit, and one of @$!%*?&. The
// length rule carries its own message so the UI can cite the 8-character
// minimum specifically.
func PasswordSecure(password string) Result {
	if len(password) < 8 {
		return Result{Valid: false, Message: msgPasswordTooShort}
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}

	if !upper || !lower || !digit || !symbol {
		return Result{Valid: false, Message: msgPasswordWeak}
	}
	return Result{Valid: true}
}

// EmailValid checks for a local@domain.tld shape with a TLD of two or more
// letters.
func EmailValid(email string) Result {
	if !emailRegex.MatchString(email) {
		return Result{Valid: false, Message: msgInvalidEmail}
	}
	return Result{Valid: true}
}

// PasswordsMatch checks the password against its confirmation
func PasswordsMatch(password, confirmation string) Result {
	if password != confirmation {
		return Result{Valid: false, Message: msgPasswordMismatch}
	}
	return Result{Valid: true}
}
