package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordSecure(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
		message  string
	}{
		{"all rules met", "Passw0rd!", true, ""},
		{"minimum length exactly", "Aa1@aaaa", true, ""},
		{"extra characters allowed", "Aa1@ with spaces and #hash", true, ""},
		{"too short", "Aa1@a", false, "Password should be at least 8 characters long."},
		{"empty", "", false, "Password should be at least 8 characters long."},
		{"no uppercase", "passw0rd!", false, msgPasswordWeak},
		{"no lowercase", "PASSW0RD!", false, msgPasswordWeak},
		{"no digit", "Password!", false, msgPasswordWeak},
		{"no symbol", "Passw0rdX", false, msgPasswordWeak},
		{"hash is not an accepted symbol", "Passw0rd#", false, msgPasswordWeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := PasswordSecure(tt.password)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestEmailValid(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"simple", "user@example.com", true},
		{"subdomain", "user@mail.example.co.uk", true},
		{"plus and dots", "first.last+tag@example.com", true},
		{"no at sign", "userexample.com", false},
		{"no tld", "user@example", false},
		{"one letter tld", "user@example.c", false},
		{"empty", "", false},
		{"spaces", "user name@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := EmailValid(tt.email)
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				assert.Equal(t, "Please enter a valid email address.", res.Message)
			}
		})
	}
}

func TestPasswordsMatch(t *testing.T) {
	res := PasswordsMatch("Passw0rd!", "Passw0rd!")
	assert.True(t, res.Valid)
	assert.Empty(t, res.Message)

	res = PasswordsMatch("Passw0rd!", "Passw0rd?")
	assert.False(t, res.Valid)
	assert.Equal(t, "Passwords do not match.", res.Message)
}
