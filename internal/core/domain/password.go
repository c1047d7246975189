package domain

import "strings"

const minPasswordLength = 8

const passwordSymbols = `!@#$%^&*()_+=[]{};':"\|,.<>/?-`

// PasswordChecklist holds the five independent password-policy predicates.
// All five must hold for a password to satisfy the policy.
type PasswordChecklist struct {
	MinLength bool `json:"min_length"`
	Uppercase bool `json:"uppercase"`
	Lowercase bool `json:"lowercase"`
	Digit     bool `json:"digit"`
	Symbol    bool `json:"symbol"`
}

// CheckPassword evaluates every predicate independently; the empty string
// fails all five.
func CheckPassword(password string) PasswordChecklist {
	var c PasswordChecklist
	c.MinLength = len(password) >= minPasswordLength
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			c.Uppercase = true
		case r >= 'a' && r <= 'z':
			c.Lowercase = true
		case r >= '0' && r <= '9':
			c.Digit = true
		case strings.ContainsRune(passwordSymbols, r):
			c.Symbol = true
		}
	}
	return c
}

// Satisfied reports whether all five predicates hold.
func (c PasswordChecklist) Satisfied() bool {
	return c.MinLength && c.Uppercase && c.Lowercase && c.Digit && c.Symbol
}

// ValidEmailShape reports whether s has a basic local@domain.tld shape.
// Deliberately loose: the gateway is the authority on address validity.
func ValidEmailShape(s string) bool {
	local, rest, ok := strings.Cut(s, "@")
	if !ok || local == "" {
		return false
	}
	host, tld, ok := strings.Cut(rest, ".")
	if !ok || host == "" || tld == "" {
		return false
	}
	return !strings.ContainsAny(s, " \t")
}
