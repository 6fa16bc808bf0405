// Package format holds the Brazilian document and contact formatting
// rules shared by registration and wallet withdrawal.
package format

import (
	"regexp"
	"strings"
)

var digitsOnly = regexp.MustCompile(`\D`)

// Digits strips every non-digit character.
func Digits(s string) string {
	return digitsOnly.ReplaceAllString(s, "")
}

// CPF formats an 11-digit CPF as 000.000.000-00. Input may contain
// punctuation; anything that is not 11 digits is returned unchanged.
func CPF(s string) string {
	d := Digits(s)
	if len(d) != 11 {
		return s
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

// Phone formats an 11-digit mobile number as (00) 00000-0000 and a
// 10-digit landline as (00) 0000-0000. Anything else is returned
// unchanged.
func Phone(s string) string {
	d := Digits(s)
	switch len(d) {
	case 11:
		return "(" + d[0:2] + ") " + d[2:7] + "-" + d[7:11]
	case 10:
		return "(" + d[0:2] + ") " + d[2:6] + "-" + d[6:10]
	default:
		return s
	}
}

const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// ValidPassword reports whether a password meets the signup rule:
// at least 6 characters, one uppercase letter, one digit, and one
// symbol from the accepted set.
func ValidPassword(password string) bool {
	if len(password) < 6 {
		return false
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	return hasUpper && hasDigit && hasSymbol
}

var (
	emailKeyPattern  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	randomKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

// ValidPixKey reports whether key is plausible for the given PIX key
// type. These are shape checks only; ownership is the payment rail's
// problem.
func ValidPixKey(keyType, key string) bool {
	switch keyType {
	case "CPF":
		return len(Digits(key)) == 11
	case "CNPJ":
		return len(Digits(key)) == 14
	case "TELEFONE":
		d := Digits(key)
		return len(d) == 10 || len(d) == 11 || (strings.HasPrefix(key, "+55") && len(d) == 13)
	case "EMAIL":
		return emailKeyPattern.MatchString(key)
	case "ALEATORIA":
		return randomKeyPattern.MatchString(key)
	default:
		return false
	}
}
