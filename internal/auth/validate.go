package auth

import (
	"time"
	"unicode"
)

// ValidPassword enforces the signup password policy: 8 to 72 bytes with at
// least one uppercase letter, one digit and one non-alphanumeric character.
// The upper bound is bcrypt's input limit.
func ValidPassword(password string) bool {
	if len(password) < 8 || len(password) > 72 {
		return false
	}
	var upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r):
			special = true
		}
	}
	return upper && digit && special
}

// ValidDOB accepts a YYYY-MM-DD date of birth between 1920-01-01 and today.
// An empty value is allowed, the field is optional.
func ValidDOB(dob string) bool {
	if dob == "" {
		return true
	}
	t, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return false
	}
	min := time.Date(1920, 1, 1, 0, 0, 0, 0, time.UTC)
	return !t.Before(min) && !t.After(time.Now())
}

// ValidGender accepts the three stored gender codes or an empty value.
func ValidGender(gender string) bool {
	switch gender {
	case "", "m", "f", "a":
		return true
	}
	return false
}
