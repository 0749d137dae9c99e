package auth

import (
	"regexp"
	"strings"
	"unicode"
)

// Validation messages are business rules, not incidental strings: tests and
// clients depend on their exact wording.
const (
	MsgFullNameRequired = "full name is required"
	MsgFullNameTwoNames = "enter first and last name"
	MsgFullNameTooShort = "name must be at least 3 characters"

	MsgEmailRequired = "email is required"
	MsgEmailInvalid  = "invalid email"
	MsgEmailTaken    = "email already registered"

	MsgPasswordRequired  = "password is required"
	MsgPasswordTooShort  = "password must be at least 8 characters"
	MsgPasswordUppercase = "password must contain at least one uppercase letter"
	MsgPasswordLowercase = "password must contain at least one lowercase letter"
	MsgPasswordDigit     = "password must contain at least one number"
	MsgPasswordMismatch  = "passwords do not match"

	// MsgInvalidCredentials is returned for both unknown email and wrong
	// password so a caller cannot tell which emails are registered.
	MsgInvalidCredentials = "incorrect email or password"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidateRegistration checks the registration business rules and returns
// every violated rule's message. An empty slice means the request is valid.
func ValidateRegistration(fullName, email, password, confirmPassword string) []string {
	var errs []string

	if strings.TrimSpace(fullName) == "" {
		errs = append(errs, MsgFullNameRequired)
	} else if len(strings.Fields(fullName)) < 2 {
		errs = append(errs, MsgFullNameTwoNames)
	} else if len(fullName) < 3 {
		errs = append(errs, MsgFullNameTooShort)
	}

	if strings.TrimSpace(email) == "" {
		errs = append(errs, MsgEmailRequired)
	} else if !emailPattern.MatchString(email) {
		errs = append(errs, MsgEmailInvalid)
	}

	if strings.TrimSpace(password) == "" {
		errs = append(errs, MsgPasswordRequired)
	} else if len(password) < 8 {
		errs = append(errs, MsgPasswordTooShort)
	} else if !containsFunc(password, unicode.IsUpper) {
		errs = append(errs, MsgPasswordUppercase)
	} else if !containsFunc(password, unicode.IsLower) {
		errs = append(errs, MsgPasswordLowercase)
	} else if !containsFunc(password, unicode.IsDigit) {
		errs = append(errs, MsgPasswordDigit)
	}

	if password != confirmPassword {
		errs = append(errs, MsgPasswordMismatch)
	}

	return errs
}

// ValidateLogin checks that both credentials are present.
func ValidateLogin(email, password string) []string {
	var errs []string
	if strings.TrimSpace(email) == "" {
		errs = append(errs, MsgEmailRequired)
	}
	if strings.TrimSpace(password) == "" {
		errs = append(errs, MsgPasswordRequired)
	}
	return errs
}

func containsFunc(s string, f func(rune) bool) bool {
	for _, r := range s {
		if f(r) {
			return true
		}
	}
	return false
}
