package user

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"homefix/models"
)

var (
	// Letters only, at most one inner space: "Abo", "Abo Bakar".
	namePattern  = regexp.MustCompile(`^[A-Za-z]+(?:\s[A-Za-z]+)?$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const (
	nameMinLen     = 3
	nameMaxLen     = 35
	passwordMinLen = 6
	passwordMaxLen = 35
)

// SanitizeInput trims surrounding space and drops angle brackets.
func SanitizeInput(s string) string {
	return strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(s))
}

// CharLength reports whether the trimmed value has between min and max characters.
func CharLength(s string, min, max int) bool {
	if min < 0 || max < min {
		return false
	}
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= min && n <= max
}

// ValidName reports whether s is one or two words of ASCII letters.
func ValidName(s string) bool {
	return namePattern.MatchString(strings.TrimSpace(s))
}

// ValidEmail is a shape check only; the backend owns deliverability.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateRegistration sanitizes the form in place and returns per-field
// errors. A non-empty result means no backend call may be made.
func ValidateRegistration(f *models.RegistrationForm) models.FieldErrors {
	f.Name = SanitizeInput(f.Name)
	f.Email = SanitizeInput(f.Email)
	f.Password = SanitizeInput(f.Password)
	f.ConfirmPassword = SanitizeInput(f.ConfirmPassword)

	errs := models.FieldErrors{}

	switch {
	case f.Name == "":
		errs["name"] = "Name is required"
	case !ValidName(f.Name):
		errs["name"] = "Only alphabets allowed in name"
	case !CharLength(f.Name, nameMinLen, nameMaxLen):
		errs["name"] = "Name must be 3–35 characters"
	}

	validateEmail(f.Email, errs)
	validatePassword(f.Password, errs)

	if f.Password != f.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}

	if !errs.Empty() {
		errs[models.OverallKey] = "Please fix the highlighted errors."
	}
	return errs
}

// ValidateLogin sanitizes the form in place and returns per-field errors.
func ValidateLogin(f *models.LoginForm) models.FieldErrors {
	f.Email = SanitizeInput(f.Email)
	f.Password = SanitizeInput(f.Password)

	errs := models.FieldErrors{}
	validateEmail(f.Email, errs)
	validatePassword(f.Password, errs)
	if !errs.Empty() {
		errs[models.OverallKey] = "Please fix the highlighted errors."
	}
	return errs
}

func validateEmail(email string, errs models.FieldErrors) {
	switch {
	case email == "":
		errs["email"] = "Email is required"
	case !ValidEmail(email):
		errs["email"] = "Invalid email format"
	}
}

func validatePassword(pw string, errs models.FieldErrors) {
	switch {
	case pw == "":
		errs["password"] = "Password is required"
	case !CharLength(pw, passwordMinLen, passwordMaxLen):
		errs["password"] = "Password must be 6–35 characters long"
	}
}
