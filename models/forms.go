package models

// LoginForm is the login page's form.
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// RegistrationForm is the registration page's form.
type RegistrationForm struct {
	Name            string `form:"name"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirmPassword"`
}

// FieldErrors maps a form field name to its message. The key "overall" holds
// the banner shown above the form.
type FieldErrors map[string]string

// OverallKey is the FieldErrors key of the form-level message.
const OverallKey = "overall"

// Empty reports whether no field failed.
func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}
