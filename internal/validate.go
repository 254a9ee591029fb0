package internal

import (
	"regexp"
	"unicode/utf8"
)

// emailPart excludes '@' and the full Unicode whitespace set, not only the
// ASCII characters RE2 gives \s.
const emailPart = `[^\s\v\p{Z}\x{FEFF}@]+`

var (
	emailPattern    = regexp.MustCompile(`^` + emailPart + `@` + emailPart + `\.` + emailPart + `$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
)

const (
	minPasswordLength = 6
	minUsernameLength = 3
)

// FormMode selects which fields an AuthForm requires
type FormMode int

const (
	ModeLogin FormMode = iota
	ModeRegister
)

func (m FormMode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// AuthForm is the login/registration form as submitted
type AuthForm struct {
	Mode     FormMode
	Username string
	Email    string
	Password string
}

// Validate checks every field and returns a *ValidationError listing all
// failures, or nil.
func (f AuthForm) Validate() error {
	fields := make(map[string]string)

	if msg := validateEmail(f.Email); msg != "" {
		fields["email"] = msg
	}
	if msg := validatePassword(f.Password); msg != "" {
		fields["password"] = msg
	}
	if f.Mode == ModeRegister {
		if msg := ValidateUsername(f.Username); msg != "" {
			fields["username"] = msg
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validateEmail(email string) string {
	switch {
	case email == "":
		return "email is required"
	case !emailPattern.MatchString(email):
		return "invalid email format"
	}
	return ""
}

func validatePassword(password string) string {
	switch {
	case password == "":
		return "password is required"
	case utf8.RuneCountInString(password) < minPasswordLength:
		return "password must be at least 6 characters"
	}
	return ""
}

// ValidateUsername returns the field message for an invalid username, or "".
func ValidateUsername(username string) string {
	switch {
	case username == "":
		return "username is required"
	case utf8.RuneCountInString(username) < minUsernameLength:
		return "username must be at least 3 characters"
	case !usernamePattern.MatchString(username):
		return "username may only contain letters, digits and underscores"
	}
	return ""
}
