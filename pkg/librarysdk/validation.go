package librarysdk

import (
	"net/mail"
	"strings"
)

const requiredReason = "is required"

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: field + " " + requiredReason}
	}
	return nil
}

// Validate checks the login form before anything is sent.
func (r LoginRequest) Validate() error {
	if err := required("username", r.Username); err != nil {
		return err
	}
	return required("password", r.Password)
}

// Validate checks the registration form. ConfirmPassword is only compared
// when it was filled in.
func (r RegisterRequest) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"username", r.Username},
		{"email", r.Email},
		{"password", r.Password},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}

	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.ConfirmPassword != "" && r.ConfirmPassword != r.Password {
		return &ValidationError{Field: "confirm_password", Message: "passwords do not match"}
	}
	return nil
}

// Validate checks the fields users/add/ cannot do without.
func (p Profile) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"username", p.Username},
		{"email", p.Email},
		{"password", p.Password},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	return validateEmail(p.Email)
}

func (u UserUpdate) Validate() error {
	if u.UserID <= 0 {
		return &ValidationError{Field: "user_id", Message: "user_id " + requiredReason}
	}
	if u.Email == "" {
		return nil
	}
	return validateEmail(u.Email)
}

func (b BookInput) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"title", b.Title},
		{"author", b.Author},
		{"isbn", b.ISBN},
	} {
		if err := required(f.name, f.value); err != nil {
			return err
		}
	}
	if b.TotalCopies < 0 {
		return &ValidationError{Field: "total_copies", Message: "total_copies must not be negative"}
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Address != strings.TrimSpace(email) || !strings.Contains(addr.Address, "@") {
		return &ValidationError{Field: "email", Message: "email is not a valid address"}
	}
	return nil
}

func validateID(field string, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: field, Message: field + " " + requiredReason}
	}
	return nil
}
