package user

import (
	"strings"

	"github.com/badoux/checkmail"
	errors "github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/core/common/validation"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	maxEmailLength    = 254
	minPasswordLength = 6
)

// RegisterDTO is the body of POST /auth/register.
type RegisterDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *RegisterDTO) Normalize() {
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

// Validate checks field shape only. Host lookups are skipped so registration
// works offline.
func (d RegisterDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MinLength(minUsernameLength).MaxLength(maxUsernameLength)
	v.Field("email", d.Email).Required().MaxLength(maxEmailLength).Custom(validEmail)
	v.Field("password", d.Password).Required().MinLength(minPasswordLength)
	return v.Validate()
}

func validEmail(value interface{}) *errors.AppError {
	email, _ := value.(string)
	if err := checkmail.ValidateFormat(email); err != nil {
		return errors.NewValidationFieldError("email", "email address is not valid", errors.ErrCodeInvalidEmail)
	}
	return nil
}
