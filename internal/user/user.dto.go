package user

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrUsernameRequired = errors.New("username must be between 3 and 50 characters")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrInvalidEmail     = errors.New("invalid email address")
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
)

type CreateUserRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        *User  `json:"user"`
}

func (r *CreateUserRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if err := validateUsername(r.Username); err != nil {
		return err
	}
	if len(r.Password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	return normalizeEmail(&r.Email)
}

func (r *UpdateProfileRequest) Validate() error {
	if r.Username != nil {
		*r.Username = strings.TrimSpace(*r.Username)
		if err := validateUsername(*r.Username); err != nil {
			return err
		}
	}
	if r.Password != nil && len(*r.Password) < minPasswordLen {
		return ErrPasswordTooShort
	}
	return normalizeEmail(&r.Email)
}

func validateUsername(name string) error {
	if n := len([]rune(name)); n < minUsernameLen || n > maxUsernameLen {
		return ErrUsernameRequired
	}
	return nil
}

// normalizeEmail trims the address and turns an empty one into nil.
func normalizeEmail(email **string) error {
	if *email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(**email)
	if trimmed == "" {
		*email = nil
		return nil
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return ErrInvalidEmail
	}
	*email = &trimmed
	return nil
}
