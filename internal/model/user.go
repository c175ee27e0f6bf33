package model

import (
	"fmt"
	"time"
)

// Role is the closed set of authorization roles. The free-form claim from a
// verified credential is parsed into this type at the authentication boundary
// and never travels further as a string.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleSurgeon Role = "surgeon"
	RoleNurse   Role = "nurse"
)

// ParseRole validates a role claim against the closed enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleSurgeon, RoleNurse:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// User represents a system account. Role is immutable except through the
// admin-only role-change operation.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate checks the candidate user record, accumulating all violations.
func (u *User) Validate() ValidationResult {
	var errs []string

	if u.Email == "" || !ValidEmail(u.Email) {
		errs = append(errs, "valid email is required")
	}
	if _, err := ParseRole(string(u.Role)); err != nil {
		errs = append(errs, "role must be nurse, surgeon, or admin")
	}

	return newValidationResult(errs)
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Contact   string `json:"contact" binding:"omitempty,phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UserFilters struct {
	Role Role
}
