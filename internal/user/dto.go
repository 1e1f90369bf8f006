// AngelaMos | 2026
// dto.go

package user

import (
	"strings"
)

// CreateUserRequest is the admin-only create payload. Self-service
// account creation goes through signup.
type CreateUserRequest struct {
	Name            string `json:"name"            validate:"required,min=1,max=100"`
	Email           string `json:"email"           validate:"required,email,max=255"`
	Password        string `json:"password"        validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
	Role            string `json:"role,omitempty"  validate:"omitempty,oneof=user guide lead-guide admin"`
	Photo           string `json:"photo,omitempty" validate:"omitempty,max=255"`
}

// UpdateMeRequest deliberately has no password or role fields; password
// changes go through updateMyPassword and roles are admin-only.
type UpdateMeRequest struct {
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=1,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Photo *string `json:"photo,omitempty" validate:"omitempty,max=255"`
}

// UpdateUserRequest is the admin patch: profile fields plus role.
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=1,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Photo *string `json:"photo,omitempty" validate:"omitempty,max=255"`
	Role  *string `json:"role,omitempty"  validate:"omitempty,oneof=user guide lead-guide admin"`
}

// NormalizeEmail lowercases and trims, matching the stored form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
