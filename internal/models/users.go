package models

import (
	"fmt"
	"strings"
)

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleDeveloper Role = "developer"
	RoleManager   Role = "manager"
	RoleViewer    Role = "viewer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDeveloper, RoleManager, RoleViewer:
		return true
	}
	return false
}

// User is an account of the board application.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// Validate checks name, email and role.
func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("%w: email %q is not valid", ErrValidation, u.Email)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, u.Role)
	}
	return nil
}

// UserPatch is a partial update of a user.
type UserPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Role  *Role   `json:"role,omitempty"`
}

func (u User) Apply(patch UserPatch) User {
	if patch.Name != nil {
		u.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		u.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	return u
}
