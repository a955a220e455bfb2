package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account roles known to the back office.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleSuperviseur  Role = "superviseur"
	RoleAgent        Role = "agent"
	RoleConfirmateur Role = "confirmateur"
	RolePatient      Role = "patient"
	RoleClinique     Role = "clinique"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidRole        = errors.New("invalid role")
)

// Roles returns every role in declaration order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleSuperviseur, RoleAgent, RoleConfirmateur, RolePatient, RoleClinique}
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSuperviseur, RoleAgent, RoleConfirmateur, RolePatient, RoleClinique:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// IsStaff reports whether the role belongs to the back-office team.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleSuperviseur, RoleAgent, RoleConfirmateur:
		return true
	case RolePatient, RoleClinique:
		return false
	default:
		return false
	}
}

// ParseRole converts user input into a Role. Matching ignores case and
// surrounding whitespace.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// User models an account in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword reports whether the account finished its password setup.
func (u *User) HasPassword() bool {
	return u != nil && u.PasswordHash != ""
}

// FullName joins the non-empty name parts with a single space.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return JoinName(u.FirstName, u.LastName)
}

// JoinName joins non-empty, trimmed name parts with a single space.
func JoinName(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
