// Package identity holds the people who operate the counter and the
// credential checks guarding supervisor-only actions.
package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

const minPasswordLength = 8

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]{3,50}$`)

// Role is what an operator is allowed to do
type Role string

const (
	RoleCashier    Role = "cajero"
	RoleWarehouse  Role = "deposito"
	RoleSupervisor Role = "supervisor"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleCashier, RoleWarehouse, RoleSupervisor:
		return true
	}
	return false
}

// ErrOverrideDenied is returned when supervisor credentials do not check out
var ErrOverrideDenied = shared.NewDomainError("OVERRIDE_DENIED", "Supervisor authorization failed")

// Operator is a person who logs into the point of sale
type Operator struct {
	ID           uuid.UUID
	Username     string
	DisplayName  string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewOperator creates an active operator with a hashed password
func NewOperator(username, displayName, password string, role Role) (*Operator, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must be 3-50 characters of a-z, 0-9, '.', '_' or '-'")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}

	now := time.Now()
	op := &Operator{
		ID:          uuid.New(),
		Username:    username,
		DisplayName: strings.TrimSpace(displayName),
		Role:        role,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := op.SetPassword(password); err != nil {
		return nil, err
	}
	return op, nil
}

// SetPassword replaces the stored hash
func (o *Operator) SetPassword(password string) error {
	if len(password) < minPasswordLength {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	o.PasswordHash = hash
	o.UpdatedAt = time.Now()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (o *Operator) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password))
	return err == nil
}

// CanOverride returns true for active supervisors
func (o *Operator) CanOverride() bool {
	return o.Active && o.Role == RoleSupervisor
}

// Deactivate blocks the operator from logging in
func (o *Operator) Deactivate() {
	o.Active = false
	o.UpdatedAt = time.Now()
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
