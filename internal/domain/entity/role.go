package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Role is one of a closed set of permission tags. The canonical stored form
// keeps the ROLE_ prefix; Claim() yields the bare form embedded in tokens.
type Role string

const (
	RolePatient Role = "ROLE_PATIENT"
	RoleDoctor  Role = "ROLE_DOCTOR"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole normalizes a role name to its canonical form. It accepts any
// case, with or without the ROLE_ prefix.
func ParseRole(name string) (Role, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	normalized = strings.TrimPrefix(normalized, "ROLE_")
	switch normalized {
	case "PATIENT":
		return RolePatient, nil
	case "DOCTOR":
		return RoleDoctor, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, name)
}

// Claim returns the role in the bare uppercase form carried in token claims.
func (r Role) Claim() string {
	return strings.TrimPrefix(string(r), "ROLE_")
}

// RoleSet is the set of roles held by a user, stored as a jsonb array.
type RoleSet []Role

// NewRoleSet normalizes and deduplicates role names. An empty input defaults
// to a patient-only set.
func NewRoleSet(names ...string) (RoleSet, error) {
	if len(names) == 0 {
		return RoleSet{RolePatient}, nil
	}

	set := make(RoleSet, 0, len(names))
	for _, name := range names {
		role, err := ParseRole(name)
		if err != nil {
			return nil, err
		}
		if !set.Has(role) {
			set = append(set, role)
		}
	}
	return set, nil
}

func (s RoleSet) Has(role Role) bool {
	for _, r := range s {
		if r == role {
			return true
		}
	}
	return false
}

// Primary selects the role embedded in a session token. A token carries a
// single role claim, so doctor takes precedence for dual-role users.
func (s RoleSet) Primary() Role {
	if s.Has(RoleDoctor) {
		return RoleDoctor
	}
	return RolePatient
}

// Names returns the canonical string form of every role in the set.
func (s RoleSet) Names() []string {
	names := make([]string, len(s))
	for i, r := range s {
		names[i] = string(r)
	}
	return names
}

// Value implements driver.Valuer for jsonb storage
func (s RoleSet) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner
func (s *RoleSet) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal role set value: %v", value)
	}

	var roles []Role
	if err := json.Unmarshal(bytes, &roles); err != nil {
		return err
	}
	*s = roles
	return nil
}
