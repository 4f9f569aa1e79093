// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// # User Roles

// Role is a tag naming one of the dashboards an account may operate as.
type Role string

const (
	// Platform administration, the only role that may impersonate others
	RoleAdmin Role = "admin"

	// Manages creators and client accounts within a workspace
	RoleManager Role = "manager"

	// Produces captions, titles, scripts and thumbnails
	RoleCreator Role = "creator"

	// Read-only access to performance reports
	RoleAnalyst Role = "analyst"

	// External customer reviewing delivered content
	RoleClient Role = "client"
)

// allRoles is the administrative role set, in display order.
var allRoles = [...]Role{RoleAdmin, RoleManager, RoleCreator, RoleAnalyst, RoleClient}

var (
	// ErrUnknownRole is returned when a string is not one of the fixed role tags.
	ErrUnknownRole = errors.New("sec: unknown role")

	// ErrEmptyRoleSet is returned when a role set would contain no roles.
	ErrEmptyRoleSet = errors.New("sec: role set is empty")
)

// ParseRole converts a raw role tag into a [Role].
func ParseRole(raw string) (Role, error) {
	candidate := Role(strings.TrimSpace(raw))
	if !candidate.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
	return candidate, nil
}

// Valid reports whether r is one of the fixed role tags.
func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (r Role) String() string { return string(r) }

// # Role Sets

// RoleSet is an ordered, duplicate-free, non-empty list of roles.
//
// The zero value is an empty set and is only ever produced by failed parsing;
// every constructor below refuses to build one.
type RoleSet struct {
	roles []Role
}

// NewRoleSet validates roles and builds a set, dropping duplicates while
// preserving first-seen order.
func NewRoleSet(roles ...Role) (RoleSet, error) {
	seen := make(map[Role]struct{}, len(roles))
	ordered := make([]Role, 0, len(roles))

	for _, role := range roles {
		if !role.Valid() {
			return RoleSet{}, fmt.Errorf("%w: %q", ErrUnknownRole, string(role))
		}
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		ordered = append(ordered, role)
	}

	if len(ordered) == 0 {
		return RoleSet{}, ErrEmptyRoleSet
	}

	return RoleSet{roles: ordered}, nil
}

// ParseRoleSet builds a set from raw role tags.
func ParseRoleSet(raw []string) (RoleSet, error) {
	roles := make([]Role, 0, len(raw))
	for _, tag := range raw {
		role, err := ParseRole(tag)
		if err != nil {
			return RoleSet{}, err
		}
		roles = append(roles, role)
	}
	return NewRoleSet(roles...)
}

// SingleRole returns the set holding only r. r must be valid.
func SingleRole(r Role) (RoleSet, error) {
	return NewRoleSet(r)
}

// FullRoleSet returns the administrative set holding every role.
func FullRoleSet() RoleSet {
	roles := make([]Role, len(allRoles))
	copy(roles, allRoles[:])
	return RoleSet{roles: roles}
}

// Contains reports whether r is a member of the set.
func (s RoleSet) Contains(r Role) bool {
	for _, member := range s.roles {
		if member == r {
			return true
		}
	}
	return false
}

// ContainsTag is [RoleSet.Contains] for an unparsed tag, as found in URL paths.
func (s RoleSet) ContainsTag(tag string) bool {
	return s.Contains(Role(tag))
}

// IsFull reports whether the set is the full administrative set.
func (s RoleSet) IsFull() bool {
	if len(s.roles) != len(allRoles) {
		return false
	}
	for _, role := range allRoles {
		if !s.Contains(role) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the set has no members.
func (s RoleSet) IsEmpty() bool { return len(s.roles) == 0 }

// Roles returns a copy of the members in order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, len(s.roles))
	copy(out, s.roles)
	return out
}

// Strings returns the members as raw tags.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s.roles))
	for i, role := range s.roles {
		out[i] = string(role)
	}
	return out
}

// Equal reports whether both sets hold the same roles in the same order.
func (s RoleSet) Equal(other RoleSet) bool {
	if len(s.roles) != len(other.roles) {
		return false
	}
	for i := range s.roles {
		if s.roles[i] != other.roles[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a JSON array of tags.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON decodes a JSON array of tags, rejecting unknown or empty sets.
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseRoleSet(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
