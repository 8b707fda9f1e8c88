package model

import "time"

// Role represents the role of a user in the platform
type Role string

const (
	RoleEnthusiast Role = "enthusiast" // Default role, browse + like + comment
	RoleCreator    Role = "creator"    // Can publish sites, traditions, symbols
	RoleGuide      Role = "guide"      // Tour guide, browse-level permissions
	RoleAdmin      Role = "admin"      // Full access including role changes
)

// ValidRoles is the closed set of roles the platform recognizes.
var ValidRoles = []Role{RoleEnthusiast, RoleCreator, RoleGuide, RoleAdmin}

// IsValid returns true if the role is one of the recognized roles
func (r Role) IsValid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// UserProfile represents a user account and its resolved role
type UserProfile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	PhotoURL    *string   `json:"photo_url,omitempty"`
	Role        Role      `json:"role"`
	Hash        *string   `json:"-"` // Never expose password hash
	CreatedOn   time.Time `json:"created_on"`
	UpdatedOn   time.Time `json:"updated_on"`
}

// IsAdmin returns true if the user has admin role
func (u *UserProfile) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanPublish returns true if the user may create catalog entries of the
// given entity type.
func (u *UserProfile) CanPublish(t EntityType) bool {
	return AllowSetFor(t).Contains(u.Role)
}

// AllowSet is the set of roles permitted to pass a role gate
type AllowSet []Role

// Contains reports whether the role is in the allow-set
func (s AllowSet) Contains(r Role) bool {
	for _, v := range s {
		if v == r {
			return true
		}
	}
	return false
}

// AllowSetFor returns the roles allowed to create entries of the given type.
// Guide profiles are curated, so only admins publish them; the rest accept
// creators too.
func AllowSetFor(t EntityType) AllowSet {
	if t == EntityGuide {
		return AllowSet{RoleAdmin}
	}
	return AllowSet{RoleAdmin, RoleCreator}
}

// TokenClaims represents extracted JWT claims
type TokenClaims struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}
