package users

import (
	"strings"
	"time"

	"connect-ed/internal/domain/schools"
)

type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleTeacher      Role = "TEACHER"
	RoleParent       Role = "PARENT"
	RoleStudent      Role = "STUDENT"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleReceptionist:
		return RoleReceptionist, true
	case RoleTeacher:
		return RoleTeacher, true
	case RoleParent:
		return RoleParent, true
	case RoleStudent:
		return RoleStudent, true
	}
	return "", false
}

// IsStaff reports whether the role is school staff. Staff accounts are
// treated as implicitly email-verified; only parents and students gate on
// the verification flag.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleReceptionist, RoleTeacher:
		return true
	case RoleParent, RoleStudent:
		return false
	}
	return false
}

type User struct {
	ID       uint `gorm:"primaryKey"`
	Name     string
	Lastname string
	Email    string  `gorm:"not null;uniqueIndex:idx_users_email"`
	Password *string `gorm:""`

	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub"`

	Role       Role `gorm:"type:varchar(20);not null"`
	IsVerified bool

	// Distinct from the school's flag: a user finishes their own profile
	// setup independently of the tenant's onboarding.
	OnboardingComplete bool

	SchoolID uint `gorm:"not null;index"`
	School   *schools.School

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmailGateSatisfied is the verification check used at login: staff pass
// unconditionally, parents/students need a verified email.
func (u User) EmailGateSatisfied() bool {
	return u.Role.IsStaff() || u.IsVerified
}
