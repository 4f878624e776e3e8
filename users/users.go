package users

import (
	"slices"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Convivio role names
const (
	RoleUser         = "USER"          // Every registered account
	RoleEventCreator = "EVENT_CREATOR" // May create and edit events and places
	RoleAdmin        = "ADMIN"         // May manage other users
)

type User struct {
	ID           string    `json:"id"`                  // Unique identifier for the user
	Username     string    `json:"username"`            // Unique username
	Email        string    `json:"email"`               // User's email address
	FirstName    string    `json:"firstName,omitempty"` // First name of the user
	LastName     string    `json:"lastName,omitempty"`  // Last name of the user
	Roles        []string  `json:"roles,omitempty"`     // Role names
	PasswordHash string    `json:"-"`                   // Hashed password - never serialize
	Active       bool      `json:"active"`              // Deactivated accounts cannot log in
	DateJoined   time.Time `json:"dateJoined,omitempty"`
}

// UpdateRequest is a partial profile update; nil fields are left unchanged.
type UpdateRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// Apply copies the set fields of req onto u.
func (req UpdateRequest) Apply(u *User) {
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// AddRole adds role if missing and reports whether it changed anything.
func (u *User) AddRole(role string) bool {
	if u.HasRole(role) {
		return false
	}
	u.Roles = append(u.Roles, role)
	return true
}

// RemoveRole removes role and reports whether it changed anything.
func (u *User) RemoveRole(role string) bool {
	i := slices.Index(u.Roles, role)
	if i < 0 {
		return false
	}
	u.Roles = slices.Delete(u.Roles, i, i+1)
	return true
}
