package entity

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return true
	}

	return false
}

// User is an account. Password is stored in plaintext; this is demo data only.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Password   string    `json:"password"`
	FullName   string    `json:"fullName"`
	Role       Role      `json:"role"`
	Phone      string    `json:"phone"`
	IsVerified bool      `json:"isVerified"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
	Avatar     string    `json:"avatar,omitempty"`
}

type UserPayload struct {
	Email      string
	Password   string
	FullName   string
	Role       Role
	Phone      string
	IsVerified bool
	IsApproved bool
	Avatar     string
}

func (p UserPayload) Validate() error {
	if strings.TrimSpace(p.Email) == "" {
		return invalid("user email is required")
	}

	if !p.Role.Valid() {
		return invalid("unknown role %q", p.Role)
	}

	return nil
}

// NewUser always assigns the generated id and the creation time.
func NewUser(p UserPayload, id string, now time.Time) User {
	return User{
		ID:         id,
		Email:      strings.TrimSpace(p.Email),
		Password:   p.Password,
		FullName:   p.FullName,
		Role:       p.Role,
		Phone:      p.Phone,
		IsVerified: p.IsVerified,
		IsApproved: p.IsApproved,
		CreatedAt:  now,
		Avatar:     p.Avatar,
	}
}
