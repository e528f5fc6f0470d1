package domain

import "time"

// User is a person who can be assigned to a service.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Roles       RoleSet   `json:"roles"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateUserRequest is the inbound payload for registering a user.
type CreateUserRequest struct {
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	PhoneNumber string   `json:"phone_number" validate:"omitempty,e164"`
	Roles       []string `json:"roles" validate:"required,min=1"`
}
