// Package models defines the PatinaPRO client data types and the JSON shapes
// exchanged with the backend.
package models

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"usuario"`
	Password string `json:"password"`
}

// NewUser is the create-user request body.
type NewUser struct {
	Username string `json:"usuario"`
	Password string `json:"password"`
	Email    string `json:"correo"`
}

// CreatedUser is returned by a successful registration.
type CreatedUser struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"usuario"`
	Email    string `json:"correo"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Message  string `json:"mensaje"`
	Username string `json:"usuario"`
}

// MessageResult is the reply to update and delete calls.
type MessageResult struct {
	Message string `json:"mensaje"`
}
