package models

// User represents a registered account in the shared directory.
type User struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"` // Never expose this to the client
	Phone        *string `json:"phone"`
}
