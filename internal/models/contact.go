package models

// Contact is a personal phonebook entry, visible only to its owner.
// JSON field names follow the original wire format consumed by the frontend.
type Contact struct {
	ID     int     `json:"id"`
	UserID int     `json:"user_id,omitempty"`
	Name   string  `json:"nome"`
	Number string  `json:"numero"`
	Email  *string `json:"email"`
	Notes  *string `json:"observacoes"`
}
