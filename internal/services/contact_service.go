package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agenda/internal/apperrors"
	"agenda/internal/models"
)

// ContactServiceProvider defines the interface for personal contact services.
// Every operation is scoped to an owner; a contact that exists but belongs to
// someone else behaves exactly like one that does not exist.
type ContactServiceProvider interface {
	Add(ctx context.Context, ownerID int, name, number string, email, notes *string) (models.Contact, error)
	List(ctx context.Context, ownerID int, search string) ([]models.Contact, error)
	Get(ctx context.Context, ownerID, contactID int) (models.Contact, error)
	Update(ctx context.Context, ownerID, contactID int, name, number string, email, notes *string) (models.Contact, error)
	Delete(ctx context.Context, ownerID, contactID int) error
}

// ContactService provides CRUD over a user's personal phonebook.
type ContactService struct {
	db *sql.DB
}

// NewContactService creates a new ContactService.
func NewContactService(db *sql.DB) *ContactService {
	return &ContactService{db: db}
}

// Add inserts a new contact for the owner. The (owner, number) pair is kept
// unique by the database; the same number under a different owner is fine.
func (s *ContactService) Add(ctx context.Context, ownerID int, name, number string, email, notes *string) (models.Contact, error) {
	if name == "" || number == "" {
		return models.Contact{}, fmt.Errorf("%w: contact name and number are required", apperrors.ErrValidation)
	}

	contact := models.Contact{
		UserID: ownerID,
		Name:   name,
		Number: number,
		Email:  email,
		Notes:  notes,
	}

	err := s.db.QueryRowContext(ctx,
		"INSERT INTO contacts (user_id, name, number, email, notes) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		ownerID, name, number, email, notes).Scan(&contact.ID)
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return models.Contact{}, fmt.Errorf("%w: number %s already in this phonebook", apperrors.ErrDuplicate, number)
		}
		return models.Contact{}, fmt.Errorf("failed to insert contact: %w", err)
	}

	return contact, nil
}

// List returns the owner's contacts sorted by name. A non-empty search term
// filters to contacts whose name or number contains it, case-insensitively.
func (s *ContactService) List(ctx context.Context, ownerID int, search string) ([]models.Contact, error) {
	query := "SELECT id, name, number, email, notes FROM contacts WHERE user_id = $1"
	args := []any{ownerID}
	if search != "" {
		query += " AND (name ILIKE '%' || $2 || '%' OR number ILIKE '%' || $2 || '%')"
		args = append(args, search)
	}
	query += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Number, &c.Email, &c.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// Get retrieves one of the owner's contacts.
func (s *ContactService) Get(ctx context.Context, ownerID, contactID int) (models.Contact, error) {
	var c models.Contact
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, number, email, notes FROM contacts WHERE id = $1 AND user_id = $2",
		contactID, ownerID).Scan(&c.ID, &c.Name, &c.Number, &c.Email, &c.Notes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Contact{}, fmt.Errorf("%w: contact %d", apperrors.ErrNotFound, contactID)
		}
		return models.Contact{}, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}

// Update replaces a contact's fields. Changing the number to one already in
// the owner's phonebook trips the same unique constraint as Add.
func (s *ContactService) Update(ctx context.Context, ownerID, contactID int, name, number string, email, notes *string) (models.Contact, error) {
	if name == "" || number == "" {
		return models.Contact{}, fmt.Errorf("%w: contact name and number are required", apperrors.ErrValidation)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE contacts SET name = $1, number = $2, email = $3, notes = $4 WHERE id = $5 AND user_id = $6",
		name, number, email, notes, contactID, ownerID)
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return models.Contact{}, fmt.Errorf("%w: number %s already in this phonebook", apperrors.ErrDuplicate, number)
		}
		return models.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	} else if n == 0 {
		return models.Contact{}, fmt.Errorf("%w: contact %d", apperrors.ErrNotFound, contactID)
	}

	return models.Contact{
		ID:     contactID,
		UserID: ownerID,
		Name:   name,
		Number: number,
		Email:  email,
		Notes:  notes,
	}, nil
}

// Delete removes one of the owner's contacts.
func (s *ContactService) Delete(ctx context.Context, ownerID, contactID int) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM contacts WHERE id = $1 AND user_id = $2",
		contactID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	} else if n == 0 {
		return fmt.Errorf("%w: contact %d", apperrors.ErrNotFound, contactID)
	}
	return nil
}
