package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"agenda/internal/apperrors"
	"agenda/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, name, email, password string, phone *string) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
	UpdateProfile(ctx context.Context, id int, name, phone *string) (models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
}

// UserService provides account registration, authentication and the shared
// directory listing.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user, hashing their password. A duplicate email is
// reported by the database's unique constraint, not an application check, so
// concurrent registrations cannot race past it.
func (s *UserService) Register(ctx context.Context, name, email, password string, phone *string) (models.User, error) {
	if name == "" || email == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: name, email and password are required", apperrors.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:  name,
		Email: email,
		Phone: phone,
	}

	err = s.db.QueryRowContext(ctx,
		"INSERT INTO users (name, email, password, phone) VALUES ($1, $2, $3, $4) RETURNING id",
		name, email, string(hashed), phone).Scan(&user.ID)
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: email %s is taken", apperrors.ErrDuplicate, email)
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// Authenticate verifies a user's credentials. An unknown email and a wrong
// password return the same error, so the endpoint cannot be used to probe
// which emails are registered.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password, phone FROM users WHERE email = $1",
		email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperrors.ErrInvalidCredentials
		}
		return models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, apperrors.ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

// GetByID retrieves a single user by their ID, without the password hash.
func (s *UserService) GetByID(ctx context.Context, id int) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, phone FROM users WHERE id = $1",
		id).Scan(&user.ID, &user.Name, &user.Email, &user.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%w: user %d", apperrors.ErrNotFound, id)
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile updates a user's name and/or phone. Nil fields are left
// untouched; an empty phone string clears the stored phone.
func (s *UserService) UpdateProfile(ctx context.Context, id int, name, phone *string) (models.User, error) {
	if name == nil && phone == nil {
		return models.User{}, fmt.Errorf("%w: no fields to update", apperrors.ErrValidation)
	}

	var sets []string
	var args []any
	if name != nil {
		args = append(args, *name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if phone != nil {
		if *phone == "" {
			phone = nil // empty phone clears the column
		}
		args = append(args, phone)
		sets = append(sets, fmt.Sprintf("phone = $%d", len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.User{}, fmt.Errorf("failed to update profile: %w", err)
	} else if n == 0 {
		return models.User{}, fmt.Errorf("%w: user %d", apperrors.ErrNotFound, id)
	}

	return s.GetByID(ctx, id)
}

// ListAll returns every registered user for the shared directory, sorted by
// name. Password hashes never leave the select list.
func (s *UserService) ListAll(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, phone FROM users ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
