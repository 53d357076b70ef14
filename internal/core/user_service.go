package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invoicing-app/internal/rdbms"
)

// RegisterInput is the payload for creating a new user account.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	CompanyName string
}

// UserService handles registration and authentication.
type UserService struct {
	db rdbms.Executor
}

// NewUserService constructs a UserService over the shared storage client.
func NewUserService(db rdbms.Executor) *UserService {
	return &UserService{db: db}
}

// Register creates a user after checking username/email uniqueness.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" {
		return nil, validationf("username", "username is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, validationf("email", "a valid email is required")
	}
	if len(in.Password) < 6 {
		return nil, validationf("password", "password must be at least 6 characters")
	}

	probe := fmt.Sprintf("SELECT id FROM users WHERE email = %s OR username = %s",
		rdbms.Quote(in.Email), rdbms.Quote(in.Username))
	res, err := s.db.Execute(ctx, probe)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if len(res.Data) > 0 {
		return nil, validationf("username", "username or email already exists")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	idRes, err := s.db.Execute(ctx, "SELECT COALESCE(MAX(id), 0) + 1 AS next_id FROM users")
	if err != nil {
		return nil, fmt.Errorf("allocate user id: %w", err)
	}
	userID := idRes.ScalarInt("next_id")
	if userID <= 0 {
		userID = 1
	}

	now := time.Now().UTC()
	insert := fmt.Sprintf(
		"INSERT INTO users VALUES (%s, %s, %s, %s, %s, %s, %s, NULL, TRUE)",
		rdbms.Int(userID),
		rdbms.Quote(in.Username),
		rdbms.Quote(in.Email),
		rdbms.Quote(hash),
		rdbms.Quote(in.FullName),
		rdbms.Quote(in.CompanyName),
		rdbms.Timestamp(now),
	)
	if _, err := s.db.Execute(ctx, insert); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &User{
		ID:          userID,
		Username:    in.Username,
		Email:       in.Email,
		FullName:    in.FullName,
		CompanyName: in.CompanyName,
		CreatedAt:   now,
		IsActive:    true,
	}, nil
}

// Authenticate verifies the email/password pair against the stored hash.
// Failures are uniform ErrInvalidCredentials regardless of cause.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	query := fmt.Sprintf("SELECT * FROM users WHERE email = %s AND is_active = TRUE",
		rdbms.Quote(email))
	res, err := s.db.Execute(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if len(res.Data) == 0 {
		return nil, ErrInvalidCredentials
	}

	user := userFromRow(res.Data[0])
	if !VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	touch := fmt.Sprintf("UPDATE users SET last_login = %s WHERE id = %s",
		rdbms.Timestamp(time.Now().UTC()), rdbms.Int(user.ID))
	if _, err := s.db.Execute(ctx, touch); err != nil {
		// Login still succeeds; the stamp is best-effort.
		return user, nil
	}
	return user, nil
}

// GetByID returns a user by primary key.
func (s *UserService) GetByID(ctx context.Context, userID int) (*User, error) {
	res, err := s.db.Execute(ctx, fmt.Sprintf(
		"SELECT * FROM users WHERE id = %s", rdbms.Int(userID)))
	if err != nil {
		return nil, fmt.Errorf("fetch user %d: %w", userID, err)
	}
	if len(res.Data) == 0 {
		return nil, ErrNotFound
	}
	return userFromRow(res.Data[0]), nil
}
