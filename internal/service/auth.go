// Package service contains the business logic layer: validation, the
// authentication rules, and ownership-scoped todo orchestration.
//
// Services accept primitives and return domain errors from the apperror
// package; they know nothing about HTTP. Handlers translate both directions
// at the edge. Dependencies are injected as interfaces, so tests swap the
// SQLite repositories for in-memory fakes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sakif/todolist-api/internal/apperror"
	"github.com/sakif/todolist-api/internal/auth"
	"github.com/sakif/todolist-api/internal/model"
	"github.com/sakif/todolist-api/internal/repository"
)

// Validation limits for registration. Name and email mirror the column
// widths and are counted in runes; the password cap is bcrypt's 72-byte
// input limit, so it is counted in bytes.
const (
	MaxNameLength     = 128
	MaxEmailLength    = 128
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// emailPattern is a permissive shape check: something, an @, a domain with
// a dot. Real validation of deliverability is out of scope; this only
// rejects obvious garbage.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService orchestrates registration and login.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account.
//
// Order of checks:
//  1. Shape validation — every failing field is reported at once, not just
//     the first.
//  2. Duplicate email — rejected as Conflict (the unique index backstops
//     the race between the check and the insert).
//  3. Hash and persist. A single insert is the only mutation, so a storage
//     failure leaves no partial record behind.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	verr := apperror.NewValidationError()
	if name == "" {
		verr.Add("Name", apperror.MustNotBeEmpty("Name"))
	} else if utf8.RuneCountInString(name) > MaxNameLength {
		verr.Add("Name", apperror.MaxLength("Name", MaxNameLength))
	}
	if email == "" {
		verr.Add("Email", apperror.MustNotBeEmpty("Email"))
	} else {
		if utf8.RuneCountInString(email) > MaxEmailLength {
			verr.Add("Email", apperror.MaxLength("Email", MaxEmailLength))
		}
		if !emailPattern.MatchString(email) {
			verr.Add("Email", "'Email' is not a valid email address.")
		}
	}
	switch {
	case password == "":
		verr.Add("Password", apperror.MustNotBeEmpty("Password"))
	case utf8.RuneCountInString(password) < MinPasswordLength:
		verr.Add("Password", apperror.MinLength("Password", MinPasswordLength))
	case len(password) > MaxPasswordBytes:
		verr.Add("Password", apperror.MaxLength("Password", MaxPasswordBytes))
	}
	if !verr.Empty() {
		return nil, verr
	}

	// Duplicate check. ErrNotFound is the happy path here; any other
	// lookup failure is a real storage problem.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("Email already in use")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking email availability: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login verifies credentials and issues an access token.
//
// The two failure modes are deliberately distinct, matching the API's
// long-standing behavior: an unknown email is InvalidCredentials (HTTP
// 400), while a known email with the wrong password is Unauthorized (HTTP
// 401) with the message "Incorrect user or password!".
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.InvalidCredentials()
		}
		return "", fmt.Errorf("looking up user by email: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Warn("failed login attempt", slog.Int64("userID", user.ID))
		return "", apperror.Unauthorized("Incorrect user or password!")
	}

	token, err := s.tokens.Issue(user.ID, user.Name, user.Email)
	if err != nil {
		return "", fmt.Errorf("issuing token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))

	return token, nil
}
