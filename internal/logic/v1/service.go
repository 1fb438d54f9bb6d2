package v1

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kaustubhduse/medical-chatbot/internal/core/domain"
	"github.com/kaustubhduse/medical-chatbot/internal/core/token"
	"github.com/kaustubhduse/medical-chatbot/middleware"
)

// AuthService implements the authentication business rules.
// It depends on the repository interface, the password hasher and the token
// manager (all injected via the constructor) and MUST NOT access a database
// driver directly. Instances are safe for concurrent use.
type AuthService struct {
	users  domain.UserRepository
	hasher *PasswordHasher
	tokens *token.Manager
}

// NewAuthService creates a new AuthService with the given dependencies.
func NewAuthService(users domain.UserRepository, hasher *PasswordHasher, tokens *token.Manager) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new user record. It does not authenticate: the caller
// must log in afterwards to obtain a token.
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) error {
	ctx, span := middleware.StartSpan(ctx, "auth.register", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return ErrMissingFields
	}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		span.SetAttributes(attribute.Bool("registration.success", false))
		return ErrEmailTaken
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A racing registration may land first; the store's unique index
		// surfaces that as a conflict, not a crash.
		if errors.Is(err, domain.ErrEmailTaken) {
			span.SetAttributes(attribute.Bool("registration.success", false))
			return ErrEmailTaken
		}
		span.RecordError(err)
		return fmt.Errorf("insert user: %w", err)
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.Bool("registration.success", true),
	)
	span.AddEvent("user.registered")

	return nil
}

// Login verifies the credentials and issues a bearer token bound to the
// user's id. A missing account and a wrong password return the identical
// generic error.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if req.Email == "" || req.Password == "" {
		return "", ErrMissingFields
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("query user: %w", err)
	}
	if user == nil || !s.hasher.Verify(req.Password, user.PasswordHash) {
		span.SetAttributes(attribute.Bool("auth.success", false))
		span.AddEvent("authentication.failed")
		return "", ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("issue token: %w", err)
	}

	span.SetAttributes(
		attribute.String("user.id", user.ID),
		attribute.Bool("auth.success", true),
	)
	span.AddEvent("user.authenticated")

	return tok, nil
}

// Profile returns the record for the authenticated user id, hash excluded
// by the User serialization contract.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UpdateProfile applies the provided fields to the authenticated user's
// record; absent fields are left unchanged. A provided password is hashed
// and stored without re-verifying the current one, mirroring the existing
// frontend contract (the verified path is ChangePassword).
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.update_profile", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if req.Email != "" && req.Email != user.Email {
		owner, err := s.users.GetByEmail(ctx, req.Email)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("check email owner: %w", err)
		}
		if owner != nil && owner.ID != userID {
			return nil, ErrEmailTaken
		}
		user.Email = req.Email
	}

	if req.Password != "" {
		passwordHash, err := s.hasher.Hash(req.Password)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = passwordHash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		span.RecordError(err)
		return nil, fmt.Errorf("update user: %w", err)
	}

	span.AddEvent("profile.updated")

	return user, nil
}

// ChangePassword replaces the stored hash after verifying the previous
// password against it.
func (s *AuthService) ChangePassword(ctx context.Context, userID, prevPassword, newPassword string) error {
	ctx, span := middleware.StartSpan(ctx, "auth.change_password", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("user.id", userID),
	))
	defer span.End()

	if prevPassword == "" || newPassword == "" {
		return ErrMissingFields
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("query user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !s.hasher.Verify(prevPassword, user.PasswordHash) {
		span.AddEvent("authentication.failed")
		return ErrInvalidCredentials
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = passwordHash

	if err := s.users.Update(ctx, user); err != nil {
		span.RecordError(err)
		return fmt.Errorf("update user: %w", err)
	}

	span.AddEvent("password.changed")

	return nil
}
