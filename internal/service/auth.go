package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nexaboard/nexaboard-go/internal/crypto"
	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
)

const tracerName = "github.com/nexaboard/nexaboard-go/internal/service"

// TokenIssuer signs identity tokens for a subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// AuthResult is what register and login hand back to the caller: the token
// to place in the session cookie and the user it identifies.
type AuthResult struct {
	Token string
	User  *model.User
}

// AuthService handles authentication business logic.
type AuthService struct {
	repo      repository.UserRepository
	tokens    TokenIssuer
	tracer    trace.Tracer
	dummyHash string
}

// NewAuthService creates a new AuthService. It hashes a random throwaway
// password once so that logins for unknown emails still pay for a verify.
func NewAuthService(repo repository.UserRepository, tokens TokenIssuer) (*AuthService, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	dummy, err := crypto.HashPassword(hex.EncodeToString(buf))
	if err != nil {
		return nil, fmt.Errorf("preparing dummy hash: %w", err)
	}

	return &AuthService{
		repo:      repo,
		tokens:    tokens,
		tracer:    otel.Tracer(tracerName),
		dummyHash: dummy,
	}, nil
}

// Register creates a new user account and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	email := model.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	switch {
	case email == "":
		return AuthResult{}, ErrEmailRequired
	case req.Password == "":
		return AuthResult{}, ErrPasswordRequired
	case name == "":
		return AuthResult{}, ErrNameRequired
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, recordSpanError(span, fmt.Errorf("checking email: %w", err))
	}
	if exists {
		span.SetStatus(codes.Error, "duplicate email")
		return AuthResult{}, ErrEmailTaken
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return AuthResult{}, recordSpanError(span, err)
	}

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         model.ParseRole(req.Role),
	}

	// The unique index catches registrations that raced past ExistsByEmail.
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			span.SetStatus(codes.Error, "duplicate email")
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, recordSpanError(span, fmt.Errorf("creating user: %w", err))
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return AuthResult{}, recordSpanError(span, fmt.Errorf("issuing token: %w", err))
	}

	span.SetAttributes(attribute.String("user.id", user.ID), attribute.String("user.role", string(user.Role)))
	span.SetStatus(codes.Ok, "")
	return AuthResult{Token: token, User: user}, nil
}

// Login authenticates a user and returns an auth token. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials after one password verify.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	email := model.NormalizeEmail(req.Email)
	if email == "" {
		return AuthResult{}, ErrEmailRequired
	}
	if req.Password == "" {
		return AuthResult{}, ErrPasswordRequired
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_, _ = crypto.VerifyPassword(req.Password, s.dummyHash)
			span.SetStatus(codes.Error, "invalid credentials")
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, recordSpanError(span, fmt.Errorf("looking up user: %w", err))
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return AuthResult{}, recordSpanError(span, fmt.Errorf("verifying password: %w", err))
	}
	if !match {
		span.SetStatus(codes.Error, "invalid credentials")
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return AuthResult{}, recordSpanError(span, fmt.Errorf("issuing token: %w", err))
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	span.SetStatus(codes.Ok, "")
	return AuthResult{Token: token, User: user}, nil
}

// UserByEmail resolves a validated token subject to its user.
func (s *AuthService) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func recordSpanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
