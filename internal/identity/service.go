package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/courtvision/courtvision/internal/shared"
)

// Service wraps account rules.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Authenticate validates email/password credentials. Unknown accounts and bad
// passwords are reported as shared.ErrInvalidCredentials. Store failures are
// returned wrapped so callers can tell an outage from a wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("identity: find user: %w", err)
	}
	if !user.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// CreateUser hashes the password and stores the account with its optional
// first membership.
func (s *Service) CreateUser(ctx context.Context, in NewUser) (int64, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return 0, fmt.Errorf("identity: create user: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("identity: hash password: %w", err)
	}
	var membership *Membership
	if in.Role != "" {
		membership = &Membership{Organization: in.Organization, Role: in.Role}
	}
	return s.repo.CreateUser(ctx, User{
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: string(hash),
		IsActive:     true,
	}, membership)
}

// SetRole assigns role to the user identified by email within organization.
func (s *Service) SetRole(ctx context.Context, email, organization, role string) error {
	if organization == "" || role == "" {
		return errors.New("identity: organization and role are required")
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("identity: find %s: %w", email, err)
	}
	return s.repo.SetMembership(ctx, Membership{UserID: user.ID, Organization: organization, Role: role})
}
