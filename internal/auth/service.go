package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/OmerBikec/Enid-Beauty/internal/identity"
	"github.com/OmerBikec/Enid-Beauty/internal/patients"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// ErrBadCredentials is the only login failure clients ever see. It stays
// identical for unknown accounts and wrong passwords.
var ErrBadCredentials = errors.New("auth: check your credentials")

// ErrInvalidRegistration marks bad sign-up input.
var ErrInvalidRegistration = errors.New("auth: invalid registration")

// Service handles sign-up and login against the profile collection.
type Service struct {
	patients  *patients.Service
	creds     *CredentialStore
	tokens    *TokenIssuer
	adminCode string
	logger    *logging.Logger
}

func NewService(p *patients.Service, creds *CredentialStore, tokens *TokenIssuer, adminCode string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{patients: p, creds: creds, tokens: tokens, adminCode: adminCode, logger: logger}
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Email      string `json:"email"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	AdminCode  string `json:"admin_code,omitempty"`
}

// Register creates a patient account. When AdminCode matches the configured
// registration code the account is created as an admin instead.
func (s *Service) Register(ctx context.Context, req RegisterRequest, opts ...store.MutateOption) (*patients.Patient, error) {
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidRegistration)
	}
	role := identity.RolePatient
	if req.AdminCode != "" {
		if s.adminCode == "" || req.AdminCode != s.adminCode {
			return nil, fmt.Errorf("%w: invalid admin code", ErrInvalidRegistration)
		}
		role = identity.RoleAdmin
	}
	p := &patients.Patient{
		Name:       strings.TrimSpace(req.Name),
		Surname:    strings.TrimSpace(req.Surname),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		NationalID: strings.TrimSpace(req.NationalID),
		Phone:      strings.TrimSpace(req.Phone),
		Role:       role,
	}
	created, err := s.patients.Enroll(ctx, p, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.creds.Set(created.ID, req.Password); err != nil {
		return nil, fmt.Errorf("auth: failed to store credentials: %w", err)
	}
	s.logger.Info("account registered", "user_id", created.ID, "role", string(created.Role))
	return created, nil
}

// Login checks a login (email or national id) and password and returns a
// session token with the profile. Every failure is ErrBadCredentials.
func (s *Service) Login(ctx context.Context, login, password string) (string, *patients.Patient, error) {
	p, err := s.patients.FindByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		s.logger.Info("login failed", "login", login)
		return "", nil, ErrBadCredentials
	}
	if !s.creds.Check(p.ID, password) {
		s.logger.Info("login failed", "login", login)
		return "", nil, ErrBadCredentials
	}
	token, err := s.tokens.Issue(identity.Identity{UserID: p.ID, Role: p.Role})
	if err != nil {
		return "", nil, fmt.Errorf("auth: failed to issue token: %w", err)
	}
	return token, p, nil
}

// DeleteByOwner drops stored credentials when a profile is removed, so the
// service can be registered as a profile cascade.
func (s *Service) DeleteByOwner(ctx context.Context, userID string) error {
	s.creds.Remove(userID)
	return nil
}
