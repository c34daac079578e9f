package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"aaruto/internal/models"
	"aaruto/internal/repositories"
)

// The admin pair is recognized without a signup record and always grants the
// admin flag, matching the original product behavior.
const (
	adminEmail    = "abhi.solanki142011@gmail.com"
	adminPassword = "aaruto100108112"
)

// AuthService tracks the session principal. Credentials are local records;
// there is no token, session expiry or server round trip.
type AuthService interface {
	Startup(ctx context.Context)
	Login(ctx context.Context, email, password string) (*models.Identity, error)
	Signup(ctx context.Context, email, password string) (*models.Identity, error)
	Logout(ctx context.Context)
	Current() *models.Identity
	ListUsers(ctx context.Context) ([]models.User, error)
}

type authService struct {
	mu          sync.Mutex
	current     *models.Identity
	credentials repositories.CredentialRepository
	state       repositories.StateRepository
}

func NewAuthService(credentials repositories.CredentialRepository, state repositories.StateRepository) AuthService {
	return &authService{credentials: credentials, state: state}
}

// Startup restores the persisted identity so a relaunch lands past the login
// screen.
func (s *authService) Startup(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.state.LoadIdentity(ctx)
	if s.current != nil {
		log.Printf("auth: restored session for %s", s.current.Email)
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	email = strings.TrimSpace(email)

	if email == adminEmail && password == adminPassword {
		return s.establish(ctx, &models.Identity{Email: email, IsAdmin: true}), nil
	}

	user, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Password != password {
		return nil, models.ErrCredentialMismatch
	}
	return s.establish(ctx, &models.Identity{Email: email}), nil
}

func (s *authService) Signup(ctx context.Context, email, password string) (*models.Identity, error) {
	email = strings.TrimSpace(email)

	existing, err := s.credentials.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil || email == adminEmail {
		return nil, models.ErrEmailTaken
	}

	if err := s.credentials.Create(ctx, &models.User{Email: email, Password: password}); err != nil {
		return nil, err
	}
	return s.establish(ctx, &models.Identity{Email: email}), nil
}

func (s *authService) establish(ctx context.Context, id *models.Identity) *models.Identity {
	s.mu.Lock()
	s.current = id
	s.mu.Unlock()
	s.state.SaveIdentity(ctx, id)
	return id
}

func (s *authService) Logout(ctx context.Context) {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.state.ClearIdentity(ctx)
}

func (s *authService) Current() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ListUsers returns every signup record. Admin sessions only.
func (s *authService) ListUsers(ctx context.Context) ([]models.User, error) {
	current := s.Current()
	if current == nil || !current.IsAdmin {
		return nil, models.ErrAdminOnly
	}
	return s.credentials.List(ctx)
}
