// Package identity owns the single signed-in session of the storefront.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"groco-backend/internal/models"
	"groco-backend/internal/storage"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already in use")
)

type Service struct {
	store *storage.Store
	log   *zap.Logger

	mu      sync.RWMutex
	current *models.User
}

// New restores any session left in the store.
func New(ctx context.Context, store *storage.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:   store,
		log:     log.Named("identity"),
		current: store.CurrentUser(ctx),
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.store.FindUserByEmail(ctx, email)
	if !ok || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		s.log.Debug("login rejected", zap.String("email", email))
		return models.User{}, ErrInvalidCredentials
	}

	s.setSession(ctx, user)
	s.log.Info("logged in", zap.String("userId", user.ID))
	return user, nil
}

func (s *Service) Signup(ctx context.Context, name, email, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.store.FindUserByEmail(ctx, email); exists {
		return models.User{}, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}
	user := models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		return models.User{}, err
	}
	s.setSession(ctx, user)

	s.log.Info("signed up", zap.String("userId", user.ID))
	return user, nil
}

func (s *Service) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.store.RemoveCurrentUser(ctx)
}

// Current returns the signed-in user, if any.
func (s *Service) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.User{}, false
	}
	return *s.current, true
}

func (s *Service) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// caller holds s.mu
func (s *Service) setSession(ctx context.Context, u models.User) {
	s.current = &u
	s.store.SetCurrentUser(ctx, u)
}
