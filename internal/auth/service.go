package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"carpool-service/pkg/jwt"
	"carpool-service/pkg/validation"
)

// StatsCache caches computed user stats. Satisfied by *redis.Client;
// nil disables caching.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Service contains identity and session business logic.
type Service struct {
	store    Store
	tokens   *jwt.Manager
	cache    StatsCache
	statsTTL time.Duration
	log      *zap.Logger
}

// NewService creates an auth service.
func NewService(store Store, tokens *jwt.Manager, cache StatsCache, statsTTL time.Duration, log *zap.Logger) *Service {
	return &Service{store: store, tokens: tokens, cache: cache, statsTTL: statsTTL, log: log}
}

// Register creates a new account and issues a credential for immediate login.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validation.ValidateName(name) {
		return nil, validation.Errorf("Name must be at least 2 characters long")
	}
	if !validation.ValidateEmail(email) {
		return nil, validation.Errorf("Please enter a valid email")
	}
	if !validation.ValidatePassword(req.Password) {
		return nil, validation.Errorf("Password must be at least 6 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Message: "User registered successfully", Token: token, User: u}, nil
}

// Login authenticates a user and issues a fresh credential. The failure
// message is identical for unknown email and wrong password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, validation.Errorf("Email and password are required")
	}

	u, err := s.store.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Message: "Login successful", Token: token, User: u}, nil
}

// UpdateProfile applies a partial update to the user's own profile.
// Absent fields stay untouched; an explicitly empty dob clears it.
func (s *Service) UpdateProfile(ctx context.Context, actorID, targetID string, req UpdateProfileRequest) (*User, error) {
	if actorID != targetID {
		return nil, ErrNotSelf
	}

	u, err := s.store.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !validation.ValidateName(name) {
			return nil, validation.Errorf("Name must be at least 2 characters long")
		}
		u.Name = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !validation.ValidateEmail(email) {
			return nil, validation.Errorf("Please enter a valid email")
		}
		u.Email = email
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != "" && !validation.ValidatePhone(phone) {
			return nil, validation.Errorf("Please enter a valid phone number")
		}
		u.Phone = phone
	}
	if req.Address != nil {
		u.Address = strings.TrimSpace(*req.Address)
	}
	if req.DOB != nil {
		if *req.DOB == "" {
			u.DOB = nil
		} else {
			dob, err := time.Parse("2006-01-02", *req.DOB)
			if err != nil {
				return nil, validation.Errorf("Date of birth must be in YYYY-MM-DD format")
			}
			u.DOB = &dob
		}
	}

	if err := s.store.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Stats returns the user's activity summary, served from cache when fresh.
func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	key := statsKey(userID)
	if s.cache != nil {
		var cached Stats
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	st, err := s.store.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, st, s.statsTTL); err != nil {
			s.log.Warn("failed to cache user stats", zap.Error(err))
		}
	}
	return st, nil
}

func statsKey(userID string) string { return "stats:" + userID }
