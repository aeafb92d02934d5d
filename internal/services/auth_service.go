package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vytor/studysmart/internal/errors"
	"github.com/vytor/studysmart/internal/logger"
	"github.com/vytor/studysmart/internal/models"
	"github.com/vytor/studysmart/internal/repository"
)

const tokenIssuer = "studysmart"

// maxPasswordBytes is the most bcrypt will hash.
const maxPasswordBytes = 72

// AuthResult is a signed-in user with a bearer token.
type AuthResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// AuthService handles accounts and bearer tokens
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Authenticate(token string) (string, error)
	Me(ctx context.Context, userID string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	secret   []byte
	ttl      time.Duration
	cost     int
	now      func() time.Time
}

// NewAuthService creates a new AuthService signing HS256 tokens with secret.
func NewAuthService(userRepo repository.UserRepository, secret string, ttl time.Duration) AuthService {
	return &authService{
		userRepo: userRepo,
		secret:   []byte(secret),
		ttl:      ttl,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	log := logger.FromContext(ctx).WithPrefix("auth")
	log.Debug("registering user: username=%s", username)

	if len(password) > maxPasswordBytes {
		return nil, errors.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return nil, errors.NewInternalError(err)
	}

	u := models.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.userRepo.Insert(ctx, u); err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewConflictError("Username or email already registered")
		}
		log.Error("failed to insert user: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("user registered: id=%s", u.ID)
	return s.issue(u)
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContext(ctx).WithPrefix("auth")

	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		log.Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		log.Debug("login rejected")
		return nil, errors.NewUnauthorizedError("Invalid credentials")
	}

	now := s.now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, u.ID, now); err != nil {
		log.Warn("failed to record login: %v", err)
	} else {
		u.LastLoginAt = &now
	}
	return s.issue(*u)
}

func (s *authService) issue(u models.User) (*AuthResult, error) {
	now := s.now()
	expires := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   u.ID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, errors.NewInternalError(fmt.Errorf("sign token: %w", err))
	}
	return &AuthResult{Token: signed, ExpiresAt: expires.UTC(), User: u}, nil
}

// Authenticate returns the user id carried by a valid token.
func (s *authService) Authenticate(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", errors.NewUnauthorizedError("Invalid or expired token")
	}
	return claims.Subject, nil
}

func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if u == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}
	return u, nil
}
