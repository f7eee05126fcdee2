package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pageza/cooking-assistant/backend/internal/models"
	"github.com/pageza/cooking-assistant/backend/internal/store"
	"github.com/pageza/cooking-assistant/backend/internal/types"
)

// Registration and login failures. The messages are shown to the user.
var (
	ErrMissingFields       = errors.New("All fields are required")
	ErrPasswordMismatch    = errors.New("Passwords do not match")
	ErrInvalidEmail        = errors.New("Please enter a valid email")
	ErrMissingCredentials  = errors.New("Please enter both email and password")
	ErrWrongPassword       = errors.New("Incorrect password")
	ErrEmailUnavailable    = errors.New("This email cannot be used, please choose another")
	ErrUserExists          = store.ErrUserExists
	ErrUserNotFound        = store.ErrUserNotFound
	ErrInvalidToken        = errors.New("invalid token")
	ErrUnexpectedSignature = errors.New("unexpected signing method")
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// AuthService registers and authenticates users against a UserStore and
// issues bearer tokens for the API.
type AuthService struct {
	users     store.UserStore
	hasher    PasswordHasher
	jwtSecret []byte
	now       func() time.Time
}

func NewAuthService(users store.UserStore, hasher PasswordHasher, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		hasher:    hasher,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

// ValidEmail reports whether email has the accepted shape
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Register validates the form and creates the user. On any error the store
// is left unchanged.
func (s *AuthService) Register(ctx context.Context, name, email, password, confirm string) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	taken, err := store.DirNameTaken(ctx, s.users, email)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if taken {
		return nil, ErrEmailUnavailable
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: s.hasher.Hash(password),
		CreatedAt:    s.now(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Authenticate checks the password against the stored hash and returns the
// user on success.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if s.hasher.Hash(password) != user.PasswordHash {
		return nil, ErrWrongPassword
	}
	return user, nil
}

// GetUser returns the stored user for email
func (s *AuthService) GetUser(ctx context.Context, email string) (*models.User, error) {
	return s.users.GetUser(ctx, email)
}

// GenerateToken signs a token for the user
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.Email,
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
		Email: user.Email,
		Name:  user.Name,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken parses and verifies a token issued by GenerateToken
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedSignature
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
