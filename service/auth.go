package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	userDomain "github.com/MEERAN2314/socialtab/user"
)

type SignupRequest struct {
	Username string
	Email    string
	PIN      string
	FullName string
}

type Session struct {
	Username    string
	UserID      string
	AccessToken string
	TokenType   string
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*Session, error) {
	username := userDomain.Normalize(req.Username)
	if !userDomain.ValidUsername(username) {
		return nil, fmt.Errorf("%w: username must be 3-30 alphanumeric characters (underscores and hyphens allowed)", ErrInvalidArgument)
	}
	if !userDomain.ValidPIN(req.PIN) {
		return nil, fmt.Errorf("%w: PIN must be 4-6 digits", ErrInvalidArgument)
	}
	if !userDomain.ValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidArgument)
	}

	if existing, err := s.userStore.GetUserByUsername(ctx, username); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username already registered", ErrConflict)
	} else if err != nil && !isUserNotFound(err) {
		return nil, fmt.Errorf("checking username: %w", err)
	}
	if existing, err := s.userStore.GetUserByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if err != nil && !isUserNotFound(err) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing PIN: %w", err)
	}

	u := userDomain.NewUser(username, req.Email, string(pinHash), req.FullName)
	if err := s.userStore.AddUser(ctx, u); err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}

	return s.newSession(u)
}

func (s *Service) Login(ctx context.Context, username, pin string) (*Session, error) {
	u, err := s.userStore.GetUserByUsername(ctx, userDomain.Normalize(username))
	if err != nil {
		if isUserNotFound(err) {
			return nil, fmt.Errorf("%w: invalid username or PIN", ErrUnauthorized)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PinHash), []byte(pin)); err != nil {
		return nil, fmt.Errorf("%w: invalid username or PIN", ErrUnauthorized)
	}

	return s.newSession(u)
}

func (s *Service) newSession(u *userDomain.User) (*Session, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenExpiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.TokenSecret))
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &Session{
		Username:    u.Username,
		UserID:      u.ID,
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// VerifyToken validates an access token and returns the username it was
// issued for.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.TokenSecret), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("%w: invalid or expired token", ErrUnauthorized)
	}
	return claims.Subject, nil
}

func isUserNotFound(err error) bool {
	var notFound *userDomain.ErrNotFound
	return errors.As(err, &notFound)
}
