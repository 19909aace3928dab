package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/goserg/matchrating/internal/config"
)

const CookieName = "token"

var (
	ErrNotAuthorized = errors.New("unauthorized")
	ErrTokenExpired  = errors.New("token expired")
)

// Service verifies HS256 tokens whose subject is a user id.
type Service struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func New(cfg config.Auth) (*Service, error) {
	expiration, err := time.ParseDuration(cfg.Expiration)
	if err != nil {
		return nil, fmt.Errorf("auth expiration: %w", err)
	}
	return &Service{
		secret:     []byte(cfg.Secret),
		expiration: expiration,
		now:        time.Now,
	}, nil
}

// Enabled reports whether a secret is configured. Without one every token is rejected
// and writes do not require a viewer.
func (s *Service) Enabled() bool {
	return len(s.secret) > 0
}

// Verify returns the user id carried by the token.
func (s *Service) Verify(tokenString string) (uuid.UUID, error) {
	if !s.Enabled() || tokenString == "" {
		return uuid.Nil, ErrNotAuthorized
	}
	token, err := jwt.ParseWithClaims(tokenString, &jwt.StandardClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			return uuid.Nil, fmt.Errorf("%w: %w", ErrNotAuthorized, ErrTokenExpired)
		}
		return uuid.Nil, fmt.Errorf("%w: %w", ErrNotAuthorized, err)
	}
	claims, ok := token.Claims.(*jwt.StandardClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrNotAuthorized
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, ErrNotAuthorized
	}
	return id, nil
}

// Issue signs a token for the user.
func (s *Service) Issue(userID uuid.UUID) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrNotAuthorized
	}
	now := s.now()
	expiresAt := now.Add(s.expiration)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
		Subject:   userID.String(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *Service) GenerateJWTCookie(userID uuid.UUID) (*fiber.Cookie, error) {
	token, expiresAt, err := s.Issue(userID)
	if err != nil {
		return nil, err
	}
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}, nil
}

// TokenFromRequest prefers the bearer token over the cookie.
func TokenFromRequest(cookie, authorization string) string {
	const prefix = "Bearer "
	if len(authorization) > len(prefix) && strings.EqualFold(authorization[:len(prefix)], prefix) {
		return strings.TrimSpace(authorization[len(prefix):])
	}
	return cookie
}
