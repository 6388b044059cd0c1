package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/salesbook/internal/config"
)

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken is returned when a session token fails validation.
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims is the payload of a session token. Subject carries the user ID.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service checks credentials against the configured users and issues session tokens.
type Service struct {
	users  map[string]config.User
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewService indexes the configured users once; later environment changes are not observed.
func NewService(cfg config.AuthConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	users := make(map[string]config.User, len(cfg.Users))
	for _, u := range cfg.Users {
		if _, dup := users[u.Username]; dup {
			logger.Warn("duplicate username in configuration, keeping the first", zap.String("username", u.Username))
			continue
		}
		users[u.Username] = u
	}

	return &Service{
		users:  users,
		secret: []byte(cfg.SecretKey),
		ttl:    cfg.SessionTTL,
		logger: logger,
		now:    time.Now,
	}
}

// Login verifies the credentials and returns a signed session token with its expiry.
func (s *Service) Login(username, password string) (string, time.Time, error) {
	user, ok := s.users[username]
	if !ok || !passwordMatches(user.Password, password) {
		s.logger.Info("login rejected", zap.String("username", username))
		return "", time.Time{}, ErrInvalidCredentials
	}

	issued := s.now()
	expires := issued.Add(s.ttl)
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("username", user.Username))
	return token, expires, nil
}

// ValidateToken parses a session token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if _, known := s.users[claims.Username]; !known {
		return nil, fmt.Errorf("%w: unknown user %q", ErrInvalidToken, claims.Username)
	}

	return claims, nil
}

// passwordMatches compares against a bcrypt hash when one is configured, otherwise in constant time.
func passwordMatches(stored, given string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}

func isBcryptHash(value string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
