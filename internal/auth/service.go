package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

const (
	// OwnerID is the subject of every issued token: a board server has one
	// owner.
	OwnerID = "owner"

	TokenTTL   = 24 * time.Hour
	bcryptCost = 12
)

// Service issues and checks owner tokens. With no password hash configured
// the board is an open playground and every caller gets an anonymous id.
type Service struct {
	ownerHash []byte
	jwtSecret []byte
	now       func() time.Time
}

func NewService(ownerPasswordHash, jwtSecret string) *Service {
	return &Service{
		ownerHash: []byte(ownerPasswordHash),
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Open reports whether the server runs without a password.
func (s *Service) Open() bool { return len(s.ownerHash) == 0 }

// HashPassword returns the bcrypt hash to put in OWNER_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *Service) Login(password string) (*AuthResult, error) {
	if s.Open() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.ownerHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(OwnerID)
}

func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return sub, nil
}

// AnonymousID returns a fresh id for a playground visitor.
func AnonymousID() string {
	return "anon-" + uuid.New().String()[:8]
}

func (s *Service) issueToken(subject string) (*AuthResult, error) {
	now := s.now()
	exp := now.Add(TokenTTL)
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{Token: signed, ExpiresAt: time.Unix(exp.Unix(), 0).UTC()}, nil
}
