package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rezkam/taskmarket/internal/domain"
)

// Default token settings.
const (
	DefaultIssuer   = "taskmarket"
	DefaultTokenTTL = 24 * time.Hour
)

// ErrSecretRequired is returned when no signing secret is configured.
var ErrSecretRequired = errors.New("token signing secret is required")

// TokenConfig holds JWT configuration.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Claims are the JWT claims carried by bearer tokens. Subject is the user id.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a TokenManager. Applies defaults for empty issuer and TTL.
func NewTokenManager(cfg TokenConfig) (*TokenManager, error) {
	if cfg.Secret == "" {
		return nil, ErrSecretRequired
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	return &TokenManager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the identity. A non-positive ttl uses the configured TTL.
func (m *TokenManager) Issue(identity domain.Identity, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = m.ttl
	}
	now := m.now()
	claims := Claims{
		Role: identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   identity.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token. Every failure wraps domain.ErrUnauthorized.
func (m *TokenManager) Verify(token string) (domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return domain.Identity{}, fmt.Errorf("%w: malformed claims", domain.ErrUnauthorized)
	}
	role, err := domain.NewRole(string(claims.Role))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: unknown role", domain.ErrUnauthorized)
	}

	return domain.Identity{UserID: claims.Subject, Role: role}, nil
}
