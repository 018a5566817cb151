package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/borgir/video-archive/internal/core/domain"
)

// DefaultTokenTTL is the fixed lifetime of an issued token.
const DefaultTokenTTL = 24 * time.Hour

// tokenClaims is the JWT payload. UserID is the legacy subject field and is
// only read, never written.
type tokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	UserID   string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies HS256 bearer tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// JWTOption customises a JWTService.
type JWTOption func(*JWTService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) JWTOption {
	return func(s *JWTService) { s.now = now }
}

// NewJWTService returns domain.ErrMissingSigningKey when secret is empty.
// There is no fallback key.
func NewJWTService(secret string, ttl time.Duration, opts ...JWTOption) (*JWTService, error) {
	if secret == "" {
		return nil, domain.ErrMissingSigningKey
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	s := &JWTService{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for identity. ExpiresAt is always IssuedAt + ttl.
func (s *JWTService) Issue(identity domain.Identity) (string, *domain.Claims, error) {
	if len(s.secret) == 0 {
		return "", nil, domain.ErrMissingSigningKey
	}
	role, err := domain.ParseRole(identity.Role().String())
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	if identity.Subject() == "" {
		return "", nil, fmt.Errorf("issue token: %w: empty subject", domain.ErrInvalidInput)
	}

	issuedAt := s.clock().UTC().Truncate(time.Second)
	claims := &domain.Claims{
		ID:        uuid.NewString(),
		Subject:   identity.Subject(),
		Username:  identity.Username(),
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.ttl),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Username: claims.Username,
		Role:     role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        claims.ID,
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify checks signature, algorithm and expiry. Every failure wraps
// domain.ErrInvalidToken; the library cause is kept for logging.
func (s *JWTService) Verify(token string) (*domain.Claims, error) {
	if len(s.secret) == 0 {
		return nil, domain.ErrMissingSigningKey
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock),
	)

	var tc tokenClaims
	parsed, err := parser.ParseWithClaims(token, &tc, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	subject := tc.Subject
	if subject == "" {
		subject = tc.UserID
	}
	if subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}

	role, err := domain.ParseRole(tc.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}

	claims := &domain.Claims{
		ID:       tc.ID,
		Subject:  subject,
		Username: tc.Username,
		Role:     role,
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.UTC()
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.UTC()
	}
	return claims, nil
}

// IsExpired reports whether a Verify error was caused by expiry rather than
// tampering. Callers use it for logs and metrics only.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

func (s *JWTService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
