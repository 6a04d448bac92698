package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainerrors "taskmanager/internal/domain/errors"
)

type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

func DefaultTokenConfig() TokenConfig {
	return TokenConfig{
		Secret: "shouldbeinVaultsecret",
		TTL:    24 * time.Hour,
		Issuer: "taskmanager",
	}
}

// TokenManager issues and verifies signed, time-limited identity tokens.
// Claims carry subject = user id, issued-at and expiry.
type TokenManager struct {
	cfg TokenConfig
}

func NewTokenManager(cfg TokenConfig) *TokenManager {
	if cfg.Secret == "" {
		cfg.Secret = DefaultTokenConfig().Secret
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenConfig().TTL
	}
	return &TokenManager{cfg: cfg}
}

func (m *TokenManager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    m.cfg.Issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", domainerrors.ErrInfrastructure
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the subject user id.
func (m *TokenManager) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", domainerrors.ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domainerrors.ErrInvalidToken
		}
		return []byte(m.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domainerrors.ErrTokenExpired
		}
		return "", domainerrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", domainerrors.ErrInvalidToken
	}
	return claims.Subject, nil
}
