package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
)

var ErrInvalidToken = errors.New("token: недействительный токен")

// Claims — клеймы access токена провайдера идентификации.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager проверяет access токены. Выпуск нужен для локальной разработки и тестов.
type TokenManager struct {
	secret []byte
	issuer string
}

func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer}
}

// Issue выпускает токен для пользователя.
func (m *TokenManager) Issue(actor valueobject.Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: actor.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Parse проверяет подпись, срок и издателя и возвращает пользователя с его ролью.
func (m *TokenManager) Parse(token string) (valueobject.Actor, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return valueobject.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return valueobject.Actor{}, fmt.Errorf("%w: subject: %v", ErrInvalidToken, err)
	}
	role, err := valueobject.ParseRole(claims.Role)
	if err != nil {
		return valueobject.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return valueobject.Actor{ID: userID, Role: role}, nil
}
