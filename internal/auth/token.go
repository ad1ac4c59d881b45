// Package auth выпускает и проверяет bearer-токены сессии (HS256 JWT).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/edu_platform/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL срок жизни сессии по умолчанию
const DefaultTTL = 365 * 24 * time.Hour

// Claims полезная нагрузка bearer-токена
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue подписывает токен {userId, email, name} для пользователя
func (i *Issuer) Issue(user *model.User) (string, error) {
	now := i.now()

	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	if user.Email != nil {
		claims.Email = *user.Email
	}
	if user.Name != nil {
		claims.Name = *user.Name
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse проверяет подпись и срок токена
func (i *Issuer) Parse(raw string) (*Claims, error) {
	return ParseToken(raw, i.secret)
}

// ParseToken принимает только HS256 и требует userId
func ParseToken(raw string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.UserID <= 0 {
		return nil, errors.New("token has no user id")
	}
	return claims, nil
}
