package tokenutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessClaims 管理员访问令牌
type AccessClaims struct {
	Subject string `json:"sub_name"`
	jwt.RegisteredClaims
}

func CreateAccessToken(subject, secret string, expiry int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("ACCESS_TOKEN_SECRET 未配置: %w", ErrInvalidToken)
	}
	now := time.Now()
	claims := &AccessClaims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour * time.Duration(expiry))),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parse(requestToken, secret string) (*AccessClaims, error) {
	// 空密钥签名的令牌一律拒绝
	if secret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET 未配置: %w", ErrInvalidToken)
	}
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(requestToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrInvalidToken)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func IsAuthorized(requestToken, secret string) (bool, error) {
	if _, err := parse(requestToken, secret); err != nil {
		return false, err
	}
	return true, nil
}

func ExtractIDFromToken(requestToken, secret string) (string, error) {
	claims, err := parse(requestToken, secret)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
