package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("security: invalid token")

// JWTIssuer signs and verifies the access/refresh token pair. The two token
// kinds use separate secrets and carry a "typ" claim so one cannot be
// presented in place of the other.
type JWTIssuer struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

func (i JWTIssuer) IssueAccess(userID string) (string, error) {
	return i.issue(userID, tokenTypeAccess, i.AccessSecret, i.AccessTTL)
}

func (i JWTIssuer) IssueRefresh(userID string) (string, error) {
	return i.issue(userID, tokenTypeRefresh, i.RefreshSecret, i.RefreshTTL)
}

func (i JWTIssuer) ParseAccess(token string) (string, error) {
	return i.parse(token, tokenTypeAccess, i.AccessSecret)
}

func (i JWTIssuer) ParseRefresh(token string) (string, error) {
	return i.parse(token, tokenTypeRefresh, i.RefreshSecret)
}

func (i JWTIssuer) issue(userID, typ string, secret []byte, ttl time.Duration) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": typ,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("security: sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (i JWTIssuer) parse(raw, typ string, secret []byte) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if claimType, _ := claims["typ"].(string); claimType != typ {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

func (i JWTIssuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}
