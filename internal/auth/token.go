package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abhisek/sqlpad/internal/store"
)

// TokenKey is the KV key holding the session token.
const TokenKey = "sqlPracticeApp_authToken"

// ErrInvalidToken is returned for malformed or tampered session tokens.
var ErrInvalidToken = errors.New("invalid session token")

// TokenStore persists the current session token.
type TokenStore interface {
	Load(ctx context.Context) (string, bool, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// KVTokenStore keeps the token under TokenKey.
type KVTokenStore struct {
	kv store.KV
}

// NewKVTokenStore creates a token store on kv.
func NewKVTokenStore(kv store.KV) *KVTokenStore {
	return &KVTokenStore{kv: kv}
}

func (s *KVTokenStore) Load(ctx context.Context) (string, bool, error) {
	return s.kv.Get(ctx, TokenKey)
}

func (s *KVTokenStore) Save(ctx context.Context, token string) error {
	return s.kv.Put(ctx, TokenKey, token)
}

func (s *KVTokenStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, TokenKey)
}

// Claims is the session token payload. Tokens never expire; they mark
// "was logged in" and are checked against the directory on restore.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// GenerateToken signs a session token for u.
func GenerateToken(u User, secret []byte, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  u.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies the signature and returns the claims.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
