package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const tokenIssuer = "pontodigital"

type TokenData struct {
	SessionID   string
	CompanyCode string
	Role        string
	Exp         int64
}

type sessionClaims struct {
	CompanyCode string `json:"cc"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// TokenSigner issues and validates the HS256 tokens handed out at login.
// The token only points to a session row; the row is the source of truth.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenSigner(secret string, ttl time.Duration) (*TokenSigner, error) {
	if len(secret) < 32 {
		return nil, errors.New("token secret must have at least 32 bytes")
	}
	return &TokenSigner{secret: []byte(secret), ttl: ttl}, nil
}

func (s *TokenSigner) TTL() time.Duration {
	return s.ttl
}

func (s *TokenSigner) Sign(sessionID, companyCode, role string, expiresAt time.Time) (string, error) {
	claims := &sessionClaims{
		CompanyCode: companyCode,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses AND validates the signature locally.
// It returns the data if the token is authentic and unexpired.
func (s *TokenSigner) ValidateToken(tokenString string) (*TokenData, error) {
	clean := sanitizeToken(tokenString)
	if clean == "" {
		return nil, errors.New("empty token")
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(clean, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid || claims.ID == "" {
		return nil, errors.New("token is not valid")
	}

	return &TokenData{
		SessionID:   claims.ID,
		CompanyCode: claims.CompanyCode,
		Role:        claims.Role,
		Exp:         claims.ExpiresAt.Unix(),
	}, nil
}

func (s *TokenSigner) ParseTokenDataCtx(ctx echo.Context) (*TokenData, error) {
	token := ctx.Request().Header.Get(echo.HeaderAuthorization)
	return s.ValidateToken(token)
}

func sanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}
