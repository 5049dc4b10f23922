package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/strategy-ledger/internal/config"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrAuthDisabled  = errors.New("token auth is not configured")
	ErrMissingClient = errors.New("client name is required")
)

// AuthService issues and verifies the bearer tokens dashboard clients send
type AuthService struct {
	jwtConfig config.JWTConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{jwtConfig: jwtConfig}
}

// TokenResponse represents the JWT token response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// JWTClaims represents the JWT claims
type JWTClaims struct {
	Client string `json:"client"`
	jwt.RegisteredClaims
}

// Enabled reports whether a signing secret is configured
func (s *AuthService) Enabled() bool {
	return s.jwtConfig.Secret != ""
}

// IssueToken signs a read token for a named dashboard client
func (s *AuthService) IssueToken(client string) (*TokenResponse, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}
	if client == "" {
		return nil, ErrMissingClient
	}

	expiresIn := time.Duration(s.jwtConfig.ExpireHours) * time.Hour
	now := time.Now()

	claims := &JWTClaims{
		Client: client,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   client,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.jwtConfig.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		ExpiresIn:   s.jwtConfig.ExpireHours * 3600,
	}, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*JWTClaims, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.jwtConfig.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.jwtConfig.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtConfig.Secret), nil
	}, opts...)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
