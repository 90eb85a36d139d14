package auth

import (
	"errors"
	"time"

	"floor-backend/internal/config"
	"floor-backend/internal/models"
	"floor-backend/internal/timeutil"

	"github.com/golang-jwt/jwt/v5"
)

// token types
const (
	tokenAccess = "access"
	tokenStream = "stream"
)

// StreamTokenTTL bounds how long a WebSocket ticket can be redeemed
const StreamTokenTTL = 5 * time.Minute

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{
		secret: []byte(cfg.JWT.Secret),
		issuer: cfg.JWT.Issuer,
		ttl:    cfg.TokenTTL(),
	}
}

// GenerateToken creates a new JWT token for a user
func (j *JWTManager) GenerateToken(user *models.User) (string, error) {
	return j.sign(user, tokenAccess, j.ttl)
}

// GenerateStreamToken creates a short-lived ticket for WebSocket clients,
// which cannot set an Authorization header on the upgrade request.
func (j *JWTManager) GenerateStreamToken(user *models.User) (string, error) {
	return j.sign(user, tokenStream, StreamTokenTTL)
}

func (j *JWTManager) sign(user *models.User, typ string, ttl time.Duration) (string, error) {
	now := timeutil.Now()

	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    j.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// ValidateToken verifies an access token and returns the claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, tokenAccess)
}

// ValidateStreamToken verifies a WebSocket ticket
func (j *JWTManager) ValidateStreamToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, tokenStream)
}

func (j *JWTManager) validate(tokenString, typ string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return j.secret, nil
	}, jwt.WithIssuer(j.issuer))

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.Type != typ {
		return nil, errors.New("invalid token type")
	}

	return claims, nil
}
