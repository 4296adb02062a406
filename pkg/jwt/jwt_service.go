package jwt

import (
	"FreshTrack/domain"
	"FreshTrack/internal/utils"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	issuer   = "FRESHTRACK"
	tokenTTL = 7 * 24 * time.Hour
)

type (
	JWTService interface {
		GenerateTokenUser(userID string, email string) (string, error)
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(token string) (string, string, error)
		TokenTTL() time.Duration
	}

	jwtUserClaim struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
		Role   string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		ttl       time.Duration
		now       func() time.Time
	}
)

// NewJWTService refuses to start without JWT_SECRET: HS256 accepts an empty key.
func NewJWTService() (JWTService, error) {
	secret := utils.GetConfig("JWT_SECRET")
	if secret == "" {
		return nil, domain.ErrJWTSecretNotConfigured
	}
	return NewJWTServiceWithSecret(secret), nil
}

func NewJWTServiceWithSecret(secretKey string) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    issuer,
		ttl:       tokenTTL,
		now:       time.Now,
	}
}

func (j *jwtService) GenerateTokenUser(userID string, email string) (string, error) {
	if j.secretKey == "" {
		return "", domain.ErrJWTSecretNotConfigured
	}
	now := j.now()
	claims := jwtUserClaim{
		userID,
		email,
		domain.RoleUser,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	if j.secretKey == "" {
		return nil, domain.ErrJWTSecretNotConfigured
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

// GetUserIDByToken returns the user id and email carried by a valid token.
func (j *jwtService) GetUserIDByToken(token string) (string, string, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", domain.ErrTokenExpired
		}
		return "", "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", "", domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*jwtUserClaim)
	if claims.Issuer != j.issuer || claims.UserID == "" {
		return "", "", domain.ErrTokenInvalid
	}
	return claims.UserID, claims.Email, nil
}

func (j *jwtService) TokenTTL() time.Duration {
	return j.ttl
}
