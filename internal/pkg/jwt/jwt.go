package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service issues and verifies the access tokens that carry the engine's
// caller-supplied identity facts: employee id, company id and capability
// grants. Session management (refresh, revocation) belongs to the identity
// service, not this engine.
type Service interface {
	GenerateAccessToken(employeeID, companyID string, capabilities []string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey            string
	accessExpirationTime string
	tokenAuth            *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessExpirationTime string) Service {
	return &JWTService{
		secretKey:            secretKey,
		accessExpirationTime: accessExpirationTime,
		tokenAuth:            jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(employeeID, companyID string, capabilities []string) (string, int64, error) {
	expiration, err := time.ParseDuration(j.accessExpirationTime)
	if err != nil {
		return "", 0, fmt.Errorf("invalid access expiration time: %w", err)
	}

	expiresAt := time.Now().Add(expiration).Unix()
	claims := map[string]interface{}{
		"type":         "access",
		"employee_id":  employeeID,
		"company_id":   companyID,
		"capabilities": capabilities,
		"exp":          expiresAt,
		"iat":          time.Now().Unix(),
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode access token: %w", err)
	}

	return tokenString, expiresAt, nil
}
