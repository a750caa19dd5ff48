package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "sovereign/pkg/domain-errors"
)

// PresenceStatus is the only status the guard ever signs.
const PresenceStatus = "valid-presence"

// PresenceClaims acknowledge that the owner passed verification while a host
// process was held.
type PresenceClaims struct {
	Status      string `json:"status"`
	InterceptID string `json:"intercept_id"`
	Process     string `json:"process"`
	PID         int    `json:"pid"`
	jwt.RegisteredClaims
}

// JWTService signs and validates presence tokens with HS256.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}
}

func (s *JWTService) GeneratePresenceToken(
	deviceID string,
	interceptID string,
	process string,
	pid int,
	expiresIn time.Duration) (string, error) {
	now := s.now()
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, PresenceClaims{
		Status:      PresenceStatus,
		InterceptID: interceptID,
		Process:     process,
		PID:         pid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   deviceID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})

	signedToken, err := newToken.SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

func (s *JWTService) ValidatePresenceToken(tokenString string) (*PresenceClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &PresenceClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience), jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*PresenceClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Status != PresenceStatus {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected presence status")
	}
	return claims, nil
}
