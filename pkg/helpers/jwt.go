package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
)

// Token purposes. A reset token is never accepted where a session token is
// expected, and vice versa.
const (
	PurposeSession = "session"
	PurposeReset   = "password_reset"
)

var ErrWrongPurpose = errors.New("token used for wrong purpose")

// JWTManager signs and verifies bearer tokens with a single symmetric secret.
// Session tokens carry user id and role; reset tokens carry only the user id.
type JWTManager struct {
	Secret     []byte
	SessionTTL time.Duration
	ResetTTL   time.Duration
}

var defaultManager *JWTManager

func NewJWTManager(secret string, sessionTTL, resetTTL time.Duration) *JWTManager {
	m := &JWTManager{
		Secret:     []byte(secret),
		SessionTTL: sessionTTL,
		ResetTTL:   resetTTL,
	}
	defaultManager = m
	return m
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes)
func DefaultJWT() *JWTManager { return defaultManager }

type Claims struct {
	UserID  string      `json:"uid"`
	Role    entity.Role `json:"role,omitempty"`
	Purpose string      `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateSessionToken mints the long-lived bearer credential returned by login.
func (m *JWTManager) GenerateSessionToken(userID string, role entity.Role) (string, time.Time, error) {
	return m.generate(&Claims{UserID: userID, Role: role, Purpose: PurposeSession}, m.SessionTTL)
}

// GenerateResetToken mints the short-lived token embedded in a password reset link.
func (m *JWTManager) GenerateResetToken(userID string) (string, time.Time, error) {
	return m.generate(&Claims{UserID: userID, Purpose: PurposeReset}, m.ResetTTL)
}

func (m *JWTManager) generate(claims *Claims, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

func (m *JWTManager) ParseSessionToken(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, PurposeSession)
}

func (m *JWTManager) ParseResetToken(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, PurposeReset)
}

func (m *JWTManager) parse(tokenStr, purpose string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}
