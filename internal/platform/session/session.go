// Package session turns the caller's bearer token into an explicit Session
// object carried by the request instead of any package-level state.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ridloal/blood-portal/internal/platform/apiclient"
)

type InstitutionType string

const (
	TypeHospital InstitutionType = "hospital"
	TypePMI      InstitutionType = "pmi"
)

const contextKey = "portal_session"

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid or expired token")
)

type Session struct {
	UserID          string          `json:"user_id"`
	InstitutionID   string          `json:"institution_id"`
	InstitutionType InstitutionType `json:"institution_type"`
	Name            string          `json:"name"`
	Token           string          `json:"-"`
}

// Parse validates an HS256 token and builds the session from its claims.
func Parse(tokenString string, secret []byte) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	s := &Session{
		UserID:          claimString(claims, "user_id"),
		InstitutionID:   claimString(claims, "institution_id"),
		InstitutionType: InstitutionType(claimString(claims, "institution_type")),
		Name:            claimString(claims, "name"),
		Token:           tokenString,
	}
	if s.UserID == "" {
		s.UserID = claimString(claims, "sub")
	}
	if s.InstitutionID == "" {
		return nil, ErrInvalidToken
	}
	if s.InstitutionType != TypeHospital && s.InstitutionType != TypePMI {
		return nil, ErrInvalidToken
	}
	return s, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// Middleware requires a valid bearer token (header, or ?token= for EventSource).
func Middleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": ErrMissingToken.Error()})
			return
		}

		s, err := Parse(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.Set(contextKey, s)
		c.Request = c.Request.WithContext(apiclient.WithToken(c.Request.Context(), s.Token))
		c.Next()
	}
}

// RequireType restricts a route group to one institution type.
func RequireType(t InstitutionType) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := FromContext(c)
		if s == nil || s.InstitutionType != t {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "This action is not available for your institution"})
			return
		}
		c.Next()
	}
}

func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return nil
}
