// middleware/auth.go
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

// Token types carried in the "type" claim.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
	TokenState   = "state"
)

var ErrTokenType = errors.New("unexpected token type")

// ParseToken validates an HS256 token signed with secret and checks that its
// "type" claim is wantType.
func ParseToken(secret []byte, raw, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		// Make sure token's signing method is what we expect
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unreadable token claims")
	}
	if tokenType, _ := claims["type"].(string); tokenType != wantType {
		return nil, fmt.Errorf("%w: %q", ErrTokenType, claims["type"])
	}
	return claims, nil
}

// UserIDFromClaims reads the numeric user_id claim.
func UserIDFromClaims(claims jwt.MapClaims) (uint, error) {
	// JSON numbers decode as float64
	id, ok := claims["user_id"].(float64)
	if !ok || id < 1 {
		return 0, errors.New("token carries no user id")
	}
	return uint(id), nil
}

func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		claims, err := ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "), TokenAccess)
		if err != nil {
			logrus.WithError(err).Debug("rejected access token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		userID, err := UserIDFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// GetUserID retrieves the authenticated user ID from the Gin context
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	id, _ := userID.(uint)
	return id
}
