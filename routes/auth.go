package routes

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/sidhant-sriv/catalog-api/catalog"
	"github.com/sidhant-sriv/catalog-api/identity"
	"github.com/sidhant-sriv/catalog-api/middleware"
	"github.com/sirupsen/logrus"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
	stateTokenTTL   = 10 * time.Minute
)

// AuthRoutes sets up /auth/state, /auth/refresh and /auth/:provider.
func AuthRoutes(router *gin.Engine, store *catalog.Store, providers identity.Registry, secret []byte) {
	auth := router.Group("/auth")
	{
		auth.GET("/state", IssueState(secret))
		auth.POST("/refresh", RefreshToken(store, secret))
		auth.POST("/:provider", ProviderLogin(store, providers, secret))
	}
}

// IssueState hands out the anti-forgery token a client must echo back when
// it completes a provider login.
func IssueState(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"jti":  uuid.NewString(),
			"iat":  now.Unix(),
			"exp":  now.Add(stateTokenTTL).Unix(),
			"type": middleware.TokenState,
		}).SignedString(secret)
		if err != nil {
			respondError(c, fmt.Errorf("sign state token: %w", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"state": state})
	}
}

// ProviderLogin exchanges a provider access token for a session. The user is
// registered on first login.
func ProviderLogin(store *catalog.Store, providers identity.Registry, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider, err := providers.Lookup(c.Param("provider"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		var loginRequest struct {
			State       string `json:"state" binding:"required"`
			AccessToken string `json:"access_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&loginRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if _, err := middleware.ParseToken(secret, loginRequest.State, middleware.TokenState); err != nil {
			logrus.WithError(err).Debug("rejected state token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid state parameter"})
			return
		}

		profile, err := provider.FetchProfile(c.Request.Context(), loginRequest.AccessToken)
		switch {
		case errors.Is(err, identity.ErrProfileUnavailable):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to verify access token"})
			return
		case errors.Is(err, identity.ErrProfileIncomplete):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Provider did not share an email address"})
			return
		case err != nil:
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Identity provider unreachable"})
			return
		}

		userID, err := store.UpsertUser(c.Request.Context(), profile.Name, profile.Email, profile.Picture)
		if err != nil {
			respondError(c, err)
			return
		}
		user, err := store.GetUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}

		accessToken, refreshToken, err := generateTokens(secret, user.ID)
		if err != nil {
			respondError(c, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"provider": provider.Name(),
			"user_id":  user.ID,
		}).Info("user logged in")

		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"id":      user.ID,
				"name":    user.Name,
				"email":   user.Email,
				"picture": user.Picture,
			},
			"access_token":  accessToken,
			"refresh_token": refreshToken,
		})
	}
}

// RefreshToken handles requests to refresh JWT access tokens using a valid refresh token.
func RefreshToken(store *catalog.Store, secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		var refreshRequest struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&refreshRequest); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		claims, err := middleware.ParseToken(secret, refreshRequest.RefreshToken, middleware.TokenRefresh)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}
		userID, err := middleware.UserIDFromClaims(claims)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}

		// The user must still exist
		if _, err := store.GetUser(c.Request.Context(), userID); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "User associated with token not found"})
				return
			}
			respondError(c, err)
			return
		}

		newAccessToken, newRefreshToken, err := generateTokens(secret, userID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token":  newAccessToken,
			"refresh_token": newRefreshToken,
		})
	}
}

// generateTokens creates a new access and refresh token pair for userID.
func generateTokens(secret []byte, userID uint) (string, string, error) {
	now := time.Now()

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(accessTokenTTL).Unix(),
		"iat":     now.Unix(),
		"jti":     uuid.NewString(),
		"type":    middleware.TokenAccess,
	}).SignedString(secret)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(refreshTokenTTL).Unix(),
		"iat":     now.Unix(),
		"jti":     uuid.NewString(),
		"type":    middleware.TokenRefresh,
	}).SignedString(secret)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}
