package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"forum-service/internal/response"
)

// Context keys set by Auth
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextJWTToken = "jwtToken"
)

// Auth returns a middleware that validates HMAC-signed JWT tokens locally
// and stores the caller's ID and username in the gin context
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "Invalid authorization header format")
			return
		}
		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "Invalid token claims")
			return
		}

		userID, username, err := ClaimsIdentity(claims)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUsername, username)
		c.Set(ContextJWTToken, tokenString)

		c.Next()
	}
}

// ClaimsIdentity extracts the user ID and display name from token claims.
// The ID is read from "user_id", then "sub", then "uid"; the name from
// "username", then "name", defaulting to "anonymous".
func ClaimsIdentity(claims jwt.MapClaims) (uuid.UUID, string, error) {
	var userIDStr string
	if uid, ok := claims["user_id"].(string); ok {
		userIDStr = uid
	} else if sub, ok := claims["sub"].(string); ok {
		userIDStr = sub
	} else if uid, ok := claims["uid"].(string); ok {
		userIDStr = uid
	} else {
		return uuid.Nil, "", response.NewAppError(response.ErrCodeUnauthorized, "User ID not found in token", "")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, "", response.NewAppError(response.ErrCodeUnauthorized, "Invalid user ID format", userIDStr)
	}

	username, _ := claims["username"].(string)
	if username == "" {
		username, _ = claims["name"].(string)
	}
	if username == "" {
		username = "anonymous"
	}
	return userID, username, nil
}

func unauthorized(c *gin.Context, message string) {
	response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, message)
}
