package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"connect-ed/config"
	"connect-ed/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, status, errMsg := claimsFromRequest(c)
		if claims == nil {
			c.JSON(status, gin.H{"error": errMsg})
			c.Abort()
			return
		}
		applyClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware populates the session keys when a valid bearer
// token is present and lets the request through either way. Used by the
// gate endpoint, which must answer for guests too.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _, _ := claimsFromRequest(c); claims != nil {
			applyClaims(c, claims)
		}
		c.Next()
	}
}

func RequireRole(role users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in token"})
			c.Abort()
			return
		}

		if value != string(role) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func claimsFromRequest(c *gin.Context) (jwt.MapClaims, int, string) {
	jwtKey := []byte(config.JWT_SECRET)
	if len(jwtKey) == 0 {
		return nil, http.StatusInternalServerError, "JWT secret not configured"
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, http.StatusUnauthorized, "Authorization header missing"
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return nil, http.StatusUnauthorized, "Bearer token malformed"
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, http.StatusUnauthorized, "Invalid token claims"
	}
	return claims, 0, ""
}

func applyClaims(c *gin.Context, claims jwt.MapClaims) {
	if email, ok := claims["email"].(string); ok {
		c.Set("email", email)
	}
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}
	if userIDFloat, ok := claims["user_id"].(float64); ok {
		c.Set("user_id", uint(userIDFloat))
	}
	if schoolIDFloat, ok := claims["school_id"].(float64); ok {
		c.Set("school_id", uint(schoolIDFloat))
	}
}
