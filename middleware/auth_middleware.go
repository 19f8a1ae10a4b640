package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/taskhub/services"
	"taskhub/taskhub/utils/token"
)

// AuthMiddleware authenticates requests with a bearer access token and
// stores the caller's identity in the gin context. Refresh tokens are not
// accepted as bearer credentials.
func AuthMiddleware(authService services.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := token.ExtractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		if claims.TokenType != token.TypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token type"})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("email", claims.Subject)
		c.Set("username", claims.Username)

		c.Next()
	}
}

// CurrentUserID returns the authenticated user id stored by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	userID, ok := value.(uint)
	return userID, ok
}
