package middleware

import "github.com/gin-gonic/gin"

// AuthOptional is a placeholder for future auth middleware. It currently
// passes every request through (the back-office runs on a trusted
// network; login exists but enforcement is not wired yet).
func AuthOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}
