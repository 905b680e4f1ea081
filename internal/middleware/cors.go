package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows requests from any origin. Preflight requests end here with 204
// before reaching a handler.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Content-Length", "Accept", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          10 * time.Minute,
	})
}
