package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"peterpainter/internal/pkg/response"
)

// ErrorLogger writes one request_failed line for every 5xx response, naming
// the stage that failed (image, insert, list, serve) and the errors handlers
// attached. A panic becomes a 500 {"message"} body with stage=panic.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": "Internal Server Error",
				})
				logFailure(c, start, "panic", fmt.Sprint(recovered))
				log.Printf("request_panic_stack request_id=%s\n%s", requestID(c), debug.Stack())
				return
			}

			if c.Writer.Status() < http.StatusInternalServerError {
				return
			}
			stage := c.GetString(response.StageKey)
			if stage == "" {
				stage = "unknown"
			}
			logFailure(c, start, stage, strings.Join(c.Errors.Errors(), "; "))
		}()

		c.Next()
	}
}

func logFailure(c *gin.Context, start time.Time, stage, message string) {
	var upload string
	if c.Request.Method == http.MethodPost && c.Request.ContentLength > 0 {
		upload = fmt.Sprintf(" upload_bytes=%d", c.Request.ContentLength)
	}
	log.Printf(
		"request_failed stage=%s status=%d method=%s path=%s%s request_id=%s latency=%s error=%q",
		stage,
		c.Writer.Status(),
		c.Request.Method,
		c.Request.URL.Path,
		upload,
		requestID(c),
		time.Since(start).Round(time.Microsecond),
		message,
	)
}

func requestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return c.Writer.Header().Get("X-Request-ID")
}
