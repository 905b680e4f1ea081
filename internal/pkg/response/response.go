package response

import "github.com/gin-gonic/gin"

func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"message": message,
	})
}

// MessageWithError adds a short, client-safe error string. Raw internal
// errors belong in the server log, not here.
func MessageWithError(c *gin.Context, statusCode int, message string, errText string) {
	c.JSON(statusCode, gin.H{
		"message": message,
		"error":   errText,
	})
}

// StageKey holds the step of request handling that failed.
const StageKey = "failed_stage"

// RecordFailure attaches err and the failing stage to c so the error
// logger can report them. It does not write a response.
func RecordFailure(c *gin.Context, stage string, err error) {
	c.Set(StageKey, stage)
	_ = c.Error(err)
}
