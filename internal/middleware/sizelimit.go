package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orlogbook/orlog-api/internal/handler"
)

const DefaultMaxBodySize = 1 << 20 // 1MB

// SizeLimit rejects request bodies larger than the limit and caps reads for
// requests that omit Content-Length.
func SizeLimit(maxBody int64) gin.HandlerFunc {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodySize
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBody {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				handler.NewErrorResponse("request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)
		c.Next()
	}
}
