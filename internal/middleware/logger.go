package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"catering/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// ErrorLogger recovers panics into a 500 envelope and logs every request
// that ends with gin errors or a 5xx. Stacks go to the log, never to the
// client.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				response.Abort(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
				logFailure(c, start, "panic", fmt.Sprint(rec))
				log.Printf("request_panic_stack request_id=%s\n%s", requestID(c), debug.Stack())
			}
		}()

		c.Next()

		switch {
		case len(c.Errors) > 0:
			for _, e := range c.Errors {
				logFailure(c, start, errorKind(e.Type), e.Error())
			}
		case c.Writer.Status() >= http.StatusInternalServerError:
			logFailure(c, start, "http_error", http.StatusText(c.Writer.Status()))
		}
	}
}

func errorKind(t gin.ErrorType) string {
	switch t {
	case gin.ErrorTypeBind:
		return "bind"
	case gin.ErrorTypeRender:
		return "render"
	case gin.ErrorTypePublic:
		return "public"
	default:
		return "private"
	}
}

func logFailure(c *gin.Context, start time.Time, kind, message string) {
	log.Printf(
		"request_failed kind=%s status=%d method=%s route=%s session_id=%s user_id=%s client_ip=%s request_id=%s latency=%s error=%q",
		kind,
		c.Writer.Status(),
		c.Request.Method,
		c.FullPath(),
		c.Param("id"),
		c.GetString("user_id"),
		c.ClientIP(),
		requestID(c),
		time.Since(start),
		message,
	)
}

func requestID(c *gin.Context) string {
	return c.GetHeader("X-Request-ID")
}
