package httpapi

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-Id"
	headerPassword  = "X-Atci-Password"
	ctxRequestID    = "request_id"
)

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.With(ctxRequestID, c.GetString(ctxRequestID)).Debug(c.Request.Context(), "%s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

// auth accepts the password from the X-Atci-Password header or the
// password query parameter.
func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.deps.Password == "" {
			c.Next()
			return
		}
		got := c.GetHeader(headerPassword)
		if got == "" {
			got = c.Query("password")
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.deps.Password)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
			return
		}
		c.Next()
	}
}
