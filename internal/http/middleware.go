package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"

	"github.com/mrlokans/bookshelf/internal/database"
)

const (
	// ContextKeySession holds the request's *database.Session.
	ContextKeySession = "db_session"
	// ContextKeyRequestID holds the request id string.
	ContextKeyRequestID = "request_id"

	HeaderRequestID = "X-Request-ID"
)

// SessionAcquirer hands out request-scoped database sessions.
type SessionAcquirer interface {
	Acquire(ctx context.Context) (*database.Session, error)
}

// SessionMiddleware opens exactly one session per request and releases it
// when the handler chain unwinds, including on abort and panic.
func SessionMiddleware(acquirer SessionAcquirer) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := acquirer.Acquire(c.Request.Context())
		if err != nil {
			respondInternalError(c, err, "acquire session")
			return
		}
		defer sess.Release()

		c.Set(ContextKeySession, sess)
		c.Next()
	}
}

// GetSession returns the session installed by SessionMiddleware.
func GetSession(c *gin.Context) (*database.Session, bool) {
	value, exists := c.Get(ContextKeySession)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*database.Session)
	return sess, ok
}

// RequestIDMiddleware propagates the caller's X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = xid.New().String()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID returns the current request id, or "-" outside RequestIDMiddleware.
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(ContextKeyRequestID); id != "" {
		return id
	}
	return "-"
}

// recoveryHandler answers a recovered panic with the standard error body.
func recoveryHandler(c *gin.Context, recovered any) {
	respondInternalError(c, fmt.Errorf("panic: %v", recovered), c.Request.Method+" "+c.FullPath())
}

func noRouteHandler(c *gin.Context) {
	respondError(c, http.StatusNotFound, CodeNotFound, "not found")
}

func noMethodHandler(c *gin.Context) {
	respondError(c, http.StatusMethodNotAllowed, CodeMethodInvalid, "method not allowed")
}
