package middleware

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/charfaouimohammed/Atend-X/internal/models"
	"github.com/charfaouimohammed/Atend-X/internal/store"

	"github.com/gin-gonic/gin"
)

// bodies larger than this are not recorded
const maxAuditBody = 2000

// AuditMiddleware records authenticated admin actions after the request
// completes. Audit writes are best effort and never fail the request.
func AuditMiddleware(audit store.AuditStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		admin := CurrentAdmin(c)
		if admin == nil {
			return
		}

		action := c.Request.Method + " " + c.Request.URL.Path
		if len(bodyBytes) > 0 && len(bodyBytes) < maxAuditBody {
			action += " " + string(bodyBytes)
		}

		log := models.AuditLog{
			AdminID:   admin.ID.Hex(),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			CreatedAt: time.Now(),
		}

		// detached context: the client may already be gone
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = audit.Insert(ctx, &log)
	}
}
