package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/charfaouimohammed/Atend-X/internal/models"
	"github.com/charfaouimohammed/Atend-X/internal/store"
	"github.com/charfaouimohammed/Atend-X/internal/util"

	"github.com/gin-gonic/gin"
)

const adminContextKey = "currentAdmin"

// AuthMiddleware validates the bearer token and loads the admin into the
// gin context. Disabled admins are rejected even with a valid token.
func AuthMiddleware(jwtSecret string, admins store.AdminStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) query parameter ?token=xxx (spreadsheet downloads cannot set headers)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now()) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "could not validate credentials")
			c.Abort()
			return
		}

		admin, err := admins.FindByID(c.Request.Context(), claims.AdminID)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "could not validate credentials")
			c.Abort()
			return
		}
		if admin.Disabled {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "inactive admin")
			c.Abort()
			return
		}

		c.Set(adminContextKey, admin)
		c.Next()
	}
}

// CurrentAdmin returns the authenticated admin placed by AuthMiddleware,
// nil when the request is unauthenticated.
func CurrentAdmin(c *gin.Context) *models.Admin {
	v, ok := c.Get(adminContextKey)
	if !ok {
		return nil
	}
	admin, ok := v.(*models.Admin)
	if !ok {
		return nil
	}
	return admin
}
