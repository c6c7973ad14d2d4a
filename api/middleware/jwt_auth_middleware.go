package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/riddim-exe/riddim/api/controller"
	"github.com/riddim-exe/riddim/internal/tokenutil"
)

// JwtAuthMiddleware 校验 Authorization: Bearer <token>；未配置密钥时受保护接口整体关闭
func JwtAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			controller.ErrorResponse(c, http.StatusForbidden, "ADMIN_DISABLED", "ACCESS_TOKEN_SECRET is not configured")
			return
		}

		authHeader := c.Request.Header.Get("Authorization")
		t := strings.SplitN(authHeader, " ", 2)
		if len(t) != 2 || !strings.EqualFold(t[0], "Bearer") {
			controller.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
			return
		}

		userID, err := tokenutil.ExtractIDFromToken(strings.TrimSpace(t[1]), secret)
		if err != nil {
			controller.ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
			return
		}
		c.Set("x-user-id", userID)
		c.Next()
	}
}
