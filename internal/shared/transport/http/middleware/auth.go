package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ooaoJ/Cities-Resources/internal/shared/security"
	"github.com/ooaoJ/Cities-Resources/internal/shared/transport"
)

const ClaimsKey = "claims"

// Auth 校验 Bearer token 并把 claims 放进 gin.Context；required 为 false 时放行所有请求。
func Auth(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !required {
			c.Next()
			return
		}
		raw := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": transport.Unauthorized, "msg": "缺少 token"})
			return
		}
		_, claims, err := security.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": transport.Unauthorized, "msg": "token 无效", "reason": err.Error()})
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom 未经过 Auth 或未要求鉴权时返回 nil。
func ClaimsFrom(c *gin.Context) *security.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*security.Claims)
	return claims
}
