package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/beautyconnect/pay_go_server/internal/pkg/jwt"
	"github.com/beautyconnect/pay_go_server/internal/pkg/response"
)

const (
	UserIDKey = "userID"
	RoleKey   = "role"
)

// Auth Supabase JWT 认证中间件
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "Missing authorization header")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID())
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}

// CanActFor 当前请求能否代表 userID 操作
//
// 未启用认证时放行；service_role 可代表任意用户，普通用户只能操作自己。
func CanActFor(c *gin.Context, userID string) bool {
	role, exists := c.Get(RoleKey)
	if !exists {
		return true
	}
	if role == jwt.RoleServiceRole {
		return true
	}
	id, ok := GetUserID(c)
	return ok && id == userID
}
