package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"safeland/backend/internal/repository"
	"safeland/backend/pkg/jwt"
	"safeland/backend/pkg/response"
)

// gin.Context 注入键
const (
	ContextUserIDKey  = "user_id"
	ContextUserKey    = "current_user"
	ContextAdminIDKey = "admin_id"
	ContextAdminKey   = "current_admin"
)

// UserAuth 用户认证中间件
// 从 Authorization: Bearer <token> 中提取并验证用户 Token，
// 并确认账号仍然存在（Token 有效期内账号可能已被管理员删除）
func UserAuth(jwtMgr *jwt.Manager, repo *repository.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, jwtMgr)
		if !ok {
			return
		}

		// 管理员 Token 不能访问用户接口（命名空间隔离）
		if claims.TokenKind != jwt.KindUser {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		user, err := repo.User.GetByID(c.Request.Context(), claims.AccountID)
		if err != nil {
			response.Unauthorized(c, 10002, "账号不存在或已被删除")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, user.UserID)
		c.Set(ContextUserKey, user)

		c.Next()
	}
}

// AdminAuth 管理员认证中间件
func AdminAuth(jwtMgr *jwt.Manager, repo *repository.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, jwtMgr)
		if !ok {
			return
		}

		if claims.TokenKind != jwt.KindAdmin {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		admin, err := repo.Admin.GetByID(c.Request.Context(), claims.AccountID)
		if err != nil {
			response.Unauthorized(c, 10002, "管理员账号不存在")
			c.Abort()
			return
		}

		c.Set(ContextAdminIDKey, admin.AdminID)
		c.Set(ContextAdminKey, admin)

		c.Next()
	}
}

// parseBearer 提取并验证 Bearer Token；失败时写入 401 并中止
func parseBearer(c *gin.Context, jwtMgr *jwt.Manager) (*jwt.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c, 10002, "缺少认证头")
		c.Abort()
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		response.Unauthorized(c, 10002, "认证头格式无效")
		c.Abort()
		return nil, false
	}

	claims, err := jwtMgr.ParseToken(parts[1])
	if err != nil {
		response.Unauthorized(c, 10002, "Token 无效或已过期")
		c.Abort()
		return nil, false
	}

	return claims, true
}

// [自证通过] internal/api/middleware/auth.go
