package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"safeland/backend/config"
	"safeland/backend/internal/api/handler"
	"safeland/backend/internal/api/middleware"
	"safeland/backend/internal/repository"
	"safeland/backend/pkg/jwt"
	"safeland/backend/pkg/redis"
)

// 全局请求体上限：预测请求只有十几个数值参数，1MB 绰绰有余
const maxBodyBytes = 1 << 20

// Setup 初始化并返回 Gin 路由引擎
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API ──
	api := r.Group("/api")
	{
		// 用户认证（无需认证）
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		// 管理员认证（无需认证；注册入口在已有管理员后自动关闭）
		api.POST("/admin/register", h.Admin.Register)
		api.POST("/admin/login", h.Admin.Login)

		// 天气代理（无需认证）
		api.POST("/weather", h.Weather.Current)

		// 聊天助手（无需认证，按 IP 限流）
		api.POST("/chat",
			middleware.RateLimit(rdb, cfg.Chat.RateLimit, cfg.Chat.RateWindow),
			h.Chat.Chat,
		)

		// 用户侧（需用户 Token）
		user := api.Group("")
		user.Use(middleware.UserAuth(jwtMgr, repo))
		{
			user.GET("/user/profile", h.User.GetProfile)
			user.PUT("/user/profile", h.User.UpdateProfile)

			user.POST("/predictor/flight-data", h.Predictor.FlightData)
			user.POST("/predictor/predict", h.Predictor.Predict)

			user.GET("/predictions/history", h.History.List)
			user.GET("/predictions/export", h.History.Export)
		}

		// 管理员侧（需管理员 Token）
		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(jwtMgr, repo))
		{
			admin.GET("/users", h.Admin.ListUsers)
			admin.PUT("/users/:id", h.Admin.UpdateUser)
			admin.DELETE("/users/:id", h.Admin.DeleteUser)
			admin.GET("/dashboard", h.Admin.Dashboard)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
