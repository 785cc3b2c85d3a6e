package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/rental-backend/internal/config"
	"github.com/ignatzorin/rental-backend/internal/domain/valueobject"
	"github.com/ignatzorin/rental-backend/internal/http/middleware"
	"github.com/ignatzorin/rental-backend/internal/interface/http/handler"
	"github.com/ignatzorin/rental-backend/internal/metrics"
)

// Handlers собирает все HTTP-обработчики сервиса.
type Handlers struct {
	Applications  *handler.ApplicationHandler
	Properties    *handler.PropertyHandler
	Profiles      *handler.ProfileHandler
	Trust         *handler.TrustHandler
	Notifications *handler.NotificationHandler
	WS            *handler.WSHandler
	Health        *handler.HealthHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokens middleware.TokenParser) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.GinMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	auth := middleware.AuthMiddleware(tokens)
	limit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)

	// Публичные маршруты
	api.GET("/properties", h.Properties.List)
	api.GET("/properties/:id", middleware.UUIDValidator("id"), h.Properties.Get)
	api.GET("/users/:id/trust-score", middleware.UUIDValidator("id"), h.Trust.GetTrustScore)
	api.GET("/users/:id/ratings", middleware.UUIDValidator("id"), h.Trust.ListRatings)

	api.GET("/ws", auth, h.WS.Handle)

	protected := api.Group("/")
	protected.Use(auth)
	{
		protected.GET("/applications", h.Applications.ListMine)
		protected.GET("/applications/:id", middleware.UUIDValidator("id"), h.Applications.Get)
		protected.GET("/properties/:id/applications", middleware.UUIDValidator("id"), h.Applications.ListForProperty)

		protected.GET("/tenants/me", h.Profiles.GetTenant)

		protected.GET("/notifications", h.Notifications.List)
		protected.GET("/notifications/unread/count", h.Notifications.CountUnread)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), h.Notifications.MarkAsRead)
		protected.PUT("/notifications/read-all", h.Notifications.MarkAllAsRead)
	}

	mutations := api.Group("/")
	mutations.Use(auth, limit)
	{
		mutations.POST("/applications", h.Applications.Submit)
		mutations.PATCH("/applications/:id/review", middleware.UUIDValidator("id"), h.Applications.StartReview)
		mutations.PATCH("/applications/:id/approve", middleware.UUIDValidator("id"), h.Applications.Approve)
		mutations.PATCH("/applications/:id/reject", middleware.UUIDValidator("id"), h.Applications.Reject)
		mutations.POST("/applications/:id/ratings", middleware.UUIDValidator("id"), h.Trust.Rate)

		mutations.POST("/properties", h.Properties.Create)

		mutations.PUT("/tenants/me", h.Profiles.UpdateTenant)
		mutations.POST("/tenants/me/documents/:kind", h.Profiles.UploadDocument)
		mutations.POST("/landlords/me/guarantee", h.Profiles.JoinGuarantee)
	}

	admin := api.Group("/admin")
	admin.Use(auth, middleware.RequireRole(valueobject.RoleAdmin))
	{
		admin.PATCH("/users/:id/verification", middleware.UUIDValidator("id"), h.Profiles.SetVerification)
	}

	return r
}
