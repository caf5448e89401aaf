package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sigortaci/acente-api/internal/config"
	"github.com/sigortaci/acente-api/internal/domain/entity"
	domainRepo "github.com/sigortaci/acente-api/internal/domain/repository"
	"github.com/sigortaci/acente-api/internal/presentation/http/dto/request"
	"github.com/sigortaci/acente-api/internal/presentation/http/handler"
	"github.com/sigortaci/acente-api/internal/presentation/http/middleware"
	"github.com/sigortaci/acente-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Dashboard  *handler.DashboardHandler
	Customer   *handler.CustomerHandler
	Policy     *handler.PolicyHandler
	File       *handler.FileHandler
	Accounting *handler.AccountingHandler
	Report     *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	Log             *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	request.RegisterValidator()

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(deps.Log))
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Uploaded policy files, read-only
	router.Static(deps.Cfg.Storage.PublicURL, deps.Cfg.Storage.Path)

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}
		protected.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			Log:  deps.Log,
		}))

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	protected.GET("/dashboard", h.Dashboard.GetStats)
	protected.POST("/uploads", h.File.Upload)

	registerUserRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerPolicyRoutes(protected, h)
	registerAccountingRoutes(protected, h)
	registerReportRoutes(protected, h)
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequireRole(entity.RoleAdmin))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/balance", h.Customer.Balance)
		customers.GET("/:id/ledger", h.Customer.Ledger)
	}
}

func registerPolicyRoutes(protected *gin.RouterGroup, h *Handlers) {
	policies := protected.Group("/policies")
	{
		policies.GET("", h.Policy.List)
		policies.POST("", h.Policy.Create)
		policies.GET("/next-number", h.Policy.NextNumber)
		policies.GET("/:id", h.Policy.Get)
		policies.PUT("/:id", h.Policy.Update)
		policies.DELETE("/:id", h.Policy.Delete)
		policies.GET("/:id/files", h.File.List)
		policies.POST("/:id/files", h.File.Attach)
		policies.DELETE("/:id/files/:fileId", h.File.Delete)
	}
}

func registerAccountingRoutes(protected *gin.RouterGroup, h *Handlers) {
	accounting := protected.Group("/accounting")
	{
		accounting.GET("", h.Accounting.List)
		accounting.POST("", h.Accounting.Create)
		accounting.GET("/:id", h.Accounting.Get)
		accounting.PUT("/:id", h.Accounting.Update)
		accounting.DELETE("/:id", h.Accounting.Delete)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	{
		reports.GET("/:kind", h.Report.Get)
		reports.GET("/:kind/export", h.Report.Export)
	}
}
