package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "insurevis/docs" // registers the OpenAPI spec with swag
	"insurevis/internal/domain"
	"insurevis/internal/handler"
	"insurevis/internal/middleware"
	"insurevis/internal/service"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Review   *handler.ReviewHandler
	Document *handler.DocumentHandler
	Health   *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	protected.GET("/users/me", h.User.Me)

	// Reviewer routes
	reviews := protected.Group("/reviews")
	reviews.Use(middleware.RequireReviewer())
	reviews.GET("/rejection-reasons", h.Review.RejectionReasons)
	reviews.GET("/claims", h.Review.ListClaims)
	reviews.GET("/claims/export", h.Review.ExportClaims)
	reviews.GET("/claims/:id", h.Review.GetClaim)
	reviews.POST("/claims/:id/decision", h.Review.Decide)
	reviews.POST("/claims/:id/documents/verification", h.Review.VerifyDocuments)
	reviews.PUT("/documents/:id/verification", h.Review.SetVerification)
	reviews.POST("/documents/:id/rejection", h.Review.RejectDocument)

	// Document content, for reviewers and admins
	documents := protected.Group("/documents")
	documents.Use(middleware.RequireRole(domain.RoleCarCompany, domain.RoleInsuranceCompany, domain.RoleAdmin))
	documents.GET("/:id/url", h.Document.GetURL)
	documents.GET("/:id/content", h.Document.GetContent)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	admin.POST("/users", h.User.Create)
	admin.GET("/users", h.User.List)
	admin.POST("/reconcile", h.Review.Sweep)
	admin.POST("/claims/:id/reconcile", h.Review.ReconcileClaim)

	return r
}
