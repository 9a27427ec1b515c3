package company

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	// Tenant onboarding is the only public endpoint in this group.
	r.POST("/companies", middleware.RateLimitByIP(0.05, 1), handler.Onboard)

	company := r.Group("/companies")
	company.Use(middleware.AuthMiddleware())
	{
		company.GET("/me",
			middleware.RateLimitByUser(2, 10),
			handler.GetMe,
		)

		company.PUT("/me",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RoleMiddleware("COMPANY_ADMIN"),
			middleware.RBACAuthorize(rbacService, "company", "update"),
			handler.UpdateMe,
		)
	}
}
