package leave

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByEmployee)
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		leaves.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.UpdateStatus)
		leaves.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave", "update"), handler.Update)
		leaves.PUT("/:id/manager-approval", middleware.RBACAuthorize(rbacService, "leave", "update"), handler.ManagerApproval)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "delete"), handler.Delete)
	}
}
