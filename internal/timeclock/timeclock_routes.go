package timeclock

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	entries := r.Group("/time-entries")
	entries.Use(middleware.AuthMiddleware())
	{
		entries.GET("", middleware.RBACAuthorize(rbacService, "timeclock", "read"), h.GetAll)
		entries.POST("/clock-in", middleware.RBACAuthorize(rbacService, "timeclock", "create"), h.ClockIn)
		entries.POST("/clock-out", middleware.RBACAuthorize(rbacService, "timeclock", "create"), h.ClockOut)
	}
}
