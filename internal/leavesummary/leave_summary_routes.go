package leavesummary

import (
	"go-leavedesk/internal/middleware"
	"go-leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	summaries := r.Group("/leave-summary")
	summaries.Use(middleware.AuthMiddleware())
	{
		summaries.GET("/details/:employee_id/:year/:type_id",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "leave_summary", "read"),
			handler.GetDetail,
		)

		summaries.GET("/employee/:employee_id/:year",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave_summary", "read"),
			handler.ListByEmployee,
		)
	}
}
