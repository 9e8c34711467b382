package leaverequest

import (
	"go-leavedesk/internal/middleware"
	"go-leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "leave_requests", "create"),
			middleware.Idempotency(rdb),
			handler.Submit,
		)

		requests.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave_requests", "read"),
			handler.GetAll,
		)

		requests.GET("/employee/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave_requests", "read"),
			handler.GetByEmployee,
		)

		requests.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave_requests", "read"),
			handler.GetByID,
		)

		requests.PUT("/:id/approve",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "leave_requests", "approve"),
			handler.Approve,
		)

		requests.PUT("/:id/reject",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "leave_requests", "approve"),
			handler.Reject,
		)

		requests.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "leave_requests", "delete"),
			handler.Withdraw,
		)
	}
}
