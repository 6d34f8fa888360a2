package submissions

import (
	"github.com/gin-gonic/gin"

	"gradehub/internal/shared/middleware"
	"gradehub/internal/users"
)

// SetupRoutes registers submission routes. Students submit and view their
// own submissions; teachers list everything submitted for a task.
func SetupRoutes(rg *gin.RouterGroup, ctrl Controller, svc Service, authmw *middleware.Auth) {
	group := rg.Group("/submissions")
	group.Use(authmw.Authenticated())
	{
		group.POST("/submit",
			middleware.RequireRole(users.RoleStudent),
			middleware.BindCallerID("studentId"),
			ctrl.Submit)

		group.GET("/submission/:id",
			middleware.RequireRole(users.RoleStudent),
			middleware.OwnsResource("id", svc),
			ctrl.GetSubmission)

		group.GET("/submissions/:id",
			middleware.RequireRole(users.RoleTeacher),
			ctrl.GetSubmissionsForTask)
	}
}
