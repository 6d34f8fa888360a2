package tasks

import (
	"github.com/gin-gonic/gin"

	"gradehub/internal/shared/middleware"
	"gradehub/internal/users"
)

// SetupRoutes registers task routes. Reads are open to any authenticated
// caller; mutations are teacher-only with the caller id bound for the
// handler.
func SetupRoutes(rg *gin.RouterGroup, ctrl Controller, authmw *middleware.Auth) {
	tasks := rg.Group("/tasks")
	tasks.Use(authmw.Authenticated())
	{
		tasks.GET("", ctrl.GetAllTasks)
		tasks.GET("/:id", ctrl.GetTask)

		teacherOnly := tasks.Group("")
		teacherOnly.Use(middleware.RequireRole(users.RoleTeacher), middleware.BindCallerID("teacherId"))
		{
			teacherOnly.POST("", ctrl.CreateTask)
			teacherOnly.PUT("/:id", ctrl.UpdateTask)
			teacherOnly.DELETE("/:id", ctrl.DeleteTask)
		}
	}
}
