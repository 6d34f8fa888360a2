package grades

import (
	"github.com/gin-gonic/gin"

	"gradehub/internal/shared/middleware"
	"gradehub/internal/users"
)

// SetupRoutes registers grading routes. Grading and listing issued grades
// are teacher-only; reading a grade requires the calling student to own
// the underlying submission.
func SetupRoutes(rg *gin.RouterGroup, ctrl Controller, resolver middleware.OwnerResolver, authmw *middleware.Auth) {
	group := rg.Group("/grades")
	group.Use(authmw.Authenticated())
	{
		group.POST("/grade",
			middleware.RequireRole(users.RoleTeacher),
			middleware.BindCallerID("teacherId"),
			ctrl.GradeSubmission)

		group.GET("/grade/:id",
			middleware.RequireRole(users.RoleStudent),
			middleware.OwnsResource("id", resolver),
			ctrl.GetGrade)

		group.GET("/grades",
			middleware.RequireRole(users.RoleTeacher),
			middleware.BindCallerID("teacherId"),
			ctrl.GetGrades)
	}
}
