package grades

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gradehub/internal/shared/errs"
	"gradehub/internal/shared/middleware"
	"gradehub/internal/shared/utils/response"
)

type Controller interface {
	GradeSubmission(c *gin.Context)
	GetGrade(c *gin.Context)
	GetGrades(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GradeSubmission(c *gin.Context) {
	var req GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	teacherID, ok := middleware.CallerID(c, "teacherId")
	if !ok {
		response.Error(c, errs.ErrMissingToken)
		return
	}
	graderID, err := uuid.Parse(teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}

	grade, err := ctrl.service.GradeSubmission(c.Request.Context(), graderID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, grade)
}

func (ctrl *controller) GetGrade(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, errs.ErrSubmissionNotFound)
		return
	}

	grade, err := ctrl.service.GetGradeForSubmission(c.Request.Context(), submissionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, grade)
}

func (ctrl *controller) GetGrades(c *gin.Context) {
	teacherID, ok := middleware.CallerID(c, "teacherId")
	if !ok {
		response.Error(c, errs.ErrMissingToken)
		return
	}
	graderID, err := uuid.Parse(teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := ctrl.service.GetGradesByGrader(c.Request.Context(), graderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result)
}
