package submissions

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gradehub/internal/shared/errs"
	"gradehub/internal/shared/middleware"
	"gradehub/internal/shared/utils/response"
)

type Controller interface {
	Submit(c *gin.Context)
	GetSubmission(c *gin.Context)
	GetSubmissionsForTask(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) Submit(c *gin.Context) {
	studentID, ok := middleware.CallerID(c, "studentId")
	if !ok {
		response.Error(c, errs.ErrMissingToken)
		return
	}

	taskID := c.PostForm("taskId")
	if taskID == "" {
		response.Message(c, http.StatusBadRequest, "Task id is required")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Message(c, http.StatusBadRequest, "File is required")
		return
	}

	submission, err := ctrl.service.Submit(c.Request.Context(), studentID, taskID, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, submission)
}

func (ctrl *controller) GetSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, errs.ErrSubmissionNotFound)
		return
	}

	submission, err := ctrl.service.GetSubmission(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, submission)
}

func (ctrl *controller) GetSubmissionsForTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, errs.ErrTaskNotFound)
		return
	}

	result, err := ctrl.service.GetSubmissionsForTask(c.Request.Context(), taskID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result)
}
