package tasks

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gradehub/internal/shared/errs"
	"gradehub/internal/shared/middleware"
	"gradehub/internal/shared/utils/response"
)

type Controller interface {
	CreateTask(c *gin.Context)
	GetTask(c *gin.Context)
	UpdateTask(c *gin.Context)
	DeleteTask(c *gin.Context)
	GetAllTasks(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	// teacherId bound by the middleware chain
	teacherID, ok := middleware.CallerID(c, "teacherId")
	if !ok {
		response.Error(c, errs.ErrMissingToken)
		return
	}
	teacherUUID, err := uuid.Parse(teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}

	task, err := ctrl.service.CreateTask(c.Request.Context(), teacherUUID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, task)
}

func (ctrl *controller) GetTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, errs.ErrTaskNotFound)
		return
	}

	task, err := ctrl.service.GetTaskByID(c.Request.Context(), taskID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, task)
}

func (ctrl *controller) UpdateTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, errs.ErrTaskNotFound)
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := ctrl.service.UpdateTask(c.Request.Context(), taskID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, task)
}

func (ctrl *controller) DeleteTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, errs.ErrTaskNotFound)
		return
	}

	if err := ctrl.service.DeleteTask(c.Request.Context(), taskID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Task deleted successfully")
}

func (ctrl *controller) GetAllTasks(c *gin.Context) {
	tasks, err := ctrl.service.GetAllTasks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, tasks)
}
