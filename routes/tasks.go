package routes

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskhub/taskhub/database"
	"taskhub/taskhub/middleware"
	"taskhub/taskhub/models"
	"taskhub/taskhub/services"
)

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Description string     `json:"description"`
	CategoryID  *uint      `json:"category_id"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
}

func RegisterTaskRoutes(router *gin.Engine, db *database.Database, taskService services.TaskServiceInterface, authService services.AuthServiceInterface) {
	group := router.Group("/api/v1/tasks")
	group.Use(middleware.AuthMiddleware(authService))
	{
		group.GET("", func(c *gin.Context) { GetTasks(c, db, taskService) })
		group.POST("", func(c *gin.Context) { CreateTask(c, db, taskService) })
		group.GET("/stats", func(c *gin.Context) { GetTaskStats(c, db, taskService) })
		group.GET("/:id", func(c *gin.Context) { GetTaskById(c, db, taskService) })
		group.PUT("/:id", func(c *gin.Context) { UpdateTask(c, db, taskService) })
		group.DELETE("/:id", func(c *gin.Context) { DeleteTask(c, db, taskService) })
		group.POST("/:id/complete", func(c *gin.Context) { CompleteTask(c, db, taskService) })
		group.POST("/:id/uncomplete", func(c *gin.Context) { UncompleteTask(c, db, taskService) })
	}
}

func CreateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request createTaskRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	task, err := taskService.CreateTask(db, userID, services.TaskCreateInput{
		Title:       request.Title,
		Description: request.Description,
		CategoryID:  request.CategoryID,
		Priority:    models.Priority(request.Priority),
		DueDate:     request.DueDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotOwned):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, models.NewTaskResponse(task))
}

func GetTaskById(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid task id"})
		return
	}

	task, err := taskService.GetTaskById(db, userID, taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.NewTaskResponse(task))
}

func UpdateTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid task id"})
		return
	}

	// Bound as a raw map so an omitted field can be told apart from a field
	// explicitly set to null, notably category_id.
	var updatedData map[string]interface{}
	if err := c.ShouldBindJSON(&updatedData); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	task, err := taskService.UpdateTask(db, userID, taskID, updatedData)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		case errors.Is(err, services.ErrCategoryNotOwned):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, models.NewTaskResponse(task))
}

func DeleteTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid task id"})
		return
	}

	if err := taskService.DeleteTask(db, userID, taskID); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func GetTasks(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid limit"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid offset"})
		return
	}

	params := services.TaskListParams{
		Limit:     limit,
		Offset:    offset,
		Status:    c.DefaultQuery("status", "all"),
		Search:    c.Query("search"),
		Category:  c.Query("category_id"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("order", "desc"),
	}

	tasks, total, err := taskService.ListTasks(db, userID, params)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Category doesn't exist or doesn't belong to current user"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	items := make([]models.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, models.NewTaskResponse(task))
	}

	c.JSON(http.StatusOK, models.TaskListResponse{
		Items:  items,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
}

func CompleteTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	transitionTask(c, db, taskService, true)
}

func UncompleteTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	transitionTask(c, db, taskService, false)
}

func transitionTask(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface, complete bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid task id"})
		return
	}

	var task models.Task
	var err error
	if complete {
		task, err = taskService.MarkTaskCompleted(db, userID, taskID)
	} else {
		task, err = taskService.MarkTaskPending(db, userID, taskID)
	}
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.NewTaskResponse(task))
}

func GetTaskStats(c *gin.Context, db *database.Database, taskService services.TaskServiceInterface) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	stats, err := taskService.GetTaskStats(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
