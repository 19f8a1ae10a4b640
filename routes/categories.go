package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/taskhub/database"
	"taskhub/taskhub/middleware"
	"taskhub/taskhub/services"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=100"`
	Description string `json:"description"`
}

// Both fields are optional on update; an absent field is left untouched.
type updateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=100"`
	Description *string `json:"description"`
}

func RegisterCategoryRoutes(router *gin.Engine, db *database.Database, categoryService services.CategoryServiceInterface, authService services.AuthServiceInterface) {
	group := router.Group("/api/v1/categories")
	group.Use(middleware.AuthMiddleware(authService))
	{
		group.GET("", func(c *gin.Context) { GetCategories(c, db, categoryService) })
		group.POST("", func(c *gin.Context) { CreateCategory(c, db, categoryService) })
		group.PUT("/:id", func(c *gin.Context) { UpdateCategory(c, db, categoryService) })
		group.DELETE("/:id", func(c *gin.Context) { DeleteCategory(c, db, categoryService) })
	}
}

func GetCategories(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	categories, err := categoryService.ListCategories(db, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func CreateCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request categoryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	category, err := categoryService.CreateCategory(db, userID, request.Name, request.Description)
	if err != nil {
		if errors.Is(err, services.ErrCategoryExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func UpdateCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid category id"})
		return
	}

	var request updateCategoryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	category, err := categoryService.UpdateCategory(db, userID, categoryID, request.Name, request.Description)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Category doesn't exist or doesn't belong to current user"})
		case errors.Is(err, services.ErrCategoryExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, category)
}

func DeleteCategory(c *gin.Context, db *database.Database, categoryService services.CategoryServiceInterface) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid category id"})
		return
	}

	if err := categoryService.DeleteCategory(db, userID, categoryID); err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category doesn't exist or doesn't belong to current user"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
