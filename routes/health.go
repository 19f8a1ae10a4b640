package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/taskhub/database"
)

func RegisterHealthRoutes(router *gin.Engine, db *database.Database) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to TaskHub!",
			"docs":    "/api/v1",
		})
	})
	router.GET("/health", func(c *gin.Context) { HealthCheck(c, db) })
}

func HealthCheck(c *gin.Context, db *database.Database) {
	sqlDB, err := db.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
