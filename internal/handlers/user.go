package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/database"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/models"
	"github.com/qobilovfirdavs02/ChatApp-server/pkg/utils"
)

// SearchUsers returns usernames matching the query substring.
func SearchUsers(c *gin.Context) {
	query := c.DefaultQuery("query", "")

	var users []models.User
	err := database.DB.
		Select("username").
		Where("username LIKE ?", utils.SanitizeSearchQuery(query)).
		Order("username asc").
		Find(&users).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	result := make([]gin.H, 0, len(users))
	for _, u := range users {
		result = append(result, gin.H{"username": u.Username})
	}
	c.JSON(http.StatusOK, result)
}
