package controllers

import (
	"lexiport/middleware"
	"lexiport/models"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func taskPayload(t *models.Task) gin.H {
	return gin.H{
		"id":        t.ID,
		"title":     t.Title,
		"deadline":  t.Deadline,
		"completed": t.Completed,
		"createdAt": t.CreatedAt,
	}
}

func ListTasks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)

		var tasks []models.Task
		if err := db.Where("user_id = ?", uid).Order("id").Find(&tasks).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "db error"})
			return
		}
		result := make([]gin.H, 0, len(tasks))
		for i := range tasks {
			result = append(result, taskPayload(&tasks[i]))
		}
		c.JSON(http.StatusOK, result)
	}
}

func CreateTask(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)

		var body struct {
			Title    string `json:"title"`
			Deadline string `json:"deadline"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Title) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "title is required"})
			return
		}

		task := models.Task{UserID: uid, Title: strings.TrimSpace(body.Title), Deadline: body.Deadline}
		if err := db.Create(&task).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create task"})
			return
		}
		c.JSON(http.StatusCreated, taskPayload(&task))
	}
}

func UpdateTask(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)
		tid, _ := strconv.Atoi(c.Param("taskId"))

		var task models.Task
		if err := db.Where("id = ? AND user_id = ?", tid, uid).First(&task).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "task not found"})
			return
		}

		var body struct {
			Title     *string `json:"title"`
			Deadline  *string `json:"deadline"`
			Completed *bool   `json:"completed"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
			return
		}
		if body.Title != nil {
			if strings.TrimSpace(*body.Title) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"message": "title cannot be empty"})
				return
			}
			task.Title = strings.TrimSpace(*body.Title)
		}
		if body.Deadline != nil {
			task.Deadline = *body.Deadline
		}
		if body.Completed != nil {
			task.Completed = *body.Completed
		}
		if err := db.Save(&task).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update task"})
			return
		}
		c.JSON(http.StatusOK, taskPayload(&task))
	}
}

func DeleteTask(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUserID(c)
		tid, _ := strconv.Atoi(c.Param("taskId"))

		var task models.Task
		if err := db.Where("id = ? AND user_id = ?", tid, uid).First(&task).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "task not found"})
			return
		}
		if err := db.Delete(&task).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete task"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
	}
}
