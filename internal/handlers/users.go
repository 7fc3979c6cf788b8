package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/caminoapp/camino-backend/internal/middleware"
	"github.com/caminoapp/camino-backend/internal/services"
	"github.com/caminoapp/camino-backend/internal/store"
)

func GetProfile(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(middleware.ContextUserID)
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, gin.H{"user": userResponse(user)})
	}
}

type UpdateProfileInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func UpdateProfile(users *store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		userID := c.GetString(middleware.ContextUserID)
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}

		if input.Name != "" {
			user.Name = input.Name
		}
		if input.Phone != "" {
			user.Phone = input.Phone
		}
		if err := users.Update(c.Request.Context(), user); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"user": userResponse(user)})
	}
}

// UploadAvatar stores a profile picture and saves its URL on the user.
func UploadAvatar(users *store.UserStore, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("avatar")
		if err != nil {
			c.JSON(400, gin.H{"error": "avatar file is required"})
			return
		}

		userID := c.GetString(middleware.ContextUserID)
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}

		url, err := storage.UploadImage(file, "avatars")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload avatar"})
			return
		}

		user.AvatarURL = url
		if err := users.Update(c.Request.Context(), user); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(200, gin.H{"avatarUrl": url})
	}
}
