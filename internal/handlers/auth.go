package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/caminoapp/camino-backend/internal/config"
	"github.com/caminoapp/camino-backend/internal/models"
	"github.com/caminoapp/camino-backend/internal/store"
	"github.com/caminoapp/camino-backend/pkg/utils"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required,oneof=passenger driver"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"name":      user.Name,
		"phone":     user.Phone,
		"role":      user.Role,
		"avatarUrl": user.AvatarURL,
		"rating":    user.RatingAvg,
	}
}

func Register(users *store.UserStore, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user := models.User{
			Name:     input.Name,
			Email:    input.Email,
			Password: input.Password,
			Phone:    input.Phone,
			Role:     models.UserRole(input.Role),
			IsActive: true,
		}
		if err := user.HashPassword(); err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		if err := users.Create(c.Request.Context(), &user); err != nil {
			respondError(c, err)
			return
		}

		token, err := utils.GenerateToken(&user, jwtCfg.Secret, jwtCfg.Expiry)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(201, gin.H{"token": token, "user": userResponse(&user)})
	}
}

func Login(users *store.UserStore, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user, err := users.FindByEmail(c.Request.Context(), input.Email)
		if err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}
		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}
		if !user.IsActive {
			c.JSON(403, gin.H{"error": "Account is disabled"})
			return
		}

		token, err := utils.GenerateToken(user, jwtCfg.Secret, jwtCfg.Expiry)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{"token": token, "user": userResponse(user)})
	}
}
