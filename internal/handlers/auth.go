package handlers

import (
	"fmt"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/database"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/mailer"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/models"
	"github.com/qobilovfirdavs02/ChatApp-server/pkg/logger"
	"github.com/qobilovfirdavs02/ChatApp-server/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a new account with a unique username and email.
func Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !utils.ValidateUsername(req.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{Username: req.Username, Email: req.Email, Password: string(hash)}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
		return
	}

	logger.Info().Str("user", req.Username).Msg("user registered")
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully"})
}

// Login checks credentials and issues a JWT.
func Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, "username = ?", req.Username).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := utils.GenerateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logger.Info().Str("user", user.Username).Msg("user logged in")
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "username": user.Username, "token": token})
}

// ResetPassword stores a 6-digit code on the account and emails it.
func ResetPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	code := fmt.Sprintf("%06d", rand.Intn(1000000))

	result := database.DB.Model(&models.User{}).
		Where("email = ?", req.Email).
		Update("reset_code", code)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store reset code"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
		return
	}

	if err := mailer.SendResetCode(req.Email, code); err != nil {
		logger.Error().Err(err).Str("email", req.Email).Msg("reset code email failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send reset code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reset code sent to your email"})
}

// VerifyResetCode checks an emailed reset code.
func VerifyResetCode(c *gin.Context) {
	var req struct {
		Email     string `json:"email" binding:"required,email"`
		ResetCode string `json:"reset_code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User
	err := database.DB.First(&user, "email = ? AND reset_code = ? AND reset_code <> ''", req.Email, req.ResetCode).Error
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid code or email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Code is valid"})
}

// SetNewPassword replaces the password after code verification and
// clears the code.
func SetNewPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	result := database.DB.Model(&models.User{}).
		Where("email = ?", req.Email).
		Updates(map[string]interface{}{"password": string(hash), "reset_code": ""})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Email not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "New password set successfully"})
}
