package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/handlers"
	"github.com/qobilovfirdavs02/ChatApp-server/internal/middleware"
)

func RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", handlers.Register)
	rg.POST("/login", handlers.Login)
	rg.POST("/reset-password", handlers.ResetPassword)
	rg.POST("/verify-reset-code", handlers.VerifyResetCode)
	rg.POST("/set-new-password", handlers.SetNewPassword)
}

func RegisterUserRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", handlers.SearchUsers)
}

func RegisterUploadRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", middleware.AuthMiddleware(), handlers.UploadFile)
}

// RegisterChatRoutes mounts the websocket endpoint at the router root;
// the session does its own username authentication.
func RegisterChatRoutes(r *gin.Engine) {
	r.GET("/ws/:username/:receiver", handlers.ChatWebSocket)
}
