package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/southville8b/student-portal/internal/token"
	"github.com/southville8b/student-portal/internal/transport/http/handler"
	"github.com/southville8b/student-portal/internal/transport/http/middleware"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	issuer *token.Issuer,
	authHandler *handler.AuthHandler,
	studentHandler *handler.StudentHandler,
	documentHandler *handler.DocumentHandler,
	announcementHandler *handler.AnnouncementHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	api := r.Group("/api")

	// Public routes
	api.POST("/login", authHandler.Login)
	api.POST("/request-otp", authHandler.RequestOTP)
	api.POST("/verify-otp", authHandler.VerifyOTP)
	api.POST("/resend-otp", authHandler.ResendOTP)
	api.GET("/health", authHandler.Health)
	api.GET("/announcements", announcementHandler.List)
	api.GET("/enrollment/:track_code", documentHandler.StatusByTrackCode)

	// Routes requiring a session token
	authed := api.Group("", middleware.Auth(issuer))
	authed.POST("/change-password", studentHandler.ChangePassword)
	authed.GET("/student-profile", studentHandler.Profile)
	authed.PUT("/student-profile", studentHandler.UpdateProfile)
	authed.GET("/student-status", studentHandler.Status)
	authed.POST("/documents", documentHandler.Upload)
	authed.GET("/documents", documentHandler.Documents)
	authed.POST("/enrollments/second-semester", documentHandler.SubmitSecondSem)
	authed.GET("/enrollments/second-semester", documentHandler.SecondSemStatus)

	return r
}
