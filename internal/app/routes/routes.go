package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/middleware"
	"github.com/yigit/libraryhub/internal/mockapi"
)

// APIBasePath is the prefix of every library endpoint
const APIBasePath = "/api/v1/library"

// SetupRouter configures all routes of the development backend
func SetupRouter(router *gin.Engine, handlers *mockapi.Handlers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group(APIBasePath)

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
		auth.POST("/verify-otp", handlers.VerifyOTP)
		auth.POST("/resend-otp", handlers.ResendOTP)
		auth.POST("/refresh", handlers.Refresh)
		// logout only needs the refresh cookie; an expired access token must not block it
		auth.POST("/logout", handlers.Logout)
	}

	// --- Authenticated Routes Group ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/users/:id", handlers.GetUser)

	// Lesson editing is reserved for library staff
	staff := authenticated.Group("")
	staff.Use(authMiddleware.RoleRequired(models.RoleLibrarian, models.RoleAdmin))

	authenticated.GET("/chapters/:id/lessons", handlers.ListLessons)
	staff.POST("/chapters/:id/lessons", handlers.CreateLesson)

	authenticated.GET("/lessons/:id", handlers.GetLesson)
	staff.PUT("/lessons/:id", handlers.UpdateLesson)
	staff.DELETE("/lessons/:id", handlers.DeleteLesson)

	// Comments: any signed-in user posts; author or admin edits
	authenticated.GET("/lessons/:id/comments", handlers.ListComments)
	authenticated.POST("/lessons/:id/comments", handlers.CreateComment)
	authenticated.PUT("/comments/:id", handlers.UpdateComment)
	authenticated.DELETE("/comments/:id", handlers.DeleteComment)

	// Resources: metadata first, then the binary
	authenticated.GET("/lessons/:id/resources", handlers.ListResources)
	staff.POST("/lessons/:id/resources", handlers.CreateResource)
	staff.POST("/resources/:id/video", handlers.UploadVideo)
	staff.POST("/resources/:id/slide", handlers.UploadSlide)
	staff.DELETE("/resources/:id", handlers.DeleteResource)

	// Reviews: one per (student, book)
	authenticated.GET("/books/:id/rating", handlers.ListReviews)
	authenticated.POST("/books/:id/rating", handlers.SubmitReview)
	authenticated.DELETE("/books/:id/rating", handlers.DeleteReview)

	// Health check endpoint (public)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	router.NoRoute(func(c *gin.Context) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found")
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(errorDetail))
	})
}
