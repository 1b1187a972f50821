package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apollineguerineau/OnTheFloor/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	sessionService service.SessionService,
	blockService service.BlockService,
	exerciseService service.ExerciseService,
	locationService service.LocationService,
	photoService service.PhotoService,
) {

	authHandler := NewAuthHandler(authService)
	sessionHandler := NewSessionHandler(sessionService)
	blockHandler := NewBlockHandler(blockService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	locationHandler := NewLocationHandler(locationService)
	photoHandler := NewPhotoHandler(photoService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex()})
		})

		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.CreateSession)
			sessionGroup.GET("", sessionHandler.ListSessions)
			sessionGroup.GET("/by-date/:date", sessionHandler.GetSessionByDate)
			sessionGroup.GET("/:sessionId", sessionHandler.GetSession)
			sessionGroup.PATCH("/:sessionId", sessionHandler.UpdateSession)
			sessionGroup.DELETE("/:sessionId", sessionHandler.DeleteSession)
		}

		blockGroup := protected.Group("/blocks")
		{
			blockGroup.POST("", blockHandler.CreateBlock)
			blockGroup.GET("/session/:sessionId", blockHandler.ListBlocksBySession)
			blockGroup.GET("/:blockId", blockHandler.GetBlock)
			blockGroup.PATCH("/:blockId", blockHandler.UpdateBlock)
			blockGroup.DELETE("/:blockId", blockHandler.DeleteBlock)
		}

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("/session/:sessionId", exerciseHandler.ListExercisesBySession)
			exerciseGroup.GET("/block/:blockId", exerciseHandler.ListExercisesByBlock)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
			exerciseGroup.PATCH("/:exerciseId", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", exerciseHandler.DeleteExercise)
		}

		locationGroup := protected.Group("/locations")
		{
			locationGroup.POST("", locationHandler.CreateLocation)
			locationGroup.GET("", locationHandler.ListLocations)
			locationGroup.GET("/:locationId", locationHandler.GetLocation)
			locationGroup.DELETE("/:locationId", locationHandler.DeleteLocation)
		}

		photoGroup := protected.Group("/photos")
		{
			photoGroup.POST("/session/:sessionId", photoHandler.AttachPhoto)
			photoGroup.GET("/session/:sessionId", photoHandler.ListPhotosBySession)
			photoGroup.DELETE("/:photoId", photoHandler.DeletePhoto)
		}
	}
}
