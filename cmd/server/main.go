package main

import (
	"fmt"
	"log"
	"net/http"

	"ourlog/backend/internal/config"
	"ourlog/backend/internal/database"
	"ourlog/backend/internal/handler"
	"ourlog/backend/internal/hub"
	"ourlog/backend/internal/service"
	"ourlog/backend/internal/storage"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "ourlog/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Ourlog API
// @version         1.0
// @description     This is the API for the Ourlog social-networking service.
// @host            localhost:8080
// @BasePath        /api
func main() {
	// Connect to the database
	db := database.Connect(config.AppConfig.DatabaseURL)

	images, err := storage.New(config.AppConfig.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directories: %v", err)
	}

	events := hub.NewHub()

	userService := service.NewUserService(db)
	friendshipService := service.NewFriendshipService(db, userService, events)
	notificationService := service.NewNotificationService(db, userService)
	postService := service.NewPostService(db, userService, events)
	commentService := service.NewCommentService(db, userService, events)

	userHandler := handler.NewUserHandler(userService, notificationService, images, events)
	relationHandler := handler.NewRelationHandler(friendshipService)
	postHandler := handler.NewPostHandler(postService, images)
	commentHandler := handler.NewCommentHandler(commentService)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API routes
	api := router.Group("/api")
	{
		// User, session and friendship routes
		userRoutes := api.Group("/user")
		{
			userRoutes.POST("/signup", userHandler.Signup)
			userRoutes.GET("/signin", userHandler.Signin)
			userRoutes.GET("/signout", userHandler.Signout)
			userRoutes.GET("/existedId", userHandler.ExistedID)
			userRoutes.GET("/existedUsername", userHandler.ExistedUsername)
			userRoutes.GET("/profileImage", userHandler.ProfileImage)
			userRoutes.GET("/introduction", userHandler.Introduction)
			userRoutes.PATCH("/updateProfile", userHandler.UpdateProfile)
			userRoutes.GET("/postCount", userHandler.PostCount)
			userRoutes.GET("/search", userHandler.Search)

			userRoutes.GET("/notification", userHandler.Notifications)
			userRoutes.GET("/notificationStream", userHandler.NotificationStream)

			// Friendship routes
			userRoutes.GET("/relation", relationHandler.Relation)
			userRoutes.GET("/friends", relationHandler.FriendsCount)
			userRoutes.POST("/requestFriend", relationHandler.RequestFriend)
			userRoutes.POST("/acceptFriend", relationHandler.AcceptFriend)
			userRoutes.POST("/breakFriend", relationHandler.BreakFriend)
		}

		// Post routes
		postRoutes := api.Group("/post")
		{
			postRoutes.POST("/write", postHandler.Write)
			postRoutes.GET("/list", postHandler.List)
			postRoutes.GET("/userPosts", postHandler.UserPosts)
			postRoutes.GET("/thumbnail", postHandler.Thumbnail)
			postRoutes.GET("/count", postHandler.Count)
			postRoutes.GET("/:id", postHandler.GetByID)
			postRoutes.GET("/:id/isLiking", postHandler.IsLiking)
			postRoutes.GET("/:id/isSaved", postHandler.IsSaved)
			postRoutes.PATCH("/:id/toggleLike", postHandler.ToggleLike)
			postRoutes.PATCH("/:id/toggleSave", postHandler.ToggleSave)
			postRoutes.GET("/:id/image/:index", postHandler.Image)
		}

		// Comment routes
		commentRoutes := api.Group("/comment")
		{
			commentRoutes.POST("/write", commentHandler.Write)
			commentRoutes.GET("/list", commentHandler.List)
			commentRoutes.GET("/count", commentHandler.Count)
		}
	}

	fmt.Printf("Server is running on %s\n", config.AppConfig.ServerAddr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(config.AppConfig.ServerAddr))
}
