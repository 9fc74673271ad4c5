package routes

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	config "github.com/eventdekho/eventdekho-api/config"
	controllers "github.com/eventdekho/eventdekho-api/controllers"
	middleware "github.com/eventdekho/eventdekho-api/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.ErrorHandler(cfg))
	r.Use(middleware.CORS(cfg))
	r.NoRoute(middleware.NotFound())

	auth := middleware.AuthMiddleware(cfg)
	admin := middleware.AdminOnly()

	api := r.Group("/api")
	api.GET("/health", controllers.Health(cfg))

	// auth
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", controllers.Register(cfg))
		authGroup.POST("/login", controllers.Login(cfg))
		authGroup.POST("/forgot-password", controllers.ForgotPassword(cfg))
		authGroup.POST("/reset-password", controllers.ResetPassword(cfg))
		authGroup.GET("/me", auth, controllers.Me(cfg))
		authGroup.PUT("/profile", auth, controllers.UpdateProfile(cfg))
		authGroup.PUT("/change-password", auth, controllers.ChangePassword(cfg))
	}

	// events
	events := api.Group("/events")
	{
		events.GET("", middleware.OptionalAuth(cfg), controllers.ListEvents(cfg))
		events.GET("/mine", auth, controllers.ListMyEvents(cfg))
		events.GET("/liked", auth, controllers.ListLikedEvents(cfg))
		events.GET("/:id", middleware.OptionalAuth(cfg), controllers.GetEvent(cfg))
		events.POST("", auth, controllers.CreateEvent(cfg))
		events.PUT("/:id", auth, controllers.UpdateEvent(cfg))
		events.DELETE("/:id", auth, controllers.DeleteEvent(cfg))
		events.POST("/:id/share", controllers.ShareEvent(cfg))
		events.POST("/:id/like", auth, controllers.ToggleLike(cfg))
		events.GET("/:id/like", auth, controllers.LikeStatus(cfg))
	}

	comments := api.Group("/comments")
	{
		comments.POST("", auth, controllers.CreateComment(cfg))
		comments.GET("/:eventId", controllers.ListComments(cfg))
		comments.DELETE("/:id", auth, controllers.DeleteComment(cfg))
	}

	participation := api.Group("/participation")
	participation.Use(auth)
	{
		participation.POST("", controllers.CreateParticipation(cfg))
		participation.GET("/my", controllers.ListMyParticipations(cfg))
		participation.GET("/check/:eventId", controllers.CheckParticipation(cfg))
		participation.GET("/event/:eventId", controllers.ListEventParticipations(cfg))
	}

	ads := api.Group("/ads")
	{
		ads.GET("/active", controllers.ListActiveAds(cfg))
		ads.POST("/:id/click", controllers.TrackAd(cfg, "clicks"))
		ads.POST("/:id/impression", controllers.TrackAd(cfg, "impressions"))
		ads.GET("", auth, admin, controllers.ListAds(cfg))
		ads.POST("", auth, admin, controllers.CreateAd(cfg))
		ads.PUT("/:id", auth, admin, controllers.UpdateAd(cfg))
		ads.DELETE("/:id", auth, admin, controllers.DeleteAd(cfg))
	}

	announcements := api.Group("/announcements")
	{
		announcements.GET("", controllers.ListLiveAnnouncements(cfg))
		announcements.POST("/:id/view", controllers.TrackAnnouncement(cfg, "views"))
		announcements.POST("/:id/click", controllers.TrackAnnouncement(cfg, "clicks"))
		announcements.GET("/all", auth, admin, controllers.ListAnnouncements(cfg))
		announcements.POST("", auth, admin, controllers.CreateAnnouncement(cfg))
		announcements.PUT("/:id", auth, admin, controllers.UpdateAnnouncement(cfg))
		announcements.DELETE("/:id", auth, admin, controllers.DeleteAnnouncement(cfg))
	}

	upload := api.Group("/upload")
	upload.Use(auth)
	{
		upload.POST("", controllers.UploadMedia(cfg))
		upload.DELETE("", admin, controllers.DeleteMedia(cfg))
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(auth, admin)
	{
		adminGroup.GET("/users", controllers.ListUsers(cfg))
		adminGroup.PUT("/users/:id/verify", controllers.VerifyUser(cfg))
		adminGroup.PUT("/users/:id/role", controllers.SetUserRole(cfg))
		adminGroup.DELETE("/users/:id", controllers.DeleteUser(cfg))
		adminGroup.GET("/events", controllers.ListAllEvents(cfg))
		adminGroup.PUT("/events/:id/approve", controllers.ApproveEvent(cfg))
		adminGroup.GET("/participations", controllers.ListAllParticipations(cfg))
		adminGroup.GET("/stats", controllers.Stats(cfg))
	}
}
