package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/khoahotran/soundfolio/pkg/auth"
	"github.com/khoahotran/soundfolio/pkg/logger"
)

const serviceName = "soundfolio-api"

type RouterConfig struct {
	AuthHandler      *AuthHandler
	PortfolioHandler *PortfolioHandler
	ProfileHandler   *ProfileHandler
	ProjectHandler   *ProjectHandler
	EmbedHandler     *EmbedHandler
	MediaHandler     *MediaHandler

	JWTService     *auth.JWTService
	AllowedOrigins []string
	Logger         logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(corsMiddleware(cfg.AllowedOrigins))
	router.Use(RequestLogger(cfg.Logger))
	router.Use(ErrorMiddleware(cfg.Logger))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		authGroup := api.Group("/auth")
		authGroup.POST("/login", cfg.AuthHandler.Login)
		authGroup.GET("/oauth/start", cfg.AuthHandler.OAuthStart)
		authGroup.GET("/oauth/callback", cfg.AuthHandler.OAuthCallback)

		api.GET("/profiles/:username", cfg.ProfileHandler.GetPublicProfile)
		api.GET("/profiles/:username/feed.rss", cfg.ProfileHandler.GetPublicFeed)

		me := api.Group("/me")
		me.Use(AuthMiddleware(cfg.JWTService, cfg.Logger))
		{
			me.GET("/portfolio", cfg.PortfolioHandler.GetPortfolio)
			me.POST("/save", cfg.PortfolioHandler.Save)
			me.POST("/drop", cfg.PortfolioHandler.Drop)

			sections := me.Group("/sections")
			{
				sections.GET("", cfg.PortfolioHandler.ListSections)
				sections.POST("", cfg.PortfolioHandler.CreateSection)
				sections.GET("/:sectionId", cfg.PortfolioHandler.GetSection)
				sections.DELETE("/:sectionId", cfg.PortfolioHandler.DeleteSection)
				sections.POST("/:sectionId/reorder", cfg.PortfolioHandler.ReorderBoxes)

				boxes := sections.Group("/:sectionId/boxes")
				boxes.POST("", cfg.PortfolioHandler.CreateBox)
				boxes.PUT("/:boxId", cfg.PortfolioHandler.UpdateBox)
				boxes.DELETE("/:boxId", cfg.PortfolioHandler.DeleteBox)
				boxes.PATCH("/:boxId/size", cfg.PortfolioHandler.ResizeBox)
				boxes.POST("/:boxId/items", cfg.PortfolioHandler.AppendItem)
			}

			me.GET("/profile", cfg.ProfileHandler.GetProfile)
			me.PUT("/profile", cfg.ProfileHandler.UpdateProfile)
			me.PUT("/theme", cfg.ProfileHandler.SetTheme)

			links := me.Group("/social-links")
			{
				links.GET("", cfg.ProfileHandler.ListSocialLinks)
				links.POST("", cfg.ProfileHandler.AddSocialLink)
				links.PUT("/:linkId", cfg.ProfileHandler.UpdateSocialLink)
				links.DELETE("/:linkId", cfg.ProfileHandler.DeleteSocialLink)
			}

			projects := me.Group("/projects")
			{
				projects.GET("", cfg.ProjectHandler.ListProjects)
				projects.POST("", cfg.ProjectHandler.CreateProject)
				projects.PUT("/:projectId", cfg.ProjectHandler.UpdateProject)
				projects.DELETE("/:projectId", cfg.ProjectHandler.DeleteProject)
			}

			embeds := me.Group("/embeds")
			{
				embeds.GET("", cfg.EmbedHandler.ListEmbeds)
				embeds.POST("", cfg.EmbedHandler.CreateEmbed)
				embeds.PUT("/:embedId", cfg.EmbedHandler.UpdateEmbed)
				embeds.DELETE("/:embedId", cfg.EmbedHandler.DeleteEmbed)
			}

			me.POST("/media", cfg.MediaHandler.UploadImage)
		}
	}

	return router
}

// corsMiddleware allows the configured origins with credentials. With no
// origins configured every origin is allowed and credentials are not.
func corsMiddleware(origins []string) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = origins
		conf.AllowCredentials = true
	}
	return cors.New(conf)
}
