// Package server assembles the PixelNote HTTP API.
package server

import (
	"net/http"

	"pixelnote/config"
	"pixelnote/controllers"
	"pixelnote/middlewares"
	"pixelnote/models"
	"pixelnote/repositories"
	"pixelnote/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const apiVersion = "2.0"

// Deps are the collaborators the router needs.
type Deps struct {
	DB          *gorm.DB
	AuthService services.IAuthService
	Config      config.AppConfig
	Log         *zap.Logger
}

// NewAuthService wires the auth service over db and the given revocation
// store.
func NewAuthService(db *gorm.DB, tokens repositories.ITokenRepository, cfg config.AuthConfig) (services.IAuthService, error) {
	return services.NewAuthService(repositories.NewAuthRepository(db), tokens, cfg)
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.RequestLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(deps.Config.CORSOrigins)))
	r.Use(middlewares.BodyLimit(deps.Config.MaxBodyBytes))

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			deps.Log.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "PixelNote API", "version": apiVersion})
	})

	authController := controllers.NewAuthController(deps.AuthService, deps.Log)
	authMiddleware := middlewares.AuthMiddleware(deps.AuthService, deps.Log)

	api.POST("/register", authController.Register)
	api.POST("/login", authController.Login)
	api.POST("/logout", authController.Logout)
	api.GET("/auth/verify", authMiddleware, authController.Verify)

	for _, variant := range models.Variants() {
		itemRepository := repositories.NewItemRepository(deps.DB, variant)
		itemService := services.NewItemService(itemRepository)
		itemController := controllers.NewItemController(itemService, deps.Log)

		itemRouter := api.Group("/"+variant.Collection(), authMiddleware)
		itemRouter.GET("", itemController.FindAll)
		itemRouter.GET("/:id", itemController.FindById)
		itemRouter.POST("", itemController.Create)
		itemRouter.PUT("/:id", itemController.Update)
		itemRouter.DELETE("/:id", itemController.Delete)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
