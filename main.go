package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/studiokit/backend/internal/config"
	"github.com/studiokit/backend/internal/db"
	"github.com/studiokit/backend/internal/handler"
	"github.com/studiokit/backend/internal/metrics"
	"github.com/studiokit/backend/internal/model"
	"github.com/studiokit/backend/internal/service"
	"github.com/studiokit/backend/internal/storage"
)

// @title StudioKit Backend API
// @version 1.0
// @description Multi-tenant backend: users, auth, settings, file storage.
func main() {
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	database, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	files, err := storage.NewLocal(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}

	hasher := service.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := service.NewTokenIssuer(cfg.Auth)
	authSvc := service.NewAuthService(database, tokens, hasher)
	usersSvc := service.NewUsersService(database, hasher, files)
	settingsSvc := service.NewSettingsService(database, files)

	if err := usersSvc.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	collector := metrics.NewCollector()
	cookies := handler.NewCookieBinder(cfg.Auth)

	authHandler := handler.NewAuthHandler(authSvc, cookies, collector)
	usersHandler := handler.NewUsersHandler(usersSvc)
	settingsHandler := handler.NewSettingsHandler(settingsSvc)

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(handler.CORSMiddleware(cfg.Server.CORSOrigins))
	router.Use(handler.RateLimitMiddleware(cfg.RateLimit))
	router.Use(handler.MetricsMiddleware(collector))

	// Cookie strategies: access for ordinary calls, refresh only for rotation.
	requireAccess := handler.RequireAuth(handler.CookieExtractor(handler.AccessCookieName), tokens.ParseAccess)
	requireRefresh := handler.RequireAuth(handler.CookieExtractor(handler.RefreshCookieName), tokens.ParseRefresh)

	router.GET("/", handler.Root)
	router.GET("/ping", handler.Ping)
	router.GET("/openapi.json", handler.OpenAPIDoc)
	router.GET("/metrics", gin.WrapH(collector.Handler()))
	router.GET("/uploads/:ref", handler.ServeUpload(files))

	api := router.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", requireAccess, authHandler.Logout)
	auth.POST("/refresh", requireRefresh, authHandler.Refresh)
	auth.GET("/me", requireAccess, authHandler.Me)

	users := api.Group("/users", requireAccess)
	users.PATCH("/me/password", usersHandler.ChangePassword)
	users.POST("/me/avatar", usersHandler.SetAvatar)
	admin := users.Group("", handler.RequireRoles(model.RoleAdmin))
	admin.GET("", usersHandler.List)
	admin.POST("", usersHandler.Create)
	admin.GET("/:id", usersHandler.Get)
	admin.PATCH("/:id", usersHandler.Update)
	admin.DELETE("/:id", usersHandler.Delete)

	settings := api.Group("/settings")
	settings.GET("", settingsHandler.List)
	settings.PUT("", requireAccess, handler.RequireRoles(model.RoleAdmin), settingsHandler.Update)
	settings.POST("/assets", requireAccess, handler.RequireRoles(model.RoleAdmin), settingsHandler.SaveAsset)

	log.Printf("Listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
