// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"

	"blogcore/internal/auth/domain/entities"
	authapi "blogcore/internal/auth/ports/api"
	svc "blogcore/internal/auth/ports/services"
	"blogcore/internal/config"
	"blogcore/internal/gateway/adapters/http/auth"
	"blogcore/internal/gateway/adapters/http/middleware"
	"blogcore/internal/gateway/adapters/http/posts"
	"blogcore/internal/gateway/adapters/http/users"
	"blogcore/internal/gateway/adapters/http/web"
	postapi "blogcore/internal/posts/ports/api"
)

const appName = "blogcore"

// Services - зависимости HTTP слоя.
type Services struct {
	Tokens svc.TokenService
	Auth   authapi.AuthUseCase
	Users  authapi.UserUseCase
	Posts  postapi.PostUseCase
}

// NewApp создает fiber-приложение с отображением ошибок домена в HTTP-статусы.
func NewApp(cfg *config.HTTPConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      appName,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: web.ErrorHandler,
	})
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, s Services) {
	authHandler := auth.NewHandler(s.Auth)
	userHandler := users.NewHandler(s.Users)
	postHandler := posts.NewHandler(s.Posts)

	requireAuth := middleware.NewAuthMiddleware(s.Tokens)
	adminOnly := middleware.RequireRole(entities.RoleAdmin, entities.RoleSuperAdmin)
	superAdminOnly := middleware.RequireRole(entities.RoleSuperAdmin)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewMetricsMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())

	// API версии 1.
	apiV1 := app.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshTokens)
	authRoutes.Post("/logout", requireAuth, authHandler.Logout)

	userRoutes := apiV1.Group("/users", requireAuth)
	userRoutes.Get("/me", userHandler.Me)
	userRoutes.Patch("/me", userHandler.UpdateMe)
	userRoutes.Post("/me/password", userHandler.ChangePassword)
	userRoutes.Get("/", adminOnly, userHandler.List)
	userRoutes.Get("/:id", adminOnly, userHandler.Get)
	userRoutes.Patch("/:id/role", superAdminOnly, userHandler.UpdateRole)
	userRoutes.Post("/:id/status", adminOnly, userHandler.ToggleStatus)
	userRoutes.Delete("/:id", superAdminOnly, userHandler.Delete)

	// Чтение опубликованных записей доступно без авторизации.
	postRoutes := apiV1.Group("/posts")
	postRoutes.Get("/", postHandler.ListPublished)
	postRoutes.Post("/", requireAuth, postHandler.Create)
	postRoutes.Get("/my", requireAuth, postHandler.ListMine)
	postRoutes.Get("/admin/all", requireAuth, adminOnly, postHandler.ListAll)
	postRoutes.Get("/author/:authorId", requireAuth, postHandler.ListByAuthor)
	postRoutes.Get("/:id", postHandler.Get)
	postRoutes.Patch("/:id", requireAuth, postHandler.Update)
	postRoutes.Delete("/:id", requireAuth, postHandler.Delete)
	postRoutes.Post("/:id/publish", requireAuth, postHandler.Publish)
	postRoutes.Post("/:id/unpublish", requireAuth, postHandler.Unpublish)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return web.ErrRouteMissing
	})
}
