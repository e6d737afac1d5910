package router

import (
	"wayfare/internal/account/app"
	"wayfare/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes register the account endpoints
func RegisterRoutes(r *fiber.App, accountHandler *app.AccountHandler) {
	accounts := r.Group("/accounts")
	accounts.Post("/register", accountHandler.Register)
	accounts.Post("/login", accountHandler.Login)
	accounts.Post("/logout", middlewares.JWTMiddleware(), accountHandler.Logout)
	accounts.Put("/session/refresh", middlewares.JWTMiddleware(), accountHandler.RefreshSession)
	accounts.Get("/me", middlewares.JWTMiddleware(), accountHandler.Me)

	r.Get("/users/:id/profile", middlewares.JWTMiddleware(), accountHandler.Profile)
}
