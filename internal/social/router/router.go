package router

import (
	"wayfare/internal/social/app"
	"wayfare/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes register the social write endpoints and recovery reads
func RegisterRoutes(r *fiber.App, socialHandler *app.SocialHandler) {
	routes := r.Group("/", middlewares.JWTMiddleware())

	routes.Post("/messages", socialHandler.SendMessage)
	routes.Get("/conversations/:peerId", socialHandler.History)

	routes.Post("/posts/:id/like", socialHandler.Like)
	routes.Post("/posts/:id/comment", socialHandler.Comment)
	routes.Post("/users/:id/follow", socialHandler.Follow)

	routes.Get("/notifications", socialHandler.Notifications)
	routes.Put("/notifications/read-all", socialHandler.MarkAllNotificationsRead)
	routes.Put("/notifications/:id/read", socialHandler.MarkNotificationRead)
}
