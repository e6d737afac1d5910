package router

import (
	"wayfare/internal/realtime/app"
	"wayfare/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes register the live connection endpoint
func RegisterRoutes(r *fiber.App, realtimeWebsocket *app.RealtimeWebsocketHandler) {
	r.Get("/ws", middlewares.JWTMiddleware(), websocket.New(realtimeWebsocket.HandleConnection))
}
