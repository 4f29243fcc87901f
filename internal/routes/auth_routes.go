package routes

import (
	"cuti-dinas-backend/internal/handler"
	"cuti-dinas-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewAuthHandler(d.Auth)

	app.Post("/api/login", hdl.Login)
	app.Get("/api/profile", middleware.Auth(d.Tokens), hdl.Profile)
}
