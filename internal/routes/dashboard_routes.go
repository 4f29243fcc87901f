package routes

import (
	"cuti-dinas-backend/internal/handler"
	"cuti-dinas-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewDashboardHandler(d.Pengajuan)

	app.Get("/api/dashboard", middleware.Auth(d.Tokens), hdl.GetStats)
}
