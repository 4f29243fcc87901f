package routes

import (
	"cuti-dinas-backend/internal/handler"
	"cuti-dinas-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupDokumenRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewDokumenHandler(d.Pengajuan)

	// Unduh dilindungi token bertanda tangan, bukan sesi.
	app.Get("/api/dokumen/unduh", hdl.Unduh)
	app.Get("/api/dokumen/:id/url", middleware.Auth(d.Tokens), hdl.URL)
}
