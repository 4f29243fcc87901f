package routes

import (
	"cuti-dinas-backend/internal/handler"
	"cuti-dinas-backend/internal/middleware"
	"cuti-dinas-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

func SetupCutiRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewCutiHandler(d.Pengajuan, d.MaxUpload)

	api := app.Group("/api/cuti", middleware.Auth(d.Tokens))

	// Endpoint untuk Pegawai
	api.Post("/", middleware.RequireCapability(workflow.CapSubmit), hdl.Ajukan)
	api.Get("/saya", hdl.Saya)

	// Antrean peninjau (harus didaftarkan sebelum /:id)
	api.Get("/verifikasi", middleware.RequireCapability(workflow.CapVerify), hdl.AntreanVerifikasi)
	api.Get("/persetujuan", middleware.RequireCapability(workflow.CapApprove), hdl.AntreanPersetujuan)

	api.Get("/:id", hdl.Detail)
	api.Post("/:id/verifikasi", middleware.RequireCapability(workflow.CapVerify), hdl.Verifikasi)
	api.Post("/:id/persetujuan", middleware.RequireCapability(workflow.CapApprove), hdl.Persetujuan)
}
