package routes

import (
	"cuti-dinas-backend/internal/handler"
	"cuti-dinas-backend/internal/middleware"
	"cuti-dinas-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

func SetupDinasRoutes(app *fiber.App, d Deps) {
	hdl := handler.NewDinasHandler(d.Pengajuan, d.MaxUpload)

	api := app.Group("/api/dinas", middleware.Auth(d.Tokens))

	api.Post("/", middleware.RequireCapability(workflow.CapSubmit), hdl.Ajukan)
	api.Get("/saya", hdl.Saya)

	api.Get("/verifikasi", middleware.RequireCapability(workflow.CapVerify), hdl.AntreanVerifikasi)
	api.Get("/persetujuan", middleware.RequireCapability(workflow.CapApprove), hdl.AntreanPersetujuan)

	api.Get("/:id", hdl.Detail)
	api.Post("/:id/verifikasi", middleware.RequireCapability(workflow.CapVerify), hdl.Verifikasi)
	api.Post("/:id/persetujuan", middleware.RequireCapability(workflow.CapApprove), hdl.Persetujuan)
}
