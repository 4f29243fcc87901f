package routes

import (
	"cuti-dinas-backend/internal/auth"
	"cuti-dinas-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

// Deps adalah dependensi bersama yang dibutuhkan semua route.
type Deps struct {
	Pengajuan *usecase.PengajuanUsecase
	Auth      *usecase.AuthUsecase
	Tokens    *auth.TokenManager
	MaxUpload int64
}

func Setup(app *fiber.App, d Deps) {
	SetupAuthRoutes(app, d)
	SetupCutiRoutes(app, d)
	SetupDinasRoutes(app, d)
	SetupDokumenRoutes(app, d)
	SetupDashboardRoutes(app, d)
}
