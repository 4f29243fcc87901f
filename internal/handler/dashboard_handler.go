package handler

import (
	"cuti-dinas-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	uc *usecase.PengajuanUsecase
}

func NewDashboardHandler(uc *usecase.PengajuanUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	d, err := h.uc.Dashboard(c.UserContext(), actorOf(c))
	if err != nil {
		return respondError(c, err)
	}
	v := vocabOf(c)
	return ok(c, fiber.StatusOK, "Berhasil mengambil statistik", DashboardDTO{
		Cuti:               rekap(v, d.Cuti),
		Dinas:              rekap(v, d.Dinas),
		AntreanVerifikasi:  d.AntreanVerifikasi,
		AntreanPersetujuan: d.AntreanPersetujuan,
	})
}
