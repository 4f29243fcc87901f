package handler

import (
	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/usecase"
	"cuti-dinas-backend/internal/validation"
	"cuti-dinas-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

type CutiHandler struct {
	uc        *usecase.PengajuanUsecase
	maxUpload int64
}

func NewCutiHandler(uc *usecase.PengajuanUsecase, maxUpload int64) *CutiHandler {
	return &CutiHandler{uc: uc, maxUpload: maxUpload}
}

// Ajukan menerima form multipart dengan file opsional pada field "dokumen".
func (h *CutiHandler) Ajukan(c *fiber.Ctx) error {
	var req validation.CutiInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	berkas, err := readBerkas(c, "dokumen", h.maxUpload)
	if err != nil {
		return respondError(c, err)
	}

	cuti, err := h.uc.SubmitCuti(c.UserContext(), actorOf(c), req, berkas)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, "Pengajuan cuti berhasil dikirim", cutiDTO(vocabOf(c), cuti))
}

func (h *CutiHandler) Detail(c *fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c)
	}
	cuti, err := h.uc.GetCuti(c.UserContext(), actorOf(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "Berhasil mengambil detail cuti", cutiDTO(vocabOf(c), cuti))
}

func (h *CutiHandler) Saya(c *fiber.Ctx) error {
	page, err := h.uc.ListCutiSaya(c.UserContext(), actorOf(c), listFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return h.respondPage(c, "Berhasil mengambil riwayat cuti", page)
}

func (h *CutiHandler) AntreanVerifikasi(c *fiber.Ctx) error {
	return h.antrean(c, workflow.StepVerifikasi, "Berhasil mengambil antrean verifikasi cuti")
}

func (h *CutiHandler) AntreanPersetujuan(c *fiber.Ctx) error {
	return h.antrean(c, workflow.StepPersetujuan, "Berhasil mengambil antrean persetujuan cuti")
}

func (h *CutiHandler) antrean(c *fiber.Ctx, step workflow.Step, message string) error {
	page, err := h.uc.InboxCuti(c.UserContext(), actorOf(c), step, listFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return h.respondPage(c, message, page)
}

func (h *CutiHandler) respondPage(c *fiber.Ctx, message string, page usecase.Paged[model.PengajuanCuti]) error {
	v := vocabOf(c)
	items := mapItems(page.Items, func(x *model.PengajuanCuti) CutiDTO { return cutiDTO(v, x) })
	return okPage(c, message, items, metaOf(page))
}

func (h *CutiHandler) Verifikasi(c *fiber.Ctx) error {
	return review(c, h.uc, model.JenisCuti, workflow.StepVerifikasi)
}

func (h *CutiHandler) Persetujuan(c *fiber.Ctx) error {
	return review(c, h.uc, model.JenisCuti, workflow.StepPersetujuan)
}

func review(c *fiber.Ctx, uc *usecase.PengajuanUsecase, jenis model.JenisPengajuan, step workflow.Step) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c)
	}
	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	res, err := uc.Review(c.UserContext(), actorOf(c), jenis, id, step, req.input())
	if err != nil {
		return respondError(c, err)
	}
	message := "Pengajuan berhasil disetujui"
	if res.Status == workflow.StatusDitolakVerifikator || res.Status == workflow.StatusDitolakSupervisor {
		message = "Pengajuan berhasil ditolak"
	}
	return ok(c, fiber.StatusOK, message, reviewDTO(vocabOf(c), res))
}
