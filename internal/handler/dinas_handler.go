package handler

import (
	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/usecase"
	"cuti-dinas-backend/internal/validation"
	"cuti-dinas-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

type DinasHandler struct {
	uc        *usecase.PengajuanUsecase
	maxUpload int64
}

func NewDinasHandler(uc *usecase.PengajuanUsecase, maxUpload int64) *DinasHandler {
	return &DinasHandler{uc: uc, maxUpload: maxUpload}
}

// dinasRequest: peserta dari form dibaca terpisah lewat formUints.
type dinasRequest struct {
	Tujuan     string `json:"tujuan" form:"tujuan"`
	Keperluan  string `json:"keperluan" form:"keperluan"`
	TglMulai   string `json:"tgl_mulai" form:"tgl_mulai"`
	TglSelesai string `json:"tgl_selesai" form:"tgl_selesai"`
	Peserta    []uint `json:"peserta" form:"-"`
}

func (h *DinasHandler) Ajukan(c *fiber.Ctx) error {
	var req dinasRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}
	if isMultipart(c) {
		ids, err := formUints(c, "peserta")
		if err != nil {
			errs := validation.FieldErrors{}
			errs.Add("peserta", "Peserta harus berupa id pegawai")
			return fail(c, fiber.StatusUnprocessableEntity, "Periksa kembali data yang diisi", errs)
		}
		req.Peserta = ids
	}
	berkas, err := readBerkas(c, "dokumen", h.maxUpload)
	if err != nil {
		return respondError(c, err)
	}

	in := validation.DinasInput{
		Tujuan:     req.Tujuan,
		Keperluan:  req.Keperluan,
		TglMulai:   req.TglMulai,
		TglSelesai: req.TglSelesai,
		Peserta:    req.Peserta,
	}
	dinas, err := h.uc.SubmitDinas(c.UserContext(), actorOf(c), in, berkas)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusCreated, "Pengajuan perjalanan dinas berhasil dikirim", dinasDTO(vocabOf(c), dinas))
}

func (h *DinasHandler) Detail(c *fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c)
	}
	dinas, err := h.uc.GetDinas(c.UserContext(), actorOf(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, fiber.StatusOK, "Berhasil mengambil detail perjalanan dinas", dinasDTO(vocabOf(c), dinas))
}

// Saya juga memuat perjalanan dinas di mana pengguna menjadi peserta.
func (h *DinasHandler) Saya(c *fiber.Ctx) error {
	page, err := h.uc.ListDinasSaya(c.UserContext(), actorOf(c), listFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return h.respondPage(c, "Berhasil mengambil riwayat perjalanan dinas", page)
}

func (h *DinasHandler) AntreanVerifikasi(c *fiber.Ctx) error {
	return h.antrean(c, workflow.StepVerifikasi, "Berhasil mengambil antrean verifikasi perjalanan dinas")
}

func (h *DinasHandler) AntreanPersetujuan(c *fiber.Ctx) error {
	return h.antrean(c, workflow.StepPersetujuan, "Berhasil mengambil antrean persetujuan perjalanan dinas")
}

func (h *DinasHandler) antrean(c *fiber.Ctx, step workflow.Step, message string) error {
	page, err := h.uc.InboxDinas(c.UserContext(), actorOf(c), step, listFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return h.respondPage(c, message, page)
}

func (h *DinasHandler) respondPage(c *fiber.Ctx, message string, page usecase.Paged[model.PengajuanDinas]) error {
	v := vocabOf(c)
	items := mapItems(page.Items, func(x *model.PengajuanDinas) DinasDTO { return dinasDTO(v, x) })
	return okPage(c, message, items, metaOf(page))
}

func (h *DinasHandler) Verifikasi(c *fiber.Ctx) error {
	return review(c, h.uc, model.JenisDinas, workflow.StepVerifikasi)
}

func (h *DinasHandler) Persetujuan(c *fiber.Ctx) error {
	return review(c, h.uc, model.JenisDinas, workflow.StepPersetujuan)
}
