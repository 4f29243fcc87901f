package handler

import (
	"fmt"
	"net/url"
	"time"

	"cuti-dinas-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type DokumenHandler struct {
	uc *usecase.PengajuanUsecase
}

func NewDokumenHandler(uc *usecase.PengajuanUsecase) *DokumenHandler {
	return &DokumenHandler{uc: uc}
}

type SignedURLDTO struct {
	DokumenID uint      `json:"dokumen_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// URL menerbitkan tautan unduh berumur pendek. Tautan kedaluwarsa harus diminta ulang.
func (h *DokumenHandler) URL(c *fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c)
	}
	signed, err := h.uc.DocumentURL(c.UserContext(), actorOf(c), id)
	if err != nil {
		return respondError(c, err)
	}
	link := fmt.Sprintf("%s/api/dokumen/unduh?token=%s", c.BaseURL(), url.QueryEscape(signed.Token))
	return ok(c, fiber.StatusOK, "Tautan dokumen berhasil dibuat", SignedURLDTO{
		DokumenID: signed.DokumenID,
		URL:       link,
		ExpiresAt: signed.ExpiresAt,
	})
}

// Unduh tidak memakai Auth; token pada query string adalah kredensialnya.
func (h *DokumenHandler) Unduh(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return fail(c, fiber.StatusBadRequest, "Token tidak ditemukan", nil)
	}
	dok, data, err := h.uc.OpenDocument(c.UserContext(), token)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, dok.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", dok.NamaFile))
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(data)
}
