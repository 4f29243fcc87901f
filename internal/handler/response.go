package handler

import (
	"errors"
	"log/slog"

	"cuti-dinas-backend/internal/usecase"
	"cuti-dinas-backend/internal/validation"
	"cuti-dinas-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

// Response adalah bentuk seragam semua balasan API.
type Response struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    any                    `json:"data,omitempty"`
	Meta    *Meta                  `json:"meta,omitempty"`
	Errors  validation.FieldErrors `json:"errors,omitempty"`
}

// Meta adalah informasi paginasi untuk balasan daftar.
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func metaOf[T any](p usecase.Paged[T]) *Meta {
	pages := 0
	if p.Page.PerPage > 0 {
		pages = int((p.Total + int64(p.Page.PerPage) - 1) / int64(p.Page.PerPage))
	}
	return &Meta{Page: p.Page.Page, PerPage: p.Page.PerPage, Total: p.Total, TotalPages: pages}
}

func ok(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Success: true, Message: message, Data: data})
}

func okPage(c *fiber.Ctx, message string, data any, meta *Meta) error {
	return c.Status(fiber.StatusOK).JSON(Response{Success: true, Message: message, Data: data, Meta: meta})
}

func fail(c *fiber.Ctx, status int, message string, errs validation.FieldErrors) error {
	return c.Status(status).JSON(Response{Success: false, Message: message, Errors: errs})
}

func badRequest(c *fiber.Ctx) error {
	return fail(c, fiber.StatusBadRequest, "Data tidak valid", nil)
}

// respondError memetakan error usecase ke status HTTP. Error backend hanya
// dicatat di log, klien menerima pesan umum.
func respondError(c *fiber.Ctx, err error) error {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		return fail(c, fiber.StatusUnprocessableEntity, "Periksa kembali data yang diisi", verr.Fields)
	case errors.Is(err, usecase.ErrUnauthenticated):
		return fail(c, fiber.StatusUnauthorized, "NIP atau password salah", nil)
	case errors.Is(err, usecase.ErrInactive):
		return fail(c, fiber.StatusForbidden, "Akun Anda tidak aktif", nil)
	case errors.Is(err, usecase.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "Anda tidak berhak melakukan aksi ini", nil)
	case errors.Is(err, usecase.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Data tidak ditemukan", nil)
	case errors.Is(err, workflow.ErrConflict):
		return fail(c, fiber.StatusConflict, "Status pengajuan sudah berubah, muat ulang data", nil)
	case errors.Is(err, usecase.ErrLinkExpired):
		return fail(c, fiber.StatusGone, "Tautan dokumen sudah kedaluwarsa, minta tautan baru", nil)
	case errors.Is(err, usecase.ErrInvalidLink):
		return fail(c, fiber.StatusForbidden, "Tautan dokumen tidak valid", nil)
	case errors.Is(err, errBadUpload):
		return badRequest(c)
	}
	slog.ErrorContext(c.UserContext(), "request gagal",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"error", err,
	)
	return fail(c, fiber.StatusInternalServerError, "Terjadi kesalahan pada server, silakan coba lagi", nil)
}

// ErrorHandler dipasang di fiber.Config agar error router dan panic yang
// dipulihkan tetap memakai bentuk Response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fail(c, fe.Code, fe.Message, nil)
	}
	return respondError(c, err)
}
