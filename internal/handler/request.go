package handler

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cuti-dinas-backend/internal/middleware"
	"cuti-dinas-backend/internal/repository"
	"cuti-dinas-backend/internal/usecase"
	"cuti-dinas-backend/internal/validation"
	"cuti-dinas-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

func actorOf(c *fiber.Ctx) workflow.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

func paramID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// listFilter membaca ?page=&per_page=&q=&status= dari query string.
func listFilter(c *fiber.Ctx) usecase.ListFilter {
	return usecase.ListFilter{
		Status: c.Query("status"),
		Search: strings.TrimSpace(c.Query("q")),
		Page: repository.Page{
			Page:    c.QueryInt("page", 1),
			PerPage: c.QueryInt("per_page", repository.DefaultPerPage),
		},
	}
}

var errBadUpload = errors.New("form multipart tidak valid")

// readBerkas mengambil file opsional dari form multipart. Isi tidak dibaca
// bila ukuran melebihi maxBytes, pemeriksaan ukuran dilakukan di validation.
// Hanya body non-multipart yang berarti tanpa berkas; multipart yang rusak
// menghasilkan errBadUpload.
func readBerkas(c *fiber.Ctx, field string, maxBytes int64) (*validation.Berkas, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadUpload, err)
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	fh := files[0]
	b := &validation.Berkas{Nama: fh.Filename, Ukuran: fh.Size}
	if maxBytes > 0 && fh.Size > maxBytes {
		return b, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("buka berkas unggahan: %w", err)
	}
	defer f.Close()
	b.Data, err = io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("baca berkas unggahan: %w", err)
	}
	return b, nil
}

// formUints mengumpulkan angka dari field berulang (peserta=1&peserta=2),
// notasi peserta[] maupun daftar dipisah koma.
func formUints(c *fiber.Ctx, field string) ([]uint, error) {
	var raw []string
	if form, err := c.MultipartForm(); err == nil {
		raw = append(raw, form.Value[field]...)
		raw = append(raw, form.Value[field+"[]"]...)
	} else if v := c.FormValue(field); v != "" {
		raw = append(raw, v)
	}

	var out []uint
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.ParseUint(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("nilai %q bukan id", part)
			}
			out = append(out, uint(n))
		}
	}
	return out, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// reviewRequest menerima status_verifikasi (klien REST) atau aksi.
type reviewRequest struct {
	StatusVerifikasi string `json:"status_verifikasi" form:"status_verifikasi"`
	Aksi             string `json:"aksi" form:"aksi"`
	Catatan          string `json:"catatan" form:"catatan"`
}

func (r reviewRequest) input() usecase.ReviewInput {
	aksi := r.Aksi
	if aksi == "" {
		aksi = r.StatusVerifikasi
	}
	return usecase.ReviewInput{Aksi: aksi, Catatan: r.Catatan}
}
