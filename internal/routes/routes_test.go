package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cuti-dinas-backend/internal/auth"
	"cuti-dinas-backend/internal/handler"
	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/notifier"
	"cuti-dinas-backend/internal/repository/repositorytest"
	"cuti-dinas-backend/internal/storage"
	"cuti-dinas-backend/internal/usecase"
	"cuti-dinas-backend/internal/validation"
	"cuti-dinas-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

const password = "rahasia123"

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Meta    *handler.Meta       `json:"meta"`
	Errors  map[string][]string `json:"errors"`
}

type testServer struct {
	app   *fiber.App
	store *repositorytest.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	files, err := storage.NewAFSStore(context.Background(), filepath.Join(t.TempDir(), "dokumen"))
	require.NoError(t, err)

	store := repositorytest.New()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	for _, p := range []model.Pegawai{
		{Nama: "Budi Santoso", NIP: "199001012015011001", Role: workflow.RolePegawai, UnitKerjaID: 10, InstansiID: 1},
		{Nama: "Sari Dewi", NIP: "199202022016022002", Role: workflow.RolePegawai, UnitKerjaID: 10, InstansiID: 1},
		{Nama: "Rina Verifikator", NIP: "198503032010032003", Role: workflow.RoleVerifikatorUnit, UnitKerjaID: 10, InstansiID: 1},
		{Nama: "Ibu Kepala", NIP: "197001012000012001", Role: workflow.RolePimpinan, UnitKerjaID: 1, InstansiID: 1},
	} {
		p.Password = string(hash)
		p.IsActive = true
		store.AddPegawai(p)
	}

	tokens := auth.NewTokenManager("rahasia-uji", time.Hour)
	pengajuan := usecase.NewPengajuanUsecase(store, files, storage.NewURLSigner("rahasia-url", 0), notifier.Nop{}, validation.DefaultEvidenceRules())

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	Setup(app, Deps{
		Pengajuan: pengajuan,
		Auth:      usecase.NewAuthUsecase(store.Pegawai(), tokens),
		Tokens:    tokens,
		MaxUpload: validation.DefaultMaxUploadBytes,
	})
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, req *http.Request, token string) (int, envelope, []byte) {
	t.Helper()
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env, raw
}

func jsonRequest(method, target string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func multipartRequest(t *testing.T, target string, fields map[string][]string, fileName string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("dokumen", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(fiber.MethodPost, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func (s *testServer) login(t *testing.T, nip string) string {
	t.Helper()
	code, env, _ := s.do(t, jsonRequest(fiber.MethodPost, "/api/login", map[string]string{"nip": nip, "password": password}), "")
	require.Equal(t, fiber.StatusOK, code, env.Message)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func cutiFields() map[string][]string {
	return map[string][]string{
		"jenis_cuti":  {"Cuti Tahunan"},
		"alasan":      {"Menghadiri pernikahan keluarga"},
		"tgl_mulai":   {"2025-11-06"},
		"tgl_selesai": {"2025-11-08"},
	}
}

func TestLoginRoutes(t *testing.T) {
	s := newTestServer(t)

	code, env, _ := s.do(t, jsonRequest(fiber.MethodPost, "/api/login", map[string]string{"nip": "199001012015011001", "password": "salah"}), "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.False(t, env.Success)

	token := s.login(t, "199001012015011001")
	code, env, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/profile", nil), token)
	require.Equal(t, fiber.StatusOK, code)
	profil := decode[handler.ProfilDTO](t, env.Data)
	assert.Equal(t, "Budi Santoso", profil.Nama)
	assert.Equal(t, workflow.RolePegawai, profil.Role)

	code, _, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/profile", nil), "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestCutiFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	pegawai := s.login(t, "199001012015011001")
	verifikator := s.login(t, "198503032010032003")
	pimpinan := s.login(t, "197001012000012001")

	// Ajukan
	code, env, _ := s.do(t, multipartRequest(t, "/api/cuti", cutiFields(), "surat.pdf", pdfBytes), pegawai)
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	cuti := decode[handler.CutiDTO](t, env.Data)
	assert.Equal(t, string(workflow.StatusMenungguVerifikasi), cuti.Status)
	assert.Equal(t, "2025-11-06", cuti.TglMulai)
	require.NotNil(t, cuti.Dokumen)
	assert.Equal(t, "application/pdf", cuti.Dokumen.MimeType)

	// Riwayat
	code, env, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/cuti/saya?page=1&per_page=5", nil), pegawai)
	require.Equal(t, fiber.StatusOK, code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)
	assert.Equal(t, 5, env.Meta.PerPage)

	code, env, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/cuti/saya?status=Diajukan&q=tahunan", nil), pegawai)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, int64(1), env.Meta.Total)

	code, env, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/cuti/saya?q=tidak-ada-yang-cocok", nil), pegawai)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, int64(0), env.Meta.Total)

	// Pegawai biasa tidak punya antrean
	code, _, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/cuti/verifikasi", nil), pegawai)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, env, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/cuti/verifikasi", nil), verifikator)
	require.Equal(t, fiber.StatusOK, code)
	antrean := decode[[]handler.CutiDTO](t, env.Data)
	require.Len(t, antrean, 1)
	assert.Equal(t, cuti.ID, antrean[0].ID)

	// Verifikasi dengan kosakata REST
	target := fmt.Sprintf("/api/cuti/%d/verifikasi", cuti.ID)
	code, env, _ = s.do(t, jsonRequest(fiber.MethodPost, target, map[string]string{"status_verifikasi": "Disetujui", "catatan": "lengkap"}), verifikator)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	review := decode[handler.ReviewDTO](t, env.Data)
	assert.Equal(t, string(workflow.StatusMenungguPersetujuan), review.Status)

	// Verifikasi kedua ditolak karena status sudah berubah
	code, _, _ = s.do(t, jsonRequest(fiber.MethodPost, target, map[string]string{"aksi": "setuju"}), verifikator)
	assert.Equal(t, fiber.StatusConflict, code)

	// Verifikator tidak boleh memberi persetujuan
	approve := fmt.Sprintf("/api/cuti/%d/persetujuan?vocab=rest", cuti.ID)
	code, _, _ = s.do(t, jsonRequest(fiber.MethodPost, approve, map[string]string{"aksi": "setuju"}), verifikator)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, env, _ = s.do(t, jsonRequest(fiber.MethodPost, approve, map[string]string{"aksi": "setuju"}), pimpinan)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	review = decode[handler.ReviewDTO](t, env.Data)
	assert.Equal(t, workflow.RESTDisetujui, review.Status)
	assert.Equal(t, workflow.RESTDiajukan, review.StatusSebelumnya)

	code, env, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, fmt.Sprintf("/api/cuti/%d", cuti.ID), nil), pegawai)
	require.Equal(t, fiber.StatusOK, code)
	detail := decode[handler.CutiDTO](t, env.Data)
	assert.Equal(t, string(workflow.StatusDisetujui), detail.Status)
	require.NotNil(t, detail.CatatanVerifikator)
	assert.Equal(t, "lengkap", *detail.CatatanVerifikator)
	assert.NotNil(t, detail.DiputuskanPada)
}

func TestCutiValidationOverHTTP(t *testing.T) {
	s := newTestServer(t)
	pegawai := s.login(t, "199001012015011001")

	fields := cutiFields()
	fields["tgl_selesai"] = []string{"2025-11-01"}
	delete(fields, "alasan")
	code, env, _ := s.do(t, multipartRequest(t, "/api/cuti", fields, "", nil), pegawai)
	require.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "alasan")
	assert.Contains(t, env.Errors, "tgl_selesai")

	code, env, _ = s.do(t, multipartRequest(t, "/api/cuti", cutiFields(), "catatan.txt", []byte("teks biasa")), pegawai)
	require.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "dokumen")
	assert.Equal(t, 0, s.store.CountCuti())

	code, _, _ = s.do(t, jsonRequest(fiber.MethodPost, "/api/cuti/1/verifikasi", map[string]string{"aksi": "setuju"}), s.login(t, "198503032010032003"))
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/cuti/saya?status=entah", nil), pegawai)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
}

func TestDinasOverHTTP(t *testing.T) {
	s := newTestServer(t)
	pegawai := s.login(t, "199001012015011001")
	rekan := s.login(t, "199202022016022002")

	fields := map[string][]string{
		"tujuan":      {"Jakarta"},
		"keperluan":   {"Rapat koordinasi anggaran"},
		"tgl_mulai":   {"2025-11-10T08:00"},
		"tgl_selesai": {"2025-11-12T17:00"},
		"peserta":     {"2,2"},
	}
	code, env, _ := s.do(t, multipartRequest(t, "/api/dinas", fields, "", nil), pegawai)
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	dinas := decode[handler.DinasDTO](t, env.Data)
	assert.Len(t, dinas.Peserta, 2)
	assert.Nil(t, dinas.Dokumen)

	// Peserta melihat perjalanan dinas di riwayatnya
	code, env, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/dinas/saya", nil), rekan)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, int64(1), env.Meta.Total)

	fields["peserta"] = []string{"dua"}
	code, env, _ = s.do(t, multipartRequest(t, "/api/dinas", fields, "", nil), pegawai)
	require.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "peserta")

	body := map[string]any{
		"tujuan":      "Bandung",
		"keperluan":   "Monitoring kegiatan lapangan",
		"tgl_mulai":   "2025-11-10T08:00",
		"tgl_selesai": "2025-11-10T08:00",
	}
	code, env, _ = s.do(t, jsonRequest(fiber.MethodPost, "/api/dinas", body), pegawai)
	require.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Errors, "tgl_selesai")
}

func TestDokumenDownloadOverHTTP(t *testing.T) {
	s := newTestServer(t)
	pegawai := s.login(t, "199001012015011001")

	code, env, _ := s.do(t, multipartRequest(t, "/api/cuti", cutiFields(), "surat.pdf", pdfBytes), pegawai)
	require.Equal(t, fiber.StatusCreated, code)
	cuti := decode[handler.CutiDTO](t, env.Data)

	// Pegawai di luar jangkauan tidak boleh meminta tautan
	code, _, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, fmt.Sprintf("/api/dokumen/%d/url", cuti.Dokumen.ID), nil), s.login(t, "199202022016022002"))
	assert.Equal(t, fiber.StatusForbidden, code)

	code, env, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, fmt.Sprintf("/api/dokumen/%d/url", cuti.Dokumen.ID), nil), pegawai)
	require.Equal(t, fiber.StatusOK, code)
	signed := decode[handler.SignedURLDTO](t, env.Data)
	require.Contains(t, signed.URL, "/api/dokumen/unduh?token=")

	i := strings.Index(signed.URL, "/api/")
	code, _, raw := s.do(t, httptest.NewRequest(fiber.MethodGet, signed.URL[i:], nil), "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, pdfBytes, raw)

	code, _, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/dokumen/unduh?token=palsu", nil), "")
	assert.Equal(t, fiber.StatusForbidden, code)

	forged, _, err := storage.NewURLSigner("rahasia-lain", 0).Sign(cuti.Dokumen.ID)
	require.NoError(t, err)
	code, _, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/dokumen/unduh?token="+forged, nil), "")
	assert.Equal(t, fiber.StatusForbidden, code)

	past := time.Now().Add(-5 * time.Minute)
	stale, _, err := storage.NewURLSigner("rahasia-url", 0).WithClock(func() time.Time { return past }).Sign(cuti.Dokumen.ID)
	require.NoError(t, err)
	code, _, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/dokumen/unduh?token="+stale, nil), "")
	assert.Equal(t, fiber.StatusGone, code)
}

func TestDashboardOverHTTP(t *testing.T) {
	s := newTestServer(t)
	pegawai := s.login(t, "199001012015011001")
	code, _, _ := s.do(t, multipartRequest(t, "/api/cuti", cutiFields(), "", nil), pegawai)
	require.Equal(t, fiber.StatusCreated, code)

	code, env, _ := s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/dashboard", nil), s.login(t, "198503032010032003"))
	require.Equal(t, fiber.StatusOK, code)
	d := decode[handler.DashboardDTO](t, env.Data)
	assert.Equal(t, int64(1), d.Cuti.PerStatus[string(workflow.StatusMenungguVerifikasi)])
	assert.Equal(t, int64(1), d.AntreanVerifikasi)
	assert.Zero(t, d.AntreanPersetujuan)

	code, env, _ = s.do(t, httptest.NewRequest(fiber.MethodGet, "/api/dashboard?vocab=rest", nil), pegawai)
	require.Equal(t, fiber.StatusOK, code)
	d = decode[handler.DashboardDTO](t, env.Data)
	assert.Equal(t, int64(1), d.Cuti.PerStatus[workflow.RESTDiajukan])
	assert.Equal(t, int64(1), d.Cuti.Total)
}
