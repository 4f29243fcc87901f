package handler

import (
	"time"

	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/repository"
	"cuti-dinas-backend/internal/usecase"
	"cuti-dinas-backend/internal/validation"
	"cuti-dinas-backend/internal/workflow"

	"github.com/gofiber/fiber/v2"
)

// vocab menentukan kosakata status di balasan. Kosakata REST hanya untuk
// klien lama dan tidak pernah dipakai saat menyimpan.
type vocab bool

const vocabREST vocab = true

func vocabOf(c *fiber.Ctx) vocab {
	return vocab(c.Query("vocab") == "rest")
}

func (v vocab) status(s workflow.Status) string {
	if v == vocabREST {
		return s.REST()
	}
	return string(s)
}

type PegawaiRingkas struct {
	ID          uint   `json:"id"`
	NIP         string `json:"nip"`
	Nama        string `json:"nama"`
	Jabatan     string `json:"jabatan,omitempty"`
	UnitKerjaID uint   `json:"unit_kerja_id"`
	InstansiID  uint   `json:"instansi_id"`
}

func pegawaiRingkas(p *model.Pegawai) *PegawaiRingkas {
	if p == nil {
		return nil
	}
	return &PegawaiRingkas{
		ID:          p.ID,
		NIP:         p.NIP,
		Nama:        p.Nama,
		Jabatan:     p.Jabatan,
		UnitKerjaID: p.UnitKerjaID,
		InstansiID:  p.InstansiID,
	}
}

type ProfilDTO struct {
	PegawaiRingkas
	Email     string        `json:"email"`
	Role      workflow.Role `json:"role"`
	Instansi  string        `json:"instansi,omitempty"`
	UnitKerja string        `json:"unit_kerja,omitempty"`
}

func profil(p *model.Pegawai) ProfilDTO {
	out := ProfilDTO{PegawaiRingkas: *pegawaiRingkas(p), Email: p.Email, Role: p.Role}
	if p.Instansi != nil {
		out.Instansi = p.Instansi.NamaInstansi
	}
	if p.UnitKerja != nil {
		out.UnitKerja = p.UnitKerja.NamaUnit
	}
	return out
}

type DokumenDTO struct {
	ID        uint      `json:"id"`
	NamaFile  string    `json:"nama_file"`
	MimeType  string    `json:"mime_type"`
	Ukuran    int64     `json:"ukuran"`
	CreatedAt time.Time `json:"created_at"`
}

func dokumen(d *model.DokumenPendukung) *DokumenDTO {
	if d == nil {
		return nil
	}
	return &DokumenDTO{ID: d.ID, NamaFile: d.NamaFile, MimeType: d.MimeType, Ukuran: d.Ukuran, CreatedAt: d.CreatedAt}
}

type PeninjauanDTO struct {
	VerifikatorID      *uint      `json:"verifikator_id"`
	CatatanVerifikator *string    `json:"catatan_verifikator"`
	DiverifikasiPada   *time.Time `json:"diverifikasi_pada"`
	SupervisorID       *uint      `json:"supervisor_id"`
	CatatanSupervisor  *string    `json:"catatan_supervisor"`
	DiputuskanPada     *time.Time `json:"diputuskan_pada"`
}

func peninjauan(p model.Peninjauan) PeninjauanDTO {
	return PeninjauanDTO{
		VerifikatorID:      p.VerifikatorID,
		CatatanVerifikator: p.CatatanVerifikator,
		DiverifikasiPada:   p.DiverifikasiPada,
		SupervisorID:       p.SupervisorID,
		CatatanSupervisor:  p.CatatanSupervisor,
		DiputuskanPada:     p.DiputuskanPada,
	}
}

type CutiDTO struct {
	ID          uint            `json:"id"`
	PegawaiID   uint            `json:"pegawai_id"`
	Pegawai     *PegawaiRingkas `json:"pegawai,omitempty"`
	JenisCuti   string          `json:"jenis_cuti"`
	Alasan      string          `json:"alasan"`
	TglMulai    string          `json:"tgl_mulai"`
	TglSelesai  string          `json:"tgl_selesai"`
	Status      string          `json:"status"`
	StatusLabel string          `json:"status_label"`
	PeninjauanDTO
	Dokumen   *DokumenDTO `json:"dokumen"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func cutiDTO(v vocab, c *model.PengajuanCuti) CutiDTO {
	return CutiDTO{
		ID:            c.ID,
		PegawaiID:     c.PegawaiID,
		Pegawai:       pegawaiRingkas(c.Pegawai),
		JenisCuti:     c.JenisCuti,
		Alasan:        c.Alasan,
		TglMulai:      c.TglMulai.Format(validation.DateLayout),
		TglSelesai:    c.TglSelesai.Format(validation.DateLayout),
		Status:        v.status(c.Status),
		StatusLabel:   c.Status.Label(),
		PeninjauanDTO: peninjauan(c.Peninjauan),
		Dokumen:       dokumen(c.Dokumen),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type DinasDTO struct {
	ID          uint             `json:"id"`
	PegawaiID   uint             `json:"pegawai_id"`
	Pegawai     *PegawaiRingkas  `json:"pegawai,omitempty"`
	Tujuan      string           `json:"tujuan"`
	Keperluan   string           `json:"keperluan"`
	TglMulai    time.Time        `json:"tgl_mulai"`
	TglSelesai  time.Time        `json:"tgl_selesai"`
	Peserta     []PegawaiRingkas `json:"peserta"`
	Status      string           `json:"status"`
	StatusLabel string           `json:"status_label"`
	PeninjauanDTO
	Dokumen   *DokumenDTO `json:"dokumen"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func dinasDTO(v vocab, d *model.PengajuanDinas) DinasDTO {
	peserta := make([]PegawaiRingkas, 0, len(d.Peserta))
	for i := range d.Peserta {
		peserta = append(peserta, *pegawaiRingkas(&d.Peserta[i]))
	}
	return DinasDTO{
		ID:            d.ID,
		PegawaiID:     d.PegawaiID,
		Pegawai:       pegawaiRingkas(d.Pegawai),
		Tujuan:        d.Tujuan,
		Keperluan:     d.Keperluan,
		TglMulai:      d.TglMulai,
		TglSelesai:    d.TglSelesai,
		Peserta:       peserta,
		Status:        v.status(d.Status),
		StatusLabel:   d.Status.Label(),
		PeninjauanDTO: peninjauan(d.Peninjauan),
		Dokumen:       dokumen(d.Dokumen),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func mapItems[T, D any](items []T, conv func(*T) D) []D {
	out := make([]D, 0, len(items))
	for i := range items {
		out = append(out, conv(&items[i]))
	}
	return out
}

type ReviewDTO struct {
	ID               uint   `json:"id"`
	Jenis            string `json:"jenis"`
	StatusSebelumnya string `json:"status_sebelumnya"`
	Status           string `json:"status"`
	StatusLabel      string `json:"status_label"`
}

func reviewDTO(v vocab, r usecase.ReviewResult) ReviewDTO {
	return ReviewDTO{
		ID:               r.ID,
		Jenis:            string(r.Jenis),
		StatusSebelumnya: v.status(r.From),
		Status:           v.status(r.Status),
		StatusLabel:      r.Status.Label(),
	}
}

type RekapDTO struct {
	PerStatus map[string]int64 `json:"per_status"`
	Total     int64            `json:"total"`
}

// rekap menjumlahkan per kosakata; dalam kosakata REST beberapa status
// penyimpanan jatuh ke label yang sama.
func rekap(v vocab, counts repository.StatusCounts) RekapDTO {
	per := make(map[string]int64, len(counts))
	for st, n := range counts {
		per[v.status(st)] += n
	}
	return RekapDTO{PerStatus: per, Total: counts.Total()}
}

type DashboardDTO struct {
	Cuti               RekapDTO `json:"cuti"`
	Dinas              RekapDTO `json:"dinas"`
	AntreanVerifikasi  int64    `json:"antrean_verifikasi"`
	AntreanPersetujuan int64    `json:"antrean_persetujuan"`
}
