package validation

import (
	"strings"
	"time"
)

// CutiInput adalah data form pengajuan cuti.
type CutiInput struct {
	JenisCuti  string `json:"jenis_cuti" form:"jenis_cuti" validate:"required,jenis_cuti"`
	Alasan     string `json:"alasan" form:"alasan" validate:"required,min=10,max=2000"`
	TglMulai   string `json:"tgl_mulai" form:"tgl_mulai" validate:"required,datetime=2006-01-02"`
	TglSelesai string `json:"tgl_selesai" form:"tgl_selesai" validate:"required,datetime=2006-01-02"`
}

// DinasInput adalah data form pengajuan perjalanan dinas.
type DinasInput struct {
	Tujuan     string `json:"tujuan" form:"tujuan" validate:"required,max=255"`
	Keperluan  string `json:"keperluan" form:"keperluan" validate:"required,min=10,max=2000"`
	TglMulai   string `json:"tgl_mulai" form:"tgl_mulai" validate:"required,tanggal_waktu"`
	TglSelesai string `json:"tgl_selesai" form:"tgl_selesai" validate:"required,tanggal_waktu"`
	Peserta    []uint `json:"peserta" form:"peserta" validate:"dive,gt=0"`
}

// Rentang adalah rentang waktu yang sudah lolos validasi.
type Rentang struct {
	Mulai   time.Time
	Selesai time.Time
}

// ValidateCuti: tanggal selesai boleh sama dengan tanggal mulai.
func ValidateCuti(in CutiInput) (Rentang, FieldErrors) {
	in.JenisCuti = strings.TrimSpace(in.JenisCuti)
	in.Alasan = strings.TrimSpace(in.Alasan)
	fields := structErrors(in)

	var r Rentang
	mulai, errMulai := ParseDate(in.TglMulai)
	selesai, errSelesai := ParseDate(in.TglSelesai)
	if errMulai == nil && errSelesai == nil {
		if selesai.Before(mulai) {
			fields.Add("tgl_selesai", "Tanggal selesai tidak boleh sebelum tanggal mulai")
		}
		r = Rentang{Mulai: mulai, Selesai: selesai}
	}
	return r, fields
}

// ValidateDinas: tanggal selesai harus setelah tanggal mulai.
func ValidateDinas(in DinasInput) (Rentang, FieldErrors) {
	in.Tujuan = strings.TrimSpace(in.Tujuan)
	in.Keperluan = strings.TrimSpace(in.Keperluan)
	fields := structErrors(in)

	var r Rentang
	mulai, errMulai := ParseDateTime(in.TglMulai)
	selesai, errSelesai := ParseDateTime(in.TglSelesai)
	if errMulai == nil && errSelesai == nil {
		if !selesai.After(mulai) {
			fields.Add("tgl_selesai", "Tanggal selesai harus setelah tanggal mulai")
		}
		r = Rentang{Mulai: mulai, Selesai: selesai}
	}
	return r, fields
}

// PesertaUnik membuang duplikat dan memastikan pengaju ikut sebagai peserta.
func PesertaUnik(pengajuID uint, peserta []uint) []uint {
	seen := map[uint]bool{pengajuID: true}
	out := []uint{pengajuID}
	for _, id := range peserta {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
