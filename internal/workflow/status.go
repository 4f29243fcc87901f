package workflow

import (
	"fmt"
	"strings"
)

// Status adalah status siklus hidup sebuah pengajuan (cuti maupun dinas).
// Nilainya disimpan apa adanya di kolom status.
type Status string

const (
	StatusMenungguVerifikasi  Status = "menunggu_verifikasi"
	StatusDitolakVerifikator  Status = "ditolak_verifikator"
	StatusMenungguPersetujuan Status = "menunggu_persetujuan"
	StatusDitolakSupervisor   Status = "ditolak_supervisor"
	StatusDisetujui           Status = "disetujui"
)

// Label status versi REST (klien lama). Kosakata ini lebih kasar dari status
// penyimpanan, jadi hanya dipakai saat render, tidak pernah disimpan.
const (
	RESTDiajukan  = "Diajukan"
	RESTDitolak   = "Ditolak"
	RESTDisetujui = "Disetujui"
)

var allStatuses = []Status{
	StatusMenungguVerifikasi,
	StatusDitolakVerifikator,
	StatusMenungguPersetujuan,
	StatusDitolakSupervisor,
	StatusDisetujui,
}

// Statuses mengembalikan seluruh status yang dikenal sesuai urutan alur.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus hanya menerima kosakata penyimpanan.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if !st.Valid() {
		return "", fmt.Errorf("status %q tidak dikenal", s)
	}
	return st, nil
}

// ParseStatusFilter menerima status penyimpanan maupun label REST untuk
// filter daftar. Satu label REST bisa mencakup beberapa status penyimpanan.
func ParseStatusFilter(s string) ([]Status, error) {
	s = strings.TrimSpace(s)
	if st := Status(s); st.Valid() {
		return []Status{st}, nil
	}
	var out []Status
	for _, st := range allStatuses {
		if strings.EqualFold(st.REST(), s) {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("status %q tidak dikenal", s)
	}
	return out, nil
}

func (s Status) Valid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal bernilai true untuk status yang tidak bisa berubah lagi.
func (s Status) Terminal() bool {
	switch s {
	case StatusDitolakVerifikator, StatusDitolakSupervisor, StatusDisetujui:
		return true
	}
	return false
}

// REST menerjemahkan status ke kosakata klien REST.
func (s Status) REST() string {
	switch s {
	case StatusDisetujui:
		return RESTDisetujui
	case StatusDitolakVerifikator, StatusDitolakSupervisor:
		return RESTDitolak
	case StatusMenungguVerifikasi, StatusMenungguPersetujuan:
		return RESTDiajukan
	}
	return ""
}

// Label adalah teks yang ramah dibaca untuk tampilan.
func (s Status) Label() string {
	switch s {
	case StatusMenungguVerifikasi:
		return "Menunggu Verifikasi"
	case StatusDitolakVerifikator:
		return "Ditolak Verifikator"
	case StatusMenungguPersetujuan:
		return "Menunggu Persetujuan"
	case StatusDitolakSupervisor:
		return "Ditolak Supervisor"
	case StatusDisetujui:
		return "Disetujui"
	}
	return string(s)
}
