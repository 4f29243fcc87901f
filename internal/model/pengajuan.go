package model

import (
	"time"

	"cuti-dinas-backend/internal/workflow"
)

// JenisPengajuan membedakan pengajuan cuti dan perjalanan dinas. Nilainya juga
// dipakai sebagai pengajuan_type di dokumen_pendukung dan di path penyimpanan.
type JenisPengajuan string

const (
	JenisCuti  JenisPengajuan = "cuti"
	JenisDinas JenisPengajuan = "dinas"
)

func (j JenisPengajuan) Valid() bool {
	return j == JenisCuti || j == JenisDinas
}

// Peninjauan berisi kolom yang hanya diisi oleh tahap verifikasi dan persetujuan.
type Peninjauan struct {
	CatatanVerifikator *string    `json:"catatan_verifikator" gorm:"type:text"`
	VerifikatorID      *uint      `json:"verifikator_id"`
	DiverifikasiPada   *time.Time `json:"diverifikasi_pada"`
	CatatanSupervisor  *string    `json:"catatan_supervisor" gorm:"type:text"`
	SupervisorID       *uint      `json:"supervisor_id"`
	DiputuskanPada     *time.Time `json:"diputuskan_pada"`
}

type PengajuanCuti struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	PegawaiID  uint            `json:"pegawai_id" gorm:"index;not null"`
	JenisCuti  string          `json:"jenis_cuti" gorm:"size:64;not null"`
	Alasan     string          `json:"alasan" gorm:"type:text"`
	TglMulai   time.Time       `json:"tgl_mulai" gorm:"type:date;not null"`
	TglSelesai time.Time       `json:"tgl_selesai" gorm:"type:date;not null"`
	Status     workflow.Status `json:"status" gorm:"size:32;index;not null;default:menunggu_verifikasi"`
	Peninjauan `gorm:"embedded"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relasi
	Pegawai *Pegawai          `json:"pegawai,omitempty" gorm:"foreignKey:PegawaiID"`
	Dokumen *DokumenPendukung `json:"dokumen,omitempty" gorm:"polymorphic:Pengajuan;polymorphicValue:cuti"`
}

func (PengajuanCuti) TableName() string { return "pengajuan_cuti" }

type PengajuanDinas struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	PegawaiID  uint            `json:"pegawai_id" gorm:"index;not null"`
	Tujuan     string          `json:"tujuan" gorm:"size:255;not null"`
	Keperluan  string          `json:"keperluan" gorm:"type:text"`
	TglMulai   time.Time       `json:"tgl_mulai" gorm:"not null"`
	TglSelesai time.Time       `json:"tgl_selesai" gorm:"not null"`
	Status     workflow.Status `json:"status" gorm:"size:32;index;not null;default:menunggu_verifikasi"`
	Peninjauan `gorm:"embedded"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relasi
	Pegawai *Pegawai          `json:"pegawai,omitempty" gorm:"foreignKey:PegawaiID"`
	Peserta []Pegawai         `json:"peserta,omitempty" gorm:"many2many:pengajuan_dinas_peserta;joinForeignKey:PengajuanDinasID;joinReferences:PegawaiID"`
	Dokumen *DokumenPendukung `json:"dokumen,omitempty" gorm:"polymorphic:Pengajuan;polymorphicValue:dinas"`
}

func (PengajuanDinas) TableName() string { return "pengajuan_dinas" }

// PesertaIDs mengembalikan id seluruh peserta perjalanan dinas.
func (d PengajuanDinas) PesertaIDs() []uint {
	ids := make([]uint, 0, len(d.Peserta))
	for _, p := range d.Peserta {
		ids = append(ids, p.ID)
	}
	return ids
}

// DokumenPendukung adalah bukti yang diunggah untuk tepat satu pengajuan.
type DokumenPendukung struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	PengajuanType JenisPengajuan `json:"pengajuan_type" gorm:"size:16;not null;uniqueIndex:idx_dokumen_pengajuan"`
	PengajuanID   uint           `json:"pengajuan_id" gorm:"not null;uniqueIndex:idx_dokumen_pengajuan"`
	NamaFile      string         `json:"nama_file" gorm:"size:255;not null"`
	Path          string         `json:"-" gorm:"size:512;not null"`
	MimeType      string         `json:"mime_type" gorm:"size:128"`
	Ukuran        int64          `json:"ukuran"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (DokumenPendukung) TableName() string { return "dokumen_pendukung" }
