package model

import (
	"cuti-dinas-backend/internal/workflow"

	"gorm.io/gorm"
)

type Instansi struct {
	gorm.Model
	NamaInstansi string      `json:"nama_instansi" gorm:"size:150;not null;unique"`
	UnitKerja    []UnitKerja `json:"unit_kerja,omitempty"`
}

func (Instansi) TableName() string { return "instansi" }

type UnitKerja struct {
	gorm.Model
	InstansiID uint   `json:"instansi_id" gorm:"index;not null"`
	NamaUnit   string `json:"nama_unit" gorm:"size:150;not null"`
}

func (UnitKerja) TableName() string { return "unit_kerja" }

// Pegawai menyimpan data kepegawaian sekaligus identitas login.
type Pegawai struct {
	gorm.Model
	InstansiID  uint          `json:"instansi_id" gorm:"index"`
	UnitKerjaID uint          `json:"unit_kerja_id" gorm:"index"`
	AtasanID    *uint         `json:"atasan_id"`
	Nama        string        `json:"nama" gorm:"size:150;not null"`
	NIP         string        `json:"nip" gorm:"column:nip;size:32;unique;not null"`
	Password    string        `json:"-"`
	Email       string        `json:"email" gorm:"size:150"`
	Jabatan     string        `json:"jabatan" gorm:"size:150"`
	Role        workflow.Role `json:"role" gorm:"size:32;not null;default:pegawai"`
	IsActive    bool          `json:"is_active" gorm:"default:true"`

	// Relasi
	Instansi  *Instansi  `json:"instansi,omitempty" gorm:"foreignKey:InstansiID"`
	UnitKerja *UnitKerja `json:"unit_kerja,omitempty" gorm:"foreignKey:UnitKerjaID"`
}

func (Pegawai) TableName() string { return "pegawai" }

// Actor memproyeksikan pegawai ke identitas yang dipakai pemeriksaan hak akses.
func (p Pegawai) Actor() workflow.Actor {
	return workflow.Actor{
		ID:          p.ID,
		Role:        p.Role,
		UnitKerjaID: p.UnitKerjaID,
		InstansiID:  p.InstansiID,
	}
}
