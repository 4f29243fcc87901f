package database

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/usecase"
	"cuti-dinas-backend/internal/workflow"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed.yaml
var defaultSeed []byte

type InstansiSeed struct {
	Nama      string   `yaml:"nama"`
	UnitKerja []string `yaml:"unit_kerja"`
}

type PegawaiSeed struct {
	NIP       string `yaml:"nip"`
	Nama      string `yaml:"nama"`
	Email     string `yaml:"email"`
	Jabatan   string `yaml:"jabatan"`
	Role      string `yaml:"role"`
	Instansi  string `yaml:"instansi"`
	UnitKerja string `yaml:"unit_kerja"`
	Atasan    string `yaml:"atasan"`
	Password  string `yaml:"password"`

	role workflow.Role
}

type Fixtures struct {
	Instansi []InstansiSeed `yaml:"instansi"`
	Pegawai  []PegawaiSeed  `yaml:"pegawai"`
}

// DefaultFixtures mengembalikan data awal yang ikut dikompilasi.
func DefaultFixtures() (*Fixtures, error) {
	return LoadFixtures(defaultSeed)
}

// LoadFixtures mengurai YAML lalu memeriksa rujukan instansi, unit kerja,
// peran dan atasan sebelum ada yang ditulis ke database.
func LoadFixtures(data []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("urai seed: %w", err)
	}

	units := map[string]map[string]bool{}
	for _, in := range fx.Instansi {
		if in.Nama == "" {
			return nil, errors.New("seed: instansi tanpa nama")
		}
		units[in.Nama] = map[string]bool{}
		for _, u := range in.UnitKerja {
			units[in.Nama][u] = true
		}
	}

	nips := map[string]bool{}
	for i := range fx.Pegawai {
		p := &fx.Pegawai[i]
		if p.NIP == "" || p.Nama == "" || p.Password == "" {
			return nil, fmt.Errorf("seed pegawai #%d: nip, nama dan password wajib diisi", i+1)
		}
		if nips[p.NIP] {
			return nil, fmt.Errorf("seed pegawai %s: NIP ganda", p.NIP)
		}
		nips[p.NIP] = true

		role, err := workflow.ParseRole(p.Role)
		if err != nil {
			return nil, fmt.Errorf("seed pegawai %s: %w", p.NIP, err)
		}
		p.role = role
		unitSet, ok := units[p.Instansi]
		if !ok {
			return nil, fmt.Errorf("seed pegawai %s: instansi %q tidak ada", p.NIP, p.Instansi)
		}
		if p.UnitKerja != "" && !unitSet[p.UnitKerja] {
			return nil, fmt.Errorf("seed pegawai %s: unit kerja %q tidak ada di %s", p.NIP, p.UnitKerja, p.Instansi)
		}
	}
	for _, p := range fx.Pegawai {
		if p.Atasan != "" && !nips[p.Atasan] {
			return nil, fmt.Errorf("seed pegawai %s: atasan %s tidak ada", p.NIP, p.Atasan)
		}
	}
	return &fx, nil
}

// SeedAll menulis fixture secara idempoten dalam satu transaksi. Password
// pegawai yang sudah ada disinkronkan ulang dengan nilai di fixture.
func SeedAll(db *gorm.DB, fx *Fixtures) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// 1. Instansi dan unit kerja
		instansiID := map[string]uint{}
		unitID := map[string]uint{}
		for _, in := range fx.Instansi {
			inst := model.Instansi{NamaInstansi: in.Nama}
			if err := tx.Where(model.Instansi{NamaInstansi: in.Nama}).FirstOrCreate(&inst).Error; err != nil {
				return fmt.Errorf("seed instansi %s: %w", in.Nama, err)
			}
			instansiID[in.Nama] = inst.ID
			for _, nama := range in.UnitKerja {
				unit := model.UnitKerja{InstansiID: inst.ID, NamaUnit: nama}
				if err := tx.Where(model.UnitKerja{InstansiID: inst.ID, NamaUnit: nama}).FirstOrCreate(&unit).Error; err != nil {
					return fmt.Errorf("seed unit kerja %s: %w", nama, err)
				}
				unitID[in.Nama+"/"+nama] = unit.ID
			}
		}

		// 2. Pegawai
		pegawaiID := map[string]uint{}
		for _, s := range fx.Pegawai {
			hashed, err := usecase.HashPassword(s.Password)
			if err != nil {
				return err
			}
			p := model.Pegawai{
				InstansiID:  instansiID[s.Instansi],
				UnitKerjaID: unitID[s.Instansi+"/"+s.UnitKerja],
				Nama:        s.Nama,
				NIP:         s.NIP,
				Password:    hashed,
				Email:       s.Email,
				Jabatan:     s.Jabatan,
				Role:        s.role,
				IsActive:    true,
			}
			if err := tx.Where(model.Pegawai{NIP: s.NIP}).FirstOrCreate(&p).Error; err != nil {
				return fmt.Errorf("seed pegawai %s: %w", s.NIP, err)
			}
			// Paksa password selalu sinkron meskipun pegawai sudah ada
			if err := tx.Model(&p).Update("password", hashed).Error; err != nil {
				return fmt.Errorf("sinkron password %s: %w", s.NIP, err)
			}
			pegawaiID[s.NIP] = p.ID
		}

		// 3. Atasan, setelah semua pegawai punya id
		for _, s := range fx.Pegawai {
			if s.Atasan == "" {
				continue
			}
			atasan := pegawaiID[s.Atasan]
			if err := tx.Model(&model.Pegawai{}).Where("id = ?", pegawaiID[s.NIP]).Update("atasan_id", atasan).Error; err != nil {
				return fmt.Errorf("seed atasan %s: %w", s.NIP, err)
			}
		}
		slog.Info("seeding selesai", "instansi", len(fx.Instansi), "pegawai", len(fx.Pegawai))
		return nil
	})
}
