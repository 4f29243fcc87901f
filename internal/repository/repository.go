package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cuti-dinas-backend/internal/workflow"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("data tidak ditemukan")

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Page adalah parameter paginasi dari query string.
type Page struct {
	Page    int
	PerPage int
}

func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// Scope membatasi baris berdasarkan penempatan pegawai pengaju.
type Scope struct {
	Level       workflow.Scope
	PegawaiID   uint
	UnitKerjaID uint
	InstansiID  uint
}

// ScopeOf menurunkan jangkauan data dari peran actor.
func ScopeOf(a workflow.Actor) Scope {
	return Scope{Level: a.Role.Scope(), PegawaiID: a.ID, UnitKerjaID: a.UnitKerjaID, InstansiID: a.InstansiID}
}

// apply mengharuskan tabel pegawai sudah di-join.
func (s Scope) apply(db *gorm.DB, table string) *gorm.DB {
	switch s.Level {
	case workflow.ScopeAll:
		return db
	case workflow.ScopeInstansi:
		return db.Where("pegawai.instansi_id = ?", s.InstansiID)
	case workflow.ScopeUnit:
		return db.Where("pegawai.unit_kerja_id = ?", s.UnitKerjaID)
	}
	return db.Where(table+".pegawai_id = ?", s.PegawaiID)
}

type ListQuery struct {
	Status workflow.Status
	Scope  Scope
	// ExcludePegawaiID menyembunyikan pengajuan milik peninjau sendiri.
	ExcludePegawaiID uint
	Search           string
	Page             Page
}

// filter menyusun kondisi antrean di atas tabel yang sudah di-join ke pegawai.
func (q ListQuery) filter(db *gorm.DB, table string) *gorm.DB {
	db = db.Joins("JOIN pegawai ON pegawai.id = "+table+".pegawai_id").
		Where(table+".status = ?", q.Status)
	db = q.Scope.apply(db, table)
	if q.ExcludePegawaiID != 0 {
		db = db.Where(table+".pegawai_id <> ?", q.ExcludePegawaiID)
	}
	return searchPegawai(db, q.Search)
}

// SubmitterQuery adalah filter riwayat pengajuan milik satu pegawai.
type SubmitterQuery struct {
	PegawaiID uint
	// Statuses kosong berarti semua status.
	Statuses []workflow.Status
	Search   string
	Page     Page
}

// TransitionUpdate adalah perubahan status hasil satu tahap peninjauan.
type TransitionUpdate struct {
	Step       workflow.Step
	From       workflow.Status
	To         workflow.Status
	ReviewerID uint
	Catatan    *string
	At         time.Time
}

func (u TransitionUpdate) columns() (map[string]any, error) {
	values := map[string]any{
		"status":     u.To,
		"updated_at": u.At,
	}
	switch u.Step {
	case workflow.StepVerifikasi:
		values["verifikator_id"] = u.ReviewerID
		values["catatan_verifikator"] = u.Catatan
		values["diverifikasi_pada"] = u.At
	case workflow.StepPersetujuan:
		values["supervisor_id"] = u.ReviewerID
		values["catatan_supervisor"] = u.Catatan
		values["diputuskan_pada"] = u.At
	default:
		return nil, workflow.ErrInvalidStep
	}
	return values, nil
}

// applyTransition menjalankan update bersyarat status. Bila baris yang
// berubah bukan tepat satu, pengajuan sudah diproses pihak lain.
func applyTransition(ctx context.Context, db *gorm.DB, mdl any, id uint, u TransitionUpdate) error {
	values, err := u.columns()
	if err != nil {
		return err
	}
	res := db.WithContext(ctx).Model(mdl).
		Where("id = ? AND status = ?", id, u.From).
		Updates(values)
	if res.Error != nil {
		return fmt.Errorf("update status: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return workflow.ErrConflict
	}
	return nil
}

// listPage menghitung total lalu mengambil satu halaman dari query dasar yang sama.
func listPage[T any](ctx context.Context, base *gorm.DB, table string, page Page, preloads ...string) ([]T, int64, error) {
	var total int64
	if err := base.Session(&gorm.Session{}).WithContext(ctx).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	p := page.Normalize()
	q := base.Session(&gorm.Session{}).WithContext(ctx)
	for _, name := range preloads {
		q = q.Preload(name)
	}
	items := []T{}
	err := q.Order(table + ".created_at DESC").Order(table + ".id DESC").
		Limit(p.PerPage).Offset(p.Offset()).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func searchPegawai(db *gorm.DB, q string) *gorm.DB {
	q = strings.TrimSpace(q)
	if q == "" {
		return db
	}
	like := "%" + strings.ToLower(q) + "%"
	return db.Where("(LOWER(pegawai.nama) LIKE ? OR pegawai.nip LIKE ?)", like, like)
}

// searchColumns mencocokkan q pada salah satu kolom tanpa membedakan huruf besar.
func searchColumns(db *gorm.DB, q string, columns ...string) *gorm.DB {
	q = strings.TrimSpace(q)
	if q == "" || len(columns) == 0 {
		return db
	}
	like := "%" + strings.ToLower(q) + "%"
	conds := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		conds[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = like
	}
	return db.Where("("+strings.Join(conds, " OR ")+")", args...)
}

func filterStatuses(db *gorm.DB, table string, statuses []workflow.Status) *gorm.DB {
	if len(statuses) == 0 {
		return db
	}
	return db.Where(table+".status IN ?", statuses)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Store mengumpulkan repository yang berbagi satu koneksi atau transaksi.
type Store interface {
	Cuti() PengajuanCutiRepository
	Dinas() PengajuanDinasRepository
	Dokumen() DokumenRepository
	Pegawai() PegawaiRepository
	Dashboard() DashboardRepository
	// Transaction menjalankan fn dalam satu transaksi; error dari fn membatalkannya.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Cuti() PengajuanCutiRepository { return NewPengajuanCutiRepository(s.db) }

func (s *gormStore) Dinas() PengajuanDinasRepository { return NewPengajuanDinasRepository(s.db) }

func (s *gormStore) Dokumen() DokumenRepository { return NewDokumenRepository(s.db) }

func (s *gormStore) Pegawai() PegawaiRepository { return NewPegawaiRepository(s.db) }

func (s *gormStore) Dashboard() DashboardRepository { return NewDashboardRepository(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
