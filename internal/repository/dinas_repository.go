package repository

import (
	"context"
	"fmt"

	"cuti-dinas-backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PengajuanDinasRepository interface {
	Create(ctx context.Context, dinas *model.PengajuanDinas, pesertaIDs []uint) error
	FindByID(ctx context.Context, id uint) (*model.PengajuanDinas, error)
	ListBySubmitter(ctx context.Context, q SubmitterQuery) ([]model.PengajuanDinas, int64, error)
	ListByStatus(ctx context.Context, q ListQuery) ([]model.PengajuanDinas, int64, error)
	ApplyTransition(ctx context.Context, id uint, u TransitionUpdate) error
}

type pengajuanDinasRepository struct {
	db *gorm.DB
}

func NewPengajuanDinasRepository(db *gorm.DB) PengajuanDinasRepository {
	return &pengajuanDinasRepository{db}
}

// pesertaRow adalah baris tabel penghubung pengajuan_dinas_peserta.
type pesertaRow struct {
	PengajuanDinasID uint `gorm:"primaryKey"`
	PegawaiID        uint `gorm:"primaryKey"`
}

func (pesertaRow) TableName() string { return "pengajuan_dinas_peserta" }

func (r *pengajuanDinasRepository) Create(ctx context.Context, dinas *model.PengajuanDinas, pesertaIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Pegawai", "Dokumen", "Peserta").Create(dinas).Error; err != nil {
		return err
	}
	if len(pesertaIDs) == 0 {
		return nil
	}
	rows := make([]pesertaRow, 0, len(pesertaIDs))
	for _, id := range pesertaIDs {
		rows = append(rows, pesertaRow{PengajuanDinasID: dinas.ID, PegawaiID: id})
	}
	// Peserta yang sama tidak dicatat dua kali
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("simpan peserta: %w", err)
	}
	return nil
}

func (r *pengajuanDinasRepository) FindByID(ctx context.Context, id uint) (*model.PengajuanDinas, error) {
	var dinas model.PengajuanDinas
	err := r.db.WithContext(ctx).
		Preload("Pegawai").
		Preload("Peserta").
		Preload("Dokumen").
		First(&dinas, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &dinas, nil
}

// ListBySubmitter juga memuat perjalanan dinas di mana pegawai ikut sebagai
// peserta, sehingga pencarian mencakup nama dan NIP pengaju selain tujuan.
func (r *pengajuanDinasRepository) ListBySubmitter(ctx context.Context, q SubmitterQuery) ([]model.PengajuanDinas, int64, error) {
	peserta := r.db.Table("pengajuan_dinas_peserta").
		Select("pengajuan_dinas_id").
		Where("pegawai_id = ?", q.PegawaiID)
	base := r.db.Model(&model.PengajuanDinas{}).
		Joins("JOIN pegawai ON pegawai.id = pengajuan_dinas.pegawai_id").
		Where("(pengajuan_dinas.pegawai_id = ? OR pengajuan_dinas.id IN (?))", q.PegawaiID, peserta)
	base = filterStatuses(base, "pengajuan_dinas", q.Statuses)
	base = searchColumns(base, q.Search, "pengajuan_dinas.tujuan", "pengajuan_dinas.keperluan", "pegawai.nama", "pegawai.nip")
	return listPage[model.PengajuanDinas](ctx, base, "pengajuan_dinas", q.Page, "Pegawai", "Dokumen")
}

func (r *pengajuanDinasRepository) ListByStatus(ctx context.Context, q ListQuery) ([]model.PengajuanDinas, int64, error) {
	base := q.filter(r.db.Model(&model.PengajuanDinas{}), "pengajuan_dinas")
	return listPage[model.PengajuanDinas](ctx, base, "pengajuan_dinas", q.Page, "Pegawai", "Dokumen")
}

func (r *pengajuanDinasRepository) ApplyTransition(ctx context.Context, id uint, u TransitionUpdate) error {
	return applyTransition(ctx, r.db, &model.PengajuanDinas{}, id, u)
}
