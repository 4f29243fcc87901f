package repository

import (
	"context"

	"cuti-dinas-backend/internal/model"

	"gorm.io/gorm"
)

type PengajuanCutiRepository interface {
	Create(ctx context.Context, cuti *model.PengajuanCuti) error
	FindByID(ctx context.Context, id uint) (*model.PengajuanCuti, error)
	ListBySubmitter(ctx context.Context, q SubmitterQuery) ([]model.PengajuanCuti, int64, error)
	ListByStatus(ctx context.Context, q ListQuery) ([]model.PengajuanCuti, int64, error)
	ApplyTransition(ctx context.Context, id uint, u TransitionUpdate) error
}

type pengajuanCutiRepository struct {
	db *gorm.DB
}

func NewPengajuanCutiRepository(db *gorm.DB) PengajuanCutiRepository {
	return &pengajuanCutiRepository{db}
}

func (r *pengajuanCutiRepository) Create(ctx context.Context, cuti *model.PengajuanCuti) error {
	return r.db.WithContext(ctx).Omit("Pegawai", "Dokumen").Create(cuti).Error
}

func (r *pengajuanCutiRepository) FindByID(ctx context.Context, id uint) (*model.PengajuanCuti, error) {
	var cuti model.PengajuanCuti
	err := r.db.WithContext(ctx).
		Preload("Pegawai").
		Preload("Dokumen").
		First(&cuti, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &cuti, nil
}

func (r *pengajuanCutiRepository) ListBySubmitter(ctx context.Context, q SubmitterQuery) ([]model.PengajuanCuti, int64, error) {
	base := r.db.Model(&model.PengajuanCuti{}).Where("pengajuan_cuti.pegawai_id = ?", pegawaiID)
	if status != "" {
		base = base.Where("pengajuan_cuti.status = ?", status)
	}
	return listPage[model.PengajuanCuti](ctx, base, "pengajuan_cuti", page, "Dokumen")
}

func (r *pengajuanCutiRepository) ListByStatus(ctx context.Context, q ListQuery) ([]model.PengajuanCuti, int64, error) {
	base := q.filter(r.db.Model(&model.PengajuanCuti{}), "pengajuan_cuti")
	return listPage[model.PengajuanCuti](ctx, base, "pengajuan_cuti", q.Page, "Pegawai", "Dokumen")
}

func (r *pengajuanCutiRepository) ApplyTransition(ctx context.Context, id uint, u TransitionUpdate) error {
	return applyTransition(ctx, r.db, &model.PengajuanCuti{}, id, u)
}
