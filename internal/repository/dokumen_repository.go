package repository

import (
	"context"

	"cuti-dinas-backend/internal/model"

	"gorm.io/gorm"
)

type DokumenRepository interface {
	Create(ctx context.Context, dok *model.DokumenPendukung) error
	FindByID(ctx context.Context, id uint) (*model.DokumenPendukung, error)
	FindByPengajuan(ctx context.Context, jenis model.JenisPengajuan, pengajuanID uint) (*model.DokumenPendukung, error)
}

type dokumenRepository struct {
	db *gorm.DB
}

func NewDokumenRepository(db *gorm.DB) DokumenRepository {
	return &dokumenRepository{db}
}

func (r *dokumenRepository) Create(ctx context.Context, dok *model.DokumenPendukung) error {
	return r.db.WithContext(ctx).Create(dok).Error
}

func (r *dokumenRepository) FindByID(ctx context.Context, id uint) (*model.DokumenPendukung, error) {
	var dok model.DokumenPendukung
	if err := r.db.WithContext(ctx).First(&dok, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &dok, nil
}

func (r *dokumenRepository) FindByPengajuan(ctx context.Context, jenis model.JenisPengajuan, pengajuanID uint) (*model.DokumenPendukung, error) {
	var dok model.DokumenPendukung
	err := r.db.WithContext(ctx).
		Where("pengajuan_type = ? AND pengajuan_id = ?", jenis, pengajuanID).
		First(&dok).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &dok, nil
}
