package repository

import (
	"context"

	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/workflow"

	"gorm.io/gorm"
)

type PegawaiRepository interface {
	FindByNIP(ctx context.Context, nip string) (*model.Pegawai, error)
	FindByID(ctx context.Context, id uint) (*model.Pegawai, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Pegawai, error)
	// FindByRole mengembalikan pegawai aktif dengan peran tertentu; instansiID 0 berarti semua instansi.
	FindByRole(ctx context.Context, role workflow.Role, instansiID uint) ([]model.Pegawai, error)
}

type pegawaiRepository struct {
	db *gorm.DB
}

func NewPegawaiRepository(db *gorm.DB) PegawaiRepository {
	return &pegawaiRepository{db}
}

func (r *pegawaiRepository) FindByNIP(ctx context.Context, nip string) (*model.Pegawai, error) {
	var p model.Pegawai
	err := r.db.WithContext(ctx).
		Preload("Instansi").
		Preload("UnitKerja").
		Where("nip = ?", nip).
		First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *pegawaiRepository) FindByID(ctx context.Context, id uint) (*model.Pegawai, error) {
	var p model.Pegawai
	err := r.db.WithContext(ctx).
		Preload("Instansi").
		Preload("UnitKerja").
		First(&p, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *pegawaiRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Pegawai, error) {
	list := []model.Pegawai{}
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&list).Error
	return list, err
}

func (r *pegawaiRepository) FindByRole(ctx context.Context, role workflow.Role, instansiID uint) ([]model.Pegawai, error) {
	list := []model.Pegawai{}
	q := r.db.WithContext(ctx).Where("role = ? AND is_active = ?", role, true)
	if instansiID != 0 {
		q = q.Where("instansi_id = ?", instansiID)
	}
	err := q.Order("id").Find(&list).Error
	return list, err
}
