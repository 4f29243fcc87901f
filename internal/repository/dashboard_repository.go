package repository

import (
	"context"
	"fmt"

	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/workflow"

	"gorm.io/gorm"
)

// StatusCounts adalah jumlah pengajuan per status; setiap status selalu ada.
type StatusCounts map[workflow.Status]int64

func (c StatusCounts) Total() int64 {
	var total int64
	for _, n := range c {
		total += n
	}
	return total
}

type DashboardRepository interface {
	CountByStatus(ctx context.Context, jenis model.JenisPengajuan, scope Scope) (StatusCounts, error)
	// CountQueue menghitung baris yang sama dengan ListByStatus untuk q.
	CountQueue(ctx context.Context, jenis model.JenisPengajuan, q ListQuery) (int64, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db}
}

func tableOf(jenis model.JenisPengajuan) (string, error) {
	switch jenis {
	case model.JenisCuti:
		return "pengajuan_cuti", nil
	case model.JenisDinas:
		return "pengajuan_dinas", nil
	}
	return "", fmt.Errorf("jenis pengajuan %q tidak dikenal", jenis)
}

func (r *dashboardRepository) CountByStatus(ctx context.Context, jenis model.JenisPengajuan, scope Scope) (StatusCounts, error) {
	table, err := tableOf(jenis)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status string
		Count  int64
	}
	// Join dengan pegawai untuk filter unit/instansi
	q := r.db.WithContext(ctx).Table(table).
		Joins("JOIN pegawai ON pegawai.id = " + table + ".pegawai_id")
	q = scope.apply(q, table)
	err = q.Group(table + ".status").
		Select(table + ".status AS status, count(*) AS count").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := StatusCounts{}
	for _, s := range workflow.Statuses() {
		counts[s] = 0
	}
	for _, row := range rows {
		if s, err := workflow.ParseStatus(row.Status); err == nil {
			counts[s] = row.Count
		}
	}
	return counts, nil
}

func (r *dashboardRepository) CountQueue(ctx context.Context, jenis model.JenisPengajuan, q ListQuery) (int64, error) {
	table, err := tableOf(jenis)
	if err != nil {
		return 0, err
	}
	var total int64
	err = q.filter(r.db.WithContext(ctx).Table(table), table).Count(&total).Error
	return total, err
}
