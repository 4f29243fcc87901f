package usecase

import (
	"context"
	"fmt"

	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/repository"
	"cuti-dinas-backend/internal/workflow"
)

// Paged adalah satu halaman hasil daftar beserta total baris.
type Paged[T any] struct {
	Items []T
	Total int64
	Page  repository.Page
}

func paged[T any](items []T, total int64, page repository.Page) Paged[T] {
	return Paged[T]{Items: items, Total: total, Page: page.Normalize()}
}

// ListFilter adalah filter daftar dari query string.
type ListFilter struct {
	Status string
	Search string
	Page   repository.Page
}

// submitterQuery menerima status penyimpanan maupun label REST.
func (f ListFilter) submitterQuery(pegawaiID uint) (repository.SubmitterQuery, error) {
	q := repository.SubmitterQuery{PegawaiID: pegawaiID, Search: f.Search, Page: f.Page}
	if f.Status == "" {
		return q, nil
	}
	statuses, err := workflow.ParseStatusFilter(f.Status)
	if err != nil {
		return q, invalid("status", "Status tidak dikenal")
	}
	q.Statuses = statuses
	return q, nil
}

func (u *PengajuanUsecase) GetCuti(ctx context.Context, actor workflow.Actor, id uint) (*model.PengajuanCuti, error) {
	c, err := u.store.Cuti().FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	ref := pengajuanRef{jenis: model.JenisCuti, id: id, status: c.Status, owner: ownerOf(c.Pegawai, c.PegawaiID)}
	if !ref.canView(actor) {
		return nil, ErrForbidden
	}
	return c, nil
}

func (u *PengajuanUsecase) GetDinas(ctx context.Context, actor workflow.Actor, id uint) (*model.PengajuanDinas, error) {
	d, err := u.store.Dinas().FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	ref := pengajuanRef{jenis: model.JenisDinas, id: id, status: d.Status, owner: ownerOf(d.Pegawai, d.PegawaiID), peserta: d.PesertaIDs()}
	if !ref.canView(actor) {
		return nil, ErrForbidden
	}
	return d, nil
}

// ListCutiSaya adalah riwayat pengajuan cuti milik actor.
func (u *PengajuanUsecase) ListCutiSaya(ctx context.Context, actor workflow.Actor, f ListFilter) (Paged[model.PengajuanCuti], error) {
	q, err := f.submitterQuery(actor.ID)
	if err != nil {
		return Paged[model.PengajuanCuti]{}, err
	}
	items, total, err := u.store.Cuti().ListBySubmitter(ctx, q)
	if err != nil {
		return Paged[model.PengajuanCuti]{}, fmt.Errorf("daftar cuti: %w", err)
	}
	return paged(items, total, f.Page), nil
}

// ListDinasSaya memuat perjalanan dinas yang diajukan maupun diikuti actor.
func (u *PengajuanUsecase) ListDinasSaya(ctx context.Context, actor workflow.Actor, f ListFilter) (Paged[model.PengajuanDinas], error) {
	q, err := f.submitterQuery(actor.ID)
	if err != nil {
		return Paged[model.PengajuanDinas]{}, err
	}
	items, total, err := u.store.Dinas().ListBySubmitter(ctx, q)
	if err != nil {
		return Paged[model.PengajuanDinas]{}, fmt.Errorf("daftar dinas: %w", err)
	}
	return paged(items, total, f.Page), nil
}

// inboxQuery menyusun antrean tahap step dalam jangkauan actor. Pengajuan
// milik actor sendiri tidak ikut karena tidak boleh ditinjau sendiri.
func inboxQuery(actor workflow.Actor, step workflow.Step, f ListFilter) (repository.ListQuery, error) {
	if !actor.Role.Can(step.Capability()) {
		return repository.ListQuery{}, ErrForbidden
	}
	status, err := workflow.Source(step)
	if err != nil {
		return repository.ListQuery{}, err
	}
	return repository.ListQuery{
		Status:           status,
		Scope:            repository.ScopeOf(actor),
		ExcludePegawaiID: actor.ID,
		Search:           f.Search,
		Page:             f.Page,
	}, nil
}

func (u *PengajuanUsecase) InboxCuti(ctx context.Context, actor workflow.Actor, step workflow.Step, f ListFilter) (Paged[model.PengajuanCuti], error) {
	q, err := inboxQuery(actor, step, f)
	if err != nil {
		return Paged[model.PengajuanCuti]{}, err
	}
	items, total, err := u.store.Cuti().ListByStatus(ctx, q)
	if err != nil {
		return Paged[model.PengajuanCuti]{}, fmt.Errorf("antrean cuti: %w", err)
	}
	return paged(items, total, f.Page), nil
}

func (u *PengajuanUsecase) InboxDinas(ctx context.Context, actor workflow.Actor, step workflow.Step, f ListFilter) (Paged[model.PengajuanDinas], error) {
	q, err := inboxQuery(actor, step, f)
	if err != nil {
		return Paged[model.PengajuanDinas]{}, err
	}
	items, total, err := u.store.Dinas().ListByStatus(ctx, q)
	if err != nil {
		return Paged[model.PengajuanDinas]{}, fmt.Errorf("antrean dinas: %w", err)
	}
	return paged(items, total, f.Page), nil
}

// Dashboard adalah ringkasan jumlah pengajuan per status dalam jangkauan actor.
type Dashboard struct {
	Cuti  repository.StatusCounts
	Dinas repository.StatusCounts
	// Antrean hanya terisi untuk peran peninjau.
	AntreanVerifikasi  int64
	AntreanPersetujuan int64
}

func (u *PengajuanUsecase) Dashboard(ctx context.Context, actor workflow.Actor) (*Dashboard, error) {
	scope := repository.ScopeOf(actor)
	cuti, err := u.store.Dashboard().CountByStatus(ctx, model.JenisCuti, scope)
	if err != nil {
		return nil, fmt.Errorf("statistik cuti: %w", err)
	}
	dinas, err := u.store.Dashboard().CountByStatus(ctx, model.JenisDinas, scope)
	if err != nil {
		return nil, fmt.Errorf("statistik dinas: %w", err)
	}
	d := &Dashboard{Cuti: cuti, Dinas: dinas}
	// Antrean dihitung dengan filter yang sama dengan kotak masuk, jadi
	// pengajuan milik actor sendiri tidak ikut terhitung.
	if d.AntreanVerifikasi, err = u.queueSize(ctx, actor, workflow.StepVerifikasi); err != nil {
		return nil, err
	}
	if d.AntreanPersetujuan, err = u.queueSize(ctx, actor, workflow.StepPersetujuan); err != nil {
		return nil, err
	}
	return d, nil
}

func (u *PengajuanUsecase) queueSize(ctx context.Context, actor workflow.Actor, step workflow.Step) (int64, error) {
	if !actor.Role.Can(step.Capability()) {
		return 0, nil
	}
	q, err := inboxQuery(actor, step, ListFilter{})
	if err != nil {
		return 0, err
	}
	var total int64
	for _, jenis := range []model.JenisPengajuan{model.JenisCuti, model.JenisDinas} {
		n, err := u.store.Dashboard().CountQueue(ctx, jenis, q)
		if err != nil {
			return 0, fmt.Errorf("antrean %s: %w", jenis, err)
		}
		total += n
	}
	return total, nil
}
