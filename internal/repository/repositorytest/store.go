// Package repositorytest menyediakan repository.Store di memori untuk test
// usecase dan handler.
package repositorytest

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/repository"
	"cuti-dinas-backend/internal/workflow"
)

// Nama operasi yang bisa digagalkan lewat Store.FailOn.
const (
	OpCutiCreate    = "cuti.create"
	OpDinasCreate   = "dinas.create"
	OpDokumenCreate = "dokumen.create"
)

type state struct {
	seq     uint
	pegawai map[uint]model.Pegawai
	cuti    map[uint]model.PengajuanCuti
	dinas   map[uint]model.PengajuanDinas
	peserta map[uint][]uint
	dokumen map[uint]model.DokumenPendukung
}

func newState() *state {
	return &state{
		pegawai: map[uint]model.Pegawai{},
		cuti:    map[uint]model.PengajuanCuti{},
		dinas:   map[uint]model.PengajuanDinas{},
		peserta: map[uint][]uint{},
		dokumen: map[uint]model.DokumenPendukung{},
	}
}

func (s *state) clone() *state {
	cp := &state{
		seq:     s.seq,
		pegawai: maps.Clone(s.pegawai),
		cuti:    maps.Clone(s.cuti),
		dinas:   maps.Clone(s.dinas),
		peserta: map[uint][]uint{},
		dokumen: maps.Clone(s.dokumen),
	}
	for k, v := range s.peserta {
		cp.peserta[k] = slices.Clone(v)
	}
	return cp
}

func (s *state) nextID() uint {
	s.seq++
	return s.seq
}

// Store menyimpan data di map. Transaksi dijalankan berurutan pada salinan
// data dan hanya disalin balik bila fn berhasil.
type Store struct {
	mu   *sync.Mutex
	txMu *sync.Mutex
	data *state
	fail map[string]error
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{mu: &sync.Mutex{}, txMu: &sync.Mutex{}, data: newState(), fail: map[string]error{}}
}

// FailOn membuat operasi op selalu mengembalikan err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[op] = err
}

// AddPegawai menyimpan pegawai apa adanya; ID nol diberi nomor baru.
func (s *Store) AddPegawai(p model.Pegawai) model.Pegawai {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.data.nextID()
	} else if p.ID > s.data.seq {
		s.data.seq = p.ID
	}
	s.data.pegawai[p.ID] = p
	return p
}

func (s *Store) CountCuti() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.cuti)
}

func (s *Store) CountDinas() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.dinas)
}

func (s *Store) CountDokumen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.dokumen)
}

func (s *Store) Cuti() repository.PengajuanCutiRepository { return cutiRepo{s} }
func (s *Store) Dinas() repository.PengajuanDinasRepository { return dinasRepo{s} }
func (s *Store) Dokumen() repository.DokumenRepository { return dokumenRepo{s} }
func (s *Store) Pegawai() repository.PegawaiRepository { return pegawaiRepo{s} }
func (s *Store) Dashboard() repository.DashboardRepository { return dashboardRepo{s} }

func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	tx := &Store{mu: &sync.Mutex{}, txMu: &sync.Mutex{}, data: snapshot, fail: s.fail}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = snapshot
	s.mu.Unlock()
	return nil
}

func (s *Store) failed(op string) error {
	return s.fail[op]
}

func (s *Store) withPegawai(id uint) *model.Pegawai {
	if p, ok := s.data.pegawai[id]; ok {
		return &p
	}
	return nil
}

func (s *Store) dokumenFor(jenis model.JenisPengajuan, id uint) *model.DokumenPendukung {
	for _, d := range s.data.dokumen {
		if d.PengajuanType == jenis && d.PengajuanID == id {
			return &d
		}
	}
	return nil
}

func (s *Store) inScope(scope repository.Scope, pegawaiID uint) bool {
	owner := s.data.pegawai[pegawaiID]
	switch scope.Level {
	case workflow.ScopeAll:
		return true
	case workflow.ScopeInstansi:
		return owner.InstansiID == scope.InstansiID
	case workflow.ScopeUnit:
		return owner.UnitKerjaID == scope.UnitKerjaID
	}
	return pegawaiID == scope.PegawaiID
}

func (s *Store) matchesSearch(q string, pegawaiID uint) bool {
	p := s.data.pegawai[pegawaiID]
	return containsAny(q, p.Nama, p.NIP)
}

func containsAny(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func statusIn(statuses []workflow.Status, st workflow.Status) bool {
	return len(statuses) == 0 || slices.Contains(statuses, st)
}

func (s *Store) inQueue(q repository.ListQuery, status workflow.Status, pegawaiID uint) bool {
	return status == q.Status &&
		s.inScope(q.Scope, pegawaiID) &&
		(q.ExcludePegawaiID == 0 || pegawaiID != q.ExcludePegawaiID) &&
		s.matchesSearch(q.Search, pegawaiID)
}

func paginate[T any](items []T, page repository.Page) ([]T, int64) {
	total := int64(len(items))
	p := page.Normalize()
	start := p.Offset()
	if start >= len(items) {
		return []T{}, total
	}
	end := min(start+p.PerPage, len(items))
	return items[start:end], total
}

func transitionMatches(current workflow.Status, u repository.TransitionUpdate) bool {
	return current == u.From
}

func applyReview(p *model.Peninjauan, u repository.TransitionUpdate) error {
	at := u.At
	reviewer := u.ReviewerID
	switch u.Step {
	case workflow.StepVerifikasi:
		p.VerifikatorID, p.CatatanVerifikator, p.DiverifikasiPada = &reviewer, u.Catatan, &at
	case workflow.StepPersetujuan:
		p.SupervisorID, p.CatatanSupervisor, p.DiputuskanPada = &reviewer, u.Catatan, &at
	default:
		return workflow.ErrInvalidStep
	}
	return nil
}

type cutiRepo struct{ s *Store }

func (r cutiRepo) Create(_ context.Context, c *model.PengajuanCuti) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failed(OpCutiCreate); err != nil {
		return err
	}
	c.ID = r.s.data.nextID()
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	stored := *c
	stored.Pegawai, stored.Dokumen = nil, nil
	r.s.data.cuti[c.ID] = stored
	return nil
}

func (r cutiRepo) hydrate(c model.PengajuanCuti) model.PengajuanCuti {
	c.Pegawai = r.s.withPegawai(c.PegawaiID)
	c.Dokumen = r.s.dokumenFor(model.JenisCuti, c.ID)
	return c
}

func (r cutiRepo) FindByID(_ context.Context, id uint) (*model.PengajuanCuti, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.cuti[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c = r.hydrate(c)
	return &c, nil
}

func (r cutiRepo) sorted(keep func(model.PengajuanCuti) bool) []model.PengajuanCuti {
	out := []model.PengajuanCuti{}
	for _, c := range r.s.data.cuti {
		if keep(c) {
			out = append(out, r.hydrate(c))
		}
	}
	slices.SortFunc(out, func(a, b model.PengajuanCuti) int { return int(b.ID) - int(a.ID) })
	return out
}

func (r cutiRepo) ListBySubmitter(_ context.Context, q repository.SubmitterQuery) ([]model.PengajuanCuti, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.sorted(func(c model.PengajuanCuti) bool {
		return c.PegawaiID == q.PegawaiID && statusIn(q.Statuses, c.Status) &&
			containsAny(q.Search, c.JenisCuti, c.Alasan)
	})
	list, total := paginate(items, q.Page)
	return list, total, nil
}

func (r cutiRepo) ListByStatus(_ context.Context, q repository.ListQuery) ([]model.PengajuanCuti, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.sorted(func(c model.PengajuanCuti) bool {
		return r.s.inQueue(q, c.Status, c.PegawaiID)
	})
	list, total := paginate(items, q.Page)
	return list, total, nil
}

func (r cutiRepo) ApplyTransition(_ context.Context, id uint, u repository.TransitionUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.data.cuti[id]
	if !ok || !transitionMatches(c.Status, u) {
		return workflow.ErrConflict
	}
	if err := applyReview(&c.Peninjauan, u); err != nil {
		return err
	}
	c.Status, c.UpdatedAt = u.To, u.At
	r.s.data.cuti[id] = c
	return nil
}

type dinasRepo struct{ s *Store }

func (r dinasRepo) Create(_ context.Context, d *model.PengajuanDinas, pesertaIDs []uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failed(OpDinasCreate); err != nil {
		return err
	}
	d.ID = r.s.data.nextID()
	now := time.Now()
	d.CreatedAt, d.UpdatedAt = now, now
	stored := *d
	stored.Pegawai, stored.Dokumen, stored.Peserta = nil, nil, nil
	r.s.data.dinas[d.ID] = stored
	r.s.data.peserta[d.ID] = slices.Clone(pesertaIDs)
	return nil
}

func (r dinasRepo) hydrate(d model.PengajuanDinas) model.PengajuanDinas {
	d.Pegawai = r.s.withPegawai(d.PegawaiID)
	d.Dokumen = r.s.dokumenFor(model.JenisDinas, d.ID)
	d.Peserta = nil
	for _, id := range r.s.data.peserta[d.ID] {
		if p, ok := r.s.data.pegawai[id]; ok {
			d.Peserta = append(d.Peserta, p)
		}
	}
	return d
}

func (r dinasRepo) FindByID(_ context.Context, id uint) (*model.PengajuanDinas, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.dinas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	d = r.hydrate(d)
	return &d, nil
}

func (r dinasRepo) sorted(keep func(model.PengajuanDinas) bool) []model.PengajuanDinas {
	out := []model.PengajuanDinas{}
	for _, d := range r.s.data.dinas {
		if keep(d) {
			out = append(out, r.hydrate(d))
		}
	}
	slices.SortFunc(out, func(a, b model.PengajuanDinas) int { return int(b.ID) - int(a.ID) })
	return out
}

func (r dinasRepo) ListBySubmitter(_ context.Context, q repository.SubmitterQuery) ([]model.PengajuanDinas, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.sorted(func(d model.PengajuanDinas) bool {
		mine := d.PegawaiID == q.PegawaiID || slices.Contains(r.s.data.peserta[d.ID], q.PegawaiID)
		owner := r.s.data.pegawai[d.PegawaiID]
		return mine && statusIn(q.Statuses, d.Status) &&
			containsAny(q.Search, d.Tujuan, d.Keperluan, owner.Nama, owner.NIP)
	})
	list, total := paginate(items, q.Page)
	return list, total, nil
}

func (r dinasRepo) ListByStatus(_ context.Context, q repository.ListQuery) ([]model.PengajuanDinas, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.sorted(func(d model.PengajuanDinas) bool {
		return r.s.inQueue(q, d.Status, d.PegawaiID)
	})
	list, total := paginate(items, q.Page)
	return list, total, nil
}

func (r dinasRepo) ApplyTransition(_ context.Context, id uint, u repository.TransitionUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.dinas[id]
	if !ok || !transitionMatches(d.Status, u) {
		return workflow.ErrConflict
	}
	if err := applyReview(&d.Peninjauan, u); err != nil {
		return err
	}
	d.Status, d.UpdatedAt = u.To, u.At
	r.s.data.dinas[id] = d
	return nil
}

type dokumenRepo struct{ s *Store }

func (r dokumenRepo) Create(_ context.Context, d *model.DokumenPendukung) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failed(OpDokumenCreate); err != nil {
		return err
	}
	if r.s.dokumenFor(d.PengajuanType, d.PengajuanID) != nil {
		return fmt.Errorf("dokumen untuk %s %d sudah ada", d.PengajuanType, d.PengajuanID)
	}
	d.ID = r.s.data.nextID()
	d.CreatedAt = time.Now()
	r.s.data.dokumen[d.ID] = *d
	return nil
}

func (r dokumenRepo) FindByID(_ context.Context, id uint) (*model.DokumenPendukung, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.data.dokumen[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r dokumenRepo) FindByPengajuan(_ context.Context, jenis model.JenisPengajuan, id uint) (*model.DokumenPendukung, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d := r.s.dokumenFor(jenis, id); d != nil {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

type pegawaiRepo struct{ s *Store }

func (r pegawaiRepo) FindByNIP(_ context.Context, nip string) (*model.Pegawai, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.data.pegawai {
		if p.NIP == nip {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r pegawaiRepo) FindByID(_ context.Context, id uint) (*model.Pegawai, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.data.pegawai[id]; ok {
		return &p, nil
	}
	return nil, repository.ErrNotFound
}

func (r pegawaiRepo) FindByIDs(_ context.Context, ids []uint) ([]model.Pegawai, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Pegawai{}
	for _, id := range ids {
		if p, ok := r.s.data.pegawai[id]; ok {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b model.Pegawai) int { return int(a.ID) - int(b.ID) })
	return out, nil
}

func (r pegawaiRepo) FindByRole(_ context.Context, role workflow.Role, instansiID uint) ([]model.Pegawai, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Pegawai{}
	for _, p := range r.s.data.pegawai {
		if p.Role == role && p.IsActive && (instansiID == 0 || p.InstansiID == instansiID) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b model.Pegawai) int { return int(a.ID) - int(b.ID) })
	return out, nil
}

type dashboardRepo struct{ s *Store }

func (r dashboardRepo) CountByStatus(_ context.Context, jenis model.JenisPengajuan, scope repository.Scope) (repository.StatusCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := repository.StatusCounts{}
	for _, st := range workflow.Statuses() {
		counts[st] = 0
	}
	switch jenis {
	case model.JenisCuti:
		for _, c := range r.s.data.cuti {
			if r.s.inScope(scope, c.PegawaiID) {
				counts[c.Status]++
			}
		}
	case model.JenisDinas:
		for _, d := range r.s.data.dinas {
			if r.s.inScope(scope, d.PegawaiID) {
				counts[d.Status]++
			}
		}
	}
	return counts, nil
}

func (r dashboardRepo) CountQueue(_ context.Context, jenis model.JenisPengajuan, q repository.ListQuery) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	switch jenis {
	case model.JenisCuti:
		for _, c := range r.s.data.cuti {
			if r.s.inQueue(q, c.Status, c.PegawaiID) {
				n++
			}
		}
	case model.JenisDinas:
		for _, d := range r.s.data.dinas {
			if r.s.inQueue(q, d.Status, d.PegawaiID) {
				n++
			}
		}
	}
	return n, nil
}
