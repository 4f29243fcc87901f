package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/repository"
	"cuti-dinas-backend/internal/tracing"
	"cuti-dinas-backend/internal/workflow"
)

// ReviewInput adalah keputusan peninjau. Aksi menerima setuju/tolak maupun
// Disetujui/Ditolak.
type ReviewInput struct {
	Aksi    string
	Catatan string
}

type ReviewResult struct {
	Jenis  model.JenisPengajuan
	ID     uint
	From   workflow.Status
	Status workflow.Status
}

// pengajuanRef adalah bagian pengajuan yang dibutuhkan pemeriksaan hak akses.
type pengajuanRef struct {
	jenis   model.JenisPengajuan
	id      uint
	status  workflow.Status
	owner   model.Pegawai
	peserta []uint
	label   string
}

func (u *PengajuanUsecase) loadRef(ctx context.Context, jenis model.JenisPengajuan, id uint) (pengajuanRef, error) {
	ref := pengajuanRef{jenis: jenis, id: id}
	switch jenis {
	case model.JenisCuti:
		c, err := u.store.Cuti().FindByID(ctx, id)
		if err != nil {
			return ref, mapRepoErr(err)
		}
		ref.status, ref.owner = c.Status, ownerOf(c.Pegawai, c.PegawaiID)
		ref.label = c.JenisCuti
	case model.JenisDinas:
		d, err := u.store.Dinas().FindByID(ctx, id)
		if err != nil {
			return ref, mapRepoErr(err)
		}
		ref.status, ref.owner = d.Status, ownerOf(d.Pegawai, d.PegawaiID)
		ref.peserta = d.PesertaIDs()
		ref.label = "Perjalanan dinas ke " + d.Tujuan
	default:
		return ref, ErrNotFound
	}
	return ref, nil
}

func ownerOf(p *model.Pegawai, id uint) model.Pegawai {
	if p != nil {
		return *p
	}
	var owner model.Pegawai
	owner.ID = id
	return owner
}

// canView: pengaju, peserta dinas, atau peninjau yang jangkauannya mencakup pengaju.
func (r pengajuanRef) canView(actor workflow.Actor) bool {
	if actor.ID == r.owner.ID {
		return true
	}
	for _, id := range r.peserta {
		if id == actor.ID {
			return true
		}
	}
	reviewer := actor.Role.Can(workflow.CapVerify) || actor.Role.Can(workflow.CapApprove) || actor.Role.Can(workflow.CapViewAll)
	return reviewer && actor.Covers(r.owner.Actor())
}

func (u *PengajuanUsecase) Verify(ctx context.Context, actor workflow.Actor, jenis model.JenisPengajuan, id uint, in ReviewInput) (ReviewResult, error) {
	return u.Review(ctx, actor, jenis, id, workflow.StepVerifikasi, in)
}

func (u *PengajuanUsecase) Approve(ctx context.Context, actor workflow.Actor, jenis model.JenisPengajuan, id uint, in ReviewInput) (ReviewResult, error) {
	return u.Review(ctx, actor, jenis, id, workflow.StepPersetujuan, in)
}

// Review menjalankan satu tahap peninjauan. Perubahan status hanya terjadi
// lewat update bersyarat, sehingga dua peninjau yang bersamaan menghasilkan
// tepat satu keputusan dan satu workflow.ErrConflict.
func (u *PengajuanUsecase) Review(ctx context.Context, actor workflow.Actor, jenis model.JenisPengajuan, id uint, step workflow.Step, in ReviewInput) (res ReviewResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "pengajuan."+string(step))
	span.WithAttributes(map[string]string{
		"pengajuan.jenis": string(jenis),
		"pengajuan.id":    strconv.FormatUint(uint64(id), 10),
		"reviewer.id":     strconv.FormatUint(uint64(actor.ID), 10),
	})
	defer func() { tracing.EndSpan(span, err) }()

	action, err := workflow.ParseAction(in.Aksi)
	if err != nil {
		return res, invalid("aksi", "Aksi harus setuju atau tolak")
	}
	if actor, err = u.currentReviewer(ctx, actor.ID); err != nil {
		return res, err
	}
	if !actor.Role.Can(step.Capability()) {
		return res, ErrForbidden
	}
	from, to, err := workflow.Transition(step, action)
	if err != nil {
		return res, err
	}

	ref, err := u.loadRef(ctx, jenis, id)
	if err != nil {
		return res, err
	}
	if ref.owner.ID == actor.ID || !actor.Covers(ref.owner.Actor()) {
		return res, ErrForbidden
	}
	if !workflow.CanApply(ref.status, step) {
		return res, workflow.ErrConflict
	}

	update := repository.TransitionUpdate{
		Step:       step,
		From:       from,
		To:         to,
		ReviewerID: actor.ID,
		Catatan:    noteOrNil(in.Catatan),
		At:         u.now(),
	}
	switch jenis {
	case model.JenisCuti:
		err = u.store.Cuti().ApplyTransition(ctx, id, update)
	case model.JenisDinas:
		err = u.store.Dinas().ApplyTransition(ctx, id, update)
	}
	if err != nil {
		if errors.Is(err, workflow.ErrConflict) {
			slog.WarnContext(ctx, "peninjauan bentrok", "jenis", jenis, "pengajuan_id", id, "reviewer_id", actor.ID, "tahap", step)
			return res, err
		}
		return res, fmt.Errorf("simpan keputusan: %w", err)
	}

	slog.InfoContext(ctx, "pengajuan ditinjau",
		"jenis", jenis, "pengajuan_id", id, "reviewer_id", actor.ID,
		"tahap", step, "dari", from, "menjadi", to)
	ref.status = to
	u.notifyReview(ctx, ref, step, to, update.Catatan)
	return ReviewResult{Jenis: jenis, ID: id, From: from, Status: to}, nil
}

// currentReviewer membaca ulang peran dan penempatan dari database; token
// berlaku sehari sehingga isinya bisa sudah usang.
func (u *PengajuanUsecase) currentReviewer(ctx context.Context, id uint) (workflow.Actor, error) {
	p, err := u.store.Pegawai().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return workflow.Actor{}, ErrForbidden
		}
		return workflow.Actor{}, fmt.Errorf("muat peninjau: %w", err)
	}
	if !p.IsActive {
		return workflow.Actor{}, ErrInactive
	}
	return p.Actor(), nil
}

func noteOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// notifyReview: lolos verifikasi diteruskan ke pimpinan, selain itu ke pengaju.
// Kegagalan kirim hanya dicatat.
func (u *PengajuanUsecase) notifyReview(ctx context.Context, ref pengajuanRef, step workflow.Step, to workflow.Status, catatan *string) {
	var (
		recipients []string
		subject    string
		body       strings.Builder
	)
	if step == workflow.StepVerifikasi && to == workflow.StatusMenungguPersetujuan {
		pimpinan, err := u.store.Pegawai().FindByRole(ctx, workflow.RolePimpinan, ref.owner.InstansiID)
		if err == nil && len(pimpinan) == 0 && ref.owner.InstansiID != 0 {
			pimpinan, err = u.store.Pegawai().FindByRole(ctx, workflow.RolePimpinan, 0)
		}
		if err != nil {
			slog.ErrorContext(ctx, "gagal mencari penerima notifikasi", "error", err)
			return
		}
		for _, p := range pimpinan {
			recipients = append(recipients, p.Email)
		}
		subject = fmt.Sprintf("Pengajuan %s #%d menunggu persetujuan", ref.jenis, ref.id)
		fmt.Fprintf(&body, "%s oleh %s (%s) telah diverifikasi dan menunggu persetujuan Anda.\n", ref.label, ref.owner.Nama, ref.owner.NIP)
	} else {
		recipients = []string{ref.owner.Email}
		subject = fmt.Sprintf("Pengajuan %s #%d: %s", ref.jenis, ref.id, to.Label())
		fmt.Fprintf(&body, "Status pengajuan Anda (%s) sekarang: %s.\n", ref.label, to.Label())
	}
	if catatan != nil {
		fmt.Fprintf(&body, "Catatan: %s\n", *catatan)
	}
	if err := u.notifier.Notify(ctx, recipients, subject, body.String()); err != nil {
		slog.ErrorContext(ctx, "gagal mengirim notifikasi", "jenis", ref.jenis, "pengajuan_id", ref.id, "error", err)
	}
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
