package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/notifier"
	"cuti-dinas-backend/internal/repository"
	"cuti-dinas-backend/internal/storage"
	"cuti-dinas-backend/internal/tracing"
	"cuti-dinas-backend/internal/validation"
	"cuti-dinas-backend/internal/workflow"
)

// PengajuanUsecase menjalankan alur pengajuan cuti dan perjalanan dinas:
// pengajuan, verifikasi, persetujuan, serta akses dokumen pendukung.
type PengajuanUsecase struct {
	store    repository.Store
	files    storage.EvidenceStore
	signer   *storage.URLSigner
	notifier notifier.Notifier
	rules    validation.EvidenceRules
	now      func() time.Time
}

func NewPengajuanUsecase(store repository.Store, files storage.EvidenceStore, signer *storage.URLSigner, n notifier.Notifier, rules validation.EvidenceRules) *PengajuanUsecase {
	if n == nil {
		n = notifier.Nop{}
	}
	return &PengajuanUsecase{
		store:    store,
		files:    files,
		signer:   signer,
		notifier: n,
		rules:    rules,
		now:      time.Now,
	}
}

func (u *PengajuanUsecase) SubmitCuti(ctx context.Context, actor workflow.Actor, in validation.CutiInput, berkas *validation.Berkas) (_ *model.PengajuanCuti, err error) {
	ctx, span := tracing.StartSpan(ctx, "pengajuan.ajukan_cuti")
	defer func() { tracing.EndSpan(span, err) }()

	if !actor.Role.Can(workflow.CapSubmit) {
		return nil, ErrForbidden
	}
	rentang, fields := validation.ValidateCuti(in)
	evidence, fileErrs := u.rules.Check("dokumen", berkas)
	fields.Merge(fileErrs)
	if !fields.Empty() {
		return nil, &ValidationError{Fields: fields}
	}

	cuti := &model.PengajuanCuti{
		PegawaiID:  actor.ID,
		JenisCuti:  strings.TrimSpace(in.JenisCuti),
		Alasan:     strings.TrimSpace(in.Alasan),
		TglMulai:   rentang.Mulai,
		TglSelesai: rentang.Selesai,
		Status:     workflow.StatusMenungguVerifikasi,
	}
	err = u.submit(ctx, model.JenisCuti, actor.ID, evidence,
		func(tx repository.Store) (uint, error) {
			err := tx.Cuti().Create(ctx, cuti)
			return cuti.ID, err
		},
		func(dok *model.DokumenPendukung) { cuti.Dokumen = dok },
	)
	if err != nil {
		return nil, err
	}
	span.WithAttributes(map[string]string{"pengajuan.id": strconv.FormatUint(uint64(cuti.ID), 10)})
	slog.InfoContext(ctx, "pengajuan cuti dibuat", "pengajuan_id", cuti.ID, "pegawai_id", actor.ID, "dokumen", evidence != nil)
	return cuti, nil
}

func (u *PengajuanUsecase) SubmitDinas(ctx context.Context, actor workflow.Actor, in validation.DinasInput, berkas *validation.Berkas) (_ *model.PengajuanDinas, err error) {
	ctx, span := tracing.StartSpan(ctx, "pengajuan.ajukan_dinas")
	defer func() { tracing.EndSpan(span, err) }()

	if !actor.Role.Can(workflow.CapSubmit) {
		return nil, ErrForbidden
	}
	rentang, fields := validation.ValidateDinas(in)
	evidence, fileErrs := u.rules.Check("dokumen", berkas)
	fields.Merge(fileErrs)

	pesertaIDs := validation.PesertaUnik(actor.ID, in.Peserta)
	var peserta []model.Pegawai
	if _, bad := fields["peserta"]; !bad {
		peserta, err = u.store.Pegawai().FindByIDs(ctx, pesertaIDs)
		if err != nil {
			return nil, fmt.Errorf("cek peserta: %w", err)
		}
		if len(peserta) != len(pesertaIDs) {
			fields.Add("peserta", "Pegawai tidak ditemukan")
		}
	}
	if !fields.Empty() {
		return nil, &ValidationError{Fields: fields}
	}

	dinas := &model.PengajuanDinas{
		PegawaiID:  actor.ID,
		Tujuan:     strings.TrimSpace(in.Tujuan),
		Keperluan:  strings.TrimSpace(in.Keperluan),
		TglMulai:   rentang.Mulai,
		TglSelesai: rentang.Selesai,
		Status:     workflow.StatusMenungguVerifikasi,
		Peserta:    peserta,
	}
	err = u.submit(ctx, model.JenisDinas, actor.ID, evidence,
		func(tx repository.Store) (uint, error) {
			err := tx.Dinas().Create(ctx, dinas, pesertaIDs)
			return dinas.ID, err
		},
		func(dok *model.DokumenPendukung) { dinas.Dokumen = dok },
	)
	if err != nil {
		return nil, err
	}
	span.WithAttributes(map[string]string{"pengajuan.id": strconv.FormatUint(uint64(dinas.ID), 10)})
	slog.InfoContext(ctx, "pengajuan dinas dibuat", "pengajuan_id", dinas.ID, "pegawai_id", actor.ID, "peserta", len(pesertaIDs))
	return dinas, nil
}

// submit menyimpan baris pengajuan, mengunggah dokumen, lalu menyimpan baris
// dokumen dalam satu transaksi. Bila langkah apa pun gagal setelah unggahan,
// objek yang sudah terunggah dihapus lagi.
func (u *PengajuanUsecase) submit(
	ctx context.Context,
	jenis model.JenisPengajuan,
	pegawaiID uint,
	evidence *validation.Evidence,
	create func(tx repository.Store) (uint, error),
	attach func(dok *model.DokumenPendukung),
) error {
	var uploaded string
	err := u.store.Transaction(ctx, func(tx repository.Store) error {
		id, err := create(tx)
		if err != nil {
			return fmt.Errorf("simpan pengajuan %s: %w", jenis, err)
		}
		if evidence == nil {
			return nil
		}

		objectPath := storage.ObjectPath(pegawaiID, string(jenis), id, evidence.Ext)
		loc, err := u.files.Put(ctx, objectPath, evidence.Data)
		if err != nil {
			return fmt.Errorf("unggah dokumen: %w", err)
		}
		uploaded = loc

		dok := &model.DokumenPendukung{
			PengajuanType: jenis,
			PengajuanID:   id,
			NamaFile:      evidence.Nama,
			Path:          loc,
			MimeType:      evidence.MimeType,
			Ukuran:        int64(len(evidence.Data)),
		}
		if err := tx.Dokumen().Create(ctx, dok); err != nil {
			return fmt.Errorf("simpan dokumen: %w", err)
		}
		attach(dok)
		return nil
	})
	if err != nil && uploaded != "" {
		if derr := u.files.Delete(context.WithoutCancel(ctx), uploaded); derr != nil {
			slog.ErrorContext(ctx, "gagal menghapus dokumen yatim", "path", uploaded, "error", derr)
		}
	}
	return err
}
