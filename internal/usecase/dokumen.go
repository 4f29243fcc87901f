package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/storage"
	"cuti-dinas-backend/internal/workflow"
)

var (
	ErrLinkExpired = errors.New("tautan dokumen sudah kedaluwarsa, minta tautan baru")
	ErrInvalidLink = errors.New("tautan dokumen tidak valid")
)

// SignedURL adalah token unduh dokumen beserta waktu kedaluwarsanya.
type SignedURL struct {
	DokumenID uint
	Token     string
	ExpiresAt time.Time
}

// DocumentURL menerbitkan token unduh bagi actor yang boleh melihat pengajuan pemilik dokumen.
func (u *PengajuanUsecase) DocumentURL(ctx context.Context, actor workflow.Actor, dokumenID uint) (*SignedURL, error) {
	dok, err := u.store.Dokumen().FindByID(ctx, dokumenID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	ref, err := u.loadRef(ctx, dok.PengajuanType, dok.PengajuanID)
	if err != nil {
		return nil, err
	}
	if !ref.canView(actor) {
		return nil, ErrForbidden
	}
	token, expires, err := u.signer.Sign(dok.ID)
	if err != nil {
		return nil, err
	}
	return &SignedURL{DokumenID: dok.ID, Token: token, ExpiresAt: expires}, nil
}

// OpenDocument membaca isi dokumen dari token unduh yang masih berlaku.
func (u *PengajuanUsecase) OpenDocument(ctx context.Context, token string) (*model.DokumenPendukung, []byte, error) {
	id, err := u.signer.Verify(token)
	if errors.Is(err, storage.ErrURLTokenExpired) {
		return nil, nil, ErrLinkExpired
	}
	if err != nil {
		slog.WarnContext(ctx, "token unduh dokumen ditolak", "error", err)
		return nil, nil, ErrInvalidLink
	}
	dok, err := u.store.Dokumen().FindByID(ctx, id)
	if err != nil {
		return nil, nil, mapRepoErr(err)
	}
	data, err := u.files.Open(ctx, dok.Path)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			slog.ErrorContext(ctx, "isi dokumen hilang dari penyimpanan", "dokumen_id", dok.ID, "path", dok.Path)
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("baca dokumen: %w", err)
	}
	return dok, data, nil
}
