package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"cuti-dinas-backend/internal/auth"
	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/repository"
	"cuti-dinas-backend/internal/workflow"

	"golang.org/x/crypto/bcrypt"
)

type AuthUsecase struct {
	pegawai repository.PegawaiRepository
	tokens  *auth.TokenManager
}

func NewAuthUsecase(pegawai repository.PegawaiRepository, tokens *auth.TokenManager) *AuthUsecase {
	return &AuthUsecase{pegawai: pegawai, tokens: tokens}
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Pegawai   *model.Pegawai
}

func (u *AuthUsecase) Login(ctx context.Context, nip, password string) (*LoginResult, error) {
	nip = strings.TrimSpace(nip)
	if nip == "" || password == "" {
		return nil, ErrUnauthenticated
	}

	// 1. Cari pegawai berdasarkan NIP
	p, err := u.pegawai.FindByNIP(ctx, nip)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	// 2. Bandingkan password dengan hash
	if err := bcrypt.CompareHashAndPassword([]byte(p.Password), []byte(password)); err != nil {
		slog.WarnContext(ctx, "login gagal", "nip", nip)
		return nil, ErrUnauthenticated
	}
	if !p.IsActive {
		return nil, ErrInactive
	}

	// 3. Terbitkan token sesi
	token, expires, err := u.tokens.Issue(p)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expires, Pegawai: p}, nil
}

func (u *AuthUsecase) Profile(ctx context.Context, actor workflow.Actor) (*model.Pegawai, error) {
	p, err := u.pegawai.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return p, nil
}

// HashPassword dipakai seeder dan test untuk menyiapkan akun.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
