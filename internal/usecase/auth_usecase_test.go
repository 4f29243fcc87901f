package usecase

import (
	"context"
	"testing"
	"time"

	"cuti-dinas-backend/internal/auth"
	"cuti-dinas-backend/internal/repository/repositorytest"
	"cuti-dinas-backend/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLogin(t *testing.T) {
	store := repositorytest.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.MinCost)
	require.NoError(t, err)

	aktif := newPegawai("Budi Santoso", "199001012015011001", workflow.RoleVerifikatorInstansi, 10, 1)
	aktif.Password = string(hash)
	aktif = store.AddPegawai(aktif)

	nonaktif := newPegawai("Lama", "198001012005011001", workflow.RolePegawai, 10, 1)
	nonaktif.Password = string(hash)
	nonaktif.IsActive = false
	store.AddPegawai(nonaktif)

	tokens := auth.NewTokenManager("rahasia-uji", time.Hour)
	uc := NewAuthUsecase(store.Pegawai(), tokens)
	ctx := context.Background()

	res, err := uc.Login(ctx, " 199001012015011001 ", "rahasia123")
	require.NoError(t, err)
	claims, err := tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, aktif.Actor(), claims.Actor())

	_, err = uc.Login(ctx, "199001012015011001", "salah")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = uc.Login(ctx, "000", "rahasia123")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = uc.Login(ctx, "198001012005011001", "rahasia123")
	assert.ErrorIs(t, err, ErrInactive)

	p, err := uc.Profile(ctx, claims.Actor())
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", p.Nama)
}

func TestHashPasswordVerifies(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("admin123")))
}
