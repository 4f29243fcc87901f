package usecase

import (
	"errors"

	"cuti-dinas-backend/internal/validation"
)

var (
	ErrNotFound        = errors.New("data tidak ditemukan")
	ErrForbidden       = errors.New("anda tidak berhak melakukan aksi ini")
	ErrUnauthenticated = errors.New("NIP atau password salah")
	ErrInactive        = errors.New("akun tidak aktif")
)

// ValidationError membawa kesalahan per field dari input pengguna.
type ValidationError struct {
	Fields validation.FieldErrors
}

func (e *ValidationError) Error() string { return "data yang dikirim tidak valid" }

func invalid(field, message string) *ValidationError {
	f := validation.FieldErrors{}
	f.Add(field, message)
	return &ValidationError{Fields: f}
}
