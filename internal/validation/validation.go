// Package validation memeriksa data pengajuan sebelum ada penulisan ke
// penyimpanan. Kesalahan dikembalikan per field agar bisa dipetakan ke form.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

// Format tanggal-waktu yang diterima untuk perjalanan dinas.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// JenisCutiValid adalah daftar jenis cuti yang boleh diajukan.
var JenisCutiValid = []string{
	"Cuti Tahunan",
	"Cuti Besar",
	"Cuti Sakit",
	"Cuti Melahirkan",
	"Cuti Karena Alasan Penting",
	"Cuti di Luar Tanggungan Negara",
}

// FieldErrors memetakan nama field ke daftar pesan kesalahan.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		f[field] = append(f[field], msgs...)
	}
}

func (f FieldErrors) Empty() bool { return len(f) == 0 }

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("jenis_cuti", func(fl validator.FieldLevel) bool {
			value := strings.TrimSpace(fl.Field().String())
			for _, j := range JenisCutiValid {
				if j == value {
					return true
				}
			}
			return false
		})
		_ = v.RegisterValidation("tanggal_waktu", func(fl validator.FieldLevel) bool {
			_, err := ParseDateTime(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// ParseDateTime mengurai tanggal-waktu dalam zona waktu lokal kecuali
// masukan membawa offset sendiri.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("format tanggal-waktu %q tidak dikenal", s)
}

// ParseDate mengurai tanggal kalender (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}

func structErrors(in any) FieldErrors {
	fields := FieldErrors{}
	err := engine().Struct(in)
	if err == nil {
		return fields
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields.Add("_", err.Error())
		return fields
	}
	for _, fe := range verrs {
		name := fe.Field()
		if i := strings.IndexByte(name, '['); i > 0 {
			name = name[:i]
		}
		fields.Add(name, message(fe))
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Wajib diisi"
	case "min":
		return fmt.Sprintf("Minimal %s karakter", fe.Param())
	case "max":
		return fmt.Sprintf("Maksimal %s karakter", fe.Param())
	case "datetime":
		return "Format tanggal harus YYYY-MM-DD"
	case "tanggal_waktu":
		return "Format tanggal-waktu harus YYYY-MM-DDTHH:MM"
	case "jenis_cuti":
		return "Jenis cuti tidak dikenal"
	case "gt":
		return "Pegawai tidak valid"
	}
	return "Tidak valid"
}
