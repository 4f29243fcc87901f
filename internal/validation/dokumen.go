package validation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const DefaultMaxUploadBytes int64 = 5 << 20

// DefaultAllowedMIME: dokumen PDF/Word dan gambar.
var DefaultAllowedMIME = []string{
	"application/pdf",
	"image/jpeg",
	"image/png",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Berkas adalah file mentah dari form. Data boleh kosong bila Ukuran
// sudah melebihi batas sehingga isi tidak dibaca.
type Berkas struct {
	Nama   string
	Ukuran int64
	Data   []byte
}

// Evidence adalah berkas yang sudah lolos pemeriksaan ukuran dan tipe.
type Evidence struct {
	Nama     string
	MimeType string
	Ext      string
	Data     []byte
}

type EvidenceRules struct {
	MaxBytes int64
	Allowed  []string
}

func DefaultEvidenceRules() EvidenceRules {
	return EvidenceRules{MaxBytes: DefaultMaxUploadBytes, Allowed: DefaultAllowedMIME}
}

// Check memeriksa berkas tanpa menyentuh penyimpanan. Berkas nil berarti
// pengajuan tanpa dokumen dan selalu lolos.
func (r EvidenceRules) Check(field string, b *Berkas) (*Evidence, FieldErrors) {
	fields := FieldErrors{}
	if b == nil {
		return nil, fields
	}
	size := b.Ukuran
	if n := int64(len(b.Data)); n > size {
		size = n
	}
	if r.MaxBytes > 0 && size > r.MaxBytes {
		fields.Add(field, fmt.Sprintf("Ukuran dokumen maksimal %s", formatBytes(r.MaxBytes)))
		return nil, fields
	}
	if len(b.Data) == 0 {
		fields.Add(field, "Dokumen kosong")
		return nil, fields
	}

	detected := mimetype.Detect(b.Data)
	allowed := false
	for _, m := range r.Allowed {
		if detected.Is(m) {
			allowed = true
			break
		}
	}
	if !allowed {
		fields.Add(field, "Tipe dokumen tidak didukung, gunakan PDF, Word, JPG, atau PNG")
		return nil, fields
	}

	name := strings.TrimSpace(filepath.Base(b.Nama))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "dokumen" + detected.Extension()
	}
	return &Evidence{
		Nama:     name,
		MimeType: detected.String(),
		Ext:      detected.Extension(),
		Data:     b.Data,
	}, fields
}

func formatBytes(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%d MB", n>>20)
	}
	if n >= 1<<10 && n%(1<<10) == 0 {
		return fmt.Sprintf("%d KB", n>>10)
	}
	return fmt.Sprintf("%d byte", n)
}
