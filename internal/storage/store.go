// Package storage menyimpan isi dokumen pendukung di luar database. Database
// hanya menyimpan path relatif yang dikembalikan Put.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

var ErrObjectNotFound = errors.New("dokumen tidak ditemukan di penyimpanan")

// EvidenceStore adalah penyimpanan isi dokumen pendukung.
type EvidenceStore interface {
	Put(ctx context.Context, objectPath string, data []byte) (string, error)
	Open(ctx context.Context, objectPath string) ([]byte, error)
	Delete(ctx context.Context, objectPath string) error
}

// ObjectPath menyusun path objek <pengaju>/<jenis>-<id><ext>.
func ObjectPath(pegawaiID uint, jenis string, pengajuanID uint, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%d/%s-%d%s", pegawaiID, jenis, pengajuanID, ext)
}

// AFSStore menyimpan dokumen lewat viant/afs sehingga baseURL bisa berupa
// file://, mem:// atau skema lain yang didukung afs.
type AFSStore struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

var _ EvidenceStore = (*AFSStore)(nil)

func NewAFSStore(ctx context.Context, baseURL string) (*AFSStore, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("storage base URL cannot be empty")
	}
	fs := afs.New()
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &AFSStore{baseURL: strings.TrimRight(baseURL, "/"), fs: fs}, nil
}

func (s *AFSStore) Put(ctx context.Context, objectPath string, data []byte) (string, error) {
	clean, err := cleanObjectPath(objectPath)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	target := url.Join(s.baseURL, clean)
	if err := s.fs.Upload(ctx, target, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", clean, err)
	}
	return clean, nil
}

func (s *AFSStore) Open(ctx context.Context, objectPath string) ([]byte, error) {
	clean, err := cleanObjectPath(objectPath)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	target := url.Join(s.baseURL, clean)
	exists, err := s.fs.Exists(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", clean, err)
	}
	if !exists {
		return nil, ErrObjectNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", clean, err)
	}
	return data, nil
}

// Delete tidak menganggap objek yang sudah hilang sebagai kesalahan.
func (s *AFSStore) Delete(ctx context.Context, objectPath string) error {
	clean, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	target := url.Join(s.baseURL, clean)
	exists, err := s.fs.Exists(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", clean, err)
	}
	if !exists {
		return nil
	}
	if err := s.fs.Delete(ctx, target); err != nil {
		return fmt.Errorf("failed to delete %s: %w", clean, err)
	}
	return nil
}

func cleanObjectPath(p string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", fmt.Errorf("invalid object path %q", p)
	}
	return clean, nil
}
