package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "span.txt")
	require.NoError(t, Init("cuti-dinas-test", "0.0.1", fname))

	_, span := StartSpan(context.Background(), "pengajuan.verifikasi")
	span.WithAttributes(map[string]string{"jenis": "cuti", "id": "1"})
	EndSpan(span, errors.New("pengajuan sudah diproses"))
	require.NoError(t, Shutdown(context.Background()))

	data, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pengajuan.verifikasi")
}

func TestNilSpanIsSafe(t *testing.T) {
	var s *Span
	assert.Nil(t, s.WithAttributes(map[string]string{"k": "v"}))
	EndSpan(s, nil)
}
