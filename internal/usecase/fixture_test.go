package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"cuti-dinas-backend/internal/model"
	"cuti-dinas-backend/internal/repository/repositorytest"
	"cuti-dinas-backend/internal/storage"
	"cuti-dinas-backend/internal/validation"
	"cuti-dinas-backend/internal/workflow"

	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type sentMail struct {
	To      []string
	Subject string
	Body    string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, to []string, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{To: to, Subject: subject, Body: body})
	return n.err
}

func (n *recordingNotifier) all() []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMail(nil), n.sent...)
}

// flakyFiles membungkus EvidenceStore untuk menggagalkan unggahan dan mencatat penghapusan.
type flakyFiles struct {
	storage.EvidenceStore
	mu      sync.Mutex
	putErr  error
	deleted []string
}

func (f *flakyFiles) Put(ctx context.Context, objectPath string, data []byte) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	return f.EvidenceStore.Put(ctx, objectPath, data)
}

func (f *flakyFiles) Delete(ctx context.Context, objectPath string) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, objectPath)
	f.mu.Unlock()
	return f.EvidenceStore.Delete(ctx, objectPath)
}

type fixture struct {
	store  *repositorytest.Store
	files  *flakyFiles
	root   string
	signer *storage.URLSigner
	mail   *recordingNotifier
	uc     *PengajuanUsecase

	pegawai   model.Pegawai
	rekan     model.Pegawai
	luarUnit  model.Pegawai
	verifUnit model.Pegawai
	verifLain model.Pegawai
	pimpinan  model.Pegawai
}

func newPegawai(nama, nip string, role workflow.Role, unit, instansi uint) model.Pegawai {
	return model.Pegawai{
		Nama:        nama,
		NIP:         nip,
		Email:       nip + "@contoh.go.id",
		Role:        role,
		UnitKerjaID: unit,
		InstansiID:  instansi,
		IsActive:    true,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "dokumen")
	afsStore, err := storage.NewAFSStore(ctx, root)
	require.NoError(t, err)

	f := &fixture{
		store:  repositorytest.New(),
		files:  &flakyFiles{EvidenceStore: afsStore},
		root:   root,
		signer: storage.NewURLSigner("rahasia-uji", 0),
		mail:   &recordingNotifier{},
	}
	f.pegawai = f.store.AddPegawai(newPegawai("Budi Santoso", "199001012015011001", workflow.RolePegawai, 10, 1))
	f.rekan = f.store.AddPegawai(newPegawai("Sari Dewi", "199202022016022002", workflow.RolePegawai, 10, 1))
	f.luarUnit = f.store.AddPegawai(newPegawai("Agus Salim", "198805052012051005", workflow.RolePegawai, 20, 1))
	f.verifUnit = f.store.AddPegawai(newPegawai("Rina Verifikator", "198503032010032003", workflow.RoleVerifikatorUnit, 10, 1))
	f.verifLain = f.store.AddPegawai(newPegawai("Dodi Verifikator", "198604042011041004", workflow.RoleVerifikatorUnit, 20, 1))
	f.pimpinan = f.store.AddPegawai(newPegawai("Ibu Kepala", "197001012000012001", workflow.RolePimpinan, 1, 1))

	f.uc = NewPengajuanUsecase(f.store, f.files, f.signer, f.mail, validation.DefaultEvidenceRules())
	return f
}

func cutiInput() validation.CutiInput {
	return validation.CutiInput{
		JenisCuti:  "Cuti Tahunan",
		Alasan:     "Menghadiri pernikahan keluarga",
		TglMulai:   "2025-11-06",
		TglSelesai: "2025-11-08",
	}
}

func dinasInput(peserta ...uint) validation.DinasInput {
	return validation.DinasInput{
		Tujuan:     "Jakarta",
		Keperluan:  "Rapat koordinasi anggaran",
		TglMulai:   "2025-11-10T08:00",
		TglSelesai: "2025-11-12T17:00",
		Peserta:    peserta,
	}
}

func pdf(name string) *validation.Berkas {
	return &validation.Berkas{Nama: name, Ukuran: int64(len(pdfBytes)), Data: pdfBytes}
}

func (f *fixture) submitCuti(t *testing.T) *model.PengajuanCuti {
	t.Helper()
	c, err := f.uc.SubmitCuti(context.Background(), f.pegawai.Actor(), cutiInput(), pdf("surat.pdf"))
	require.NoError(t, err)
	return c
}

var errDiskPenuh = errors.New("disk penuh")
