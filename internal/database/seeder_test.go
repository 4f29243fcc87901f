package database

import (
	"testing"

	"cuti-dinas-backend/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFixtures(t *testing.T) {
	fx, err := DefaultFixtures()
	require.NoError(t, err)
	require.NotEmpty(t, fx.Pegawai)

	roles := map[workflow.Role]bool{}
	for _, p := range fx.Pegawai {
		roles[p.role] = true
	}
	for _, r := range []workflow.Role{workflow.RoleAdmin, workflow.RolePimpinan, workflow.RoleVerifikatorUnit, workflow.RolePegawai} {
		assert.True(t, roles[r], "seed harus memuat peran %s", r)
	}
}

func TestLoadFixturesRejectsBadReferences(t *testing.T) {
	cases := map[string]string{
		"peran tidak dikenal": `
instansi: [{nama: A, unit_kerja: [U]}]
pegawai: [{nip: "1", nama: X, password: p, role: bos, instansi: A, unit_kerja: U}]`,
		"instansi tidak ada": `
instansi: [{nama: A}]
pegawai: [{nip: "1", nama: X, password: p, role: pegawai, instansi: B}]`,
		"unit kerja tidak ada": `
instansi: [{nama: A, unit_kerja: [U]}]
pegawai: [{nip: "1", nama: X, password: p, role: pegawai, instansi: A, unit_kerja: V}]`,
		"atasan tidak ada": `
instansi: [{nama: A}]
pegawai: [{nip: "1", nama: X, password: p, role: pegawai, instansi: A, atasan: "9"}]`,
		"nip ganda": `
instansi: [{nama: A}]
pegawai:
  - {nip: "1", nama: X, password: p, role: pegawai, instansi: A}
  - {nip: "1", nama: Y, password: p, role: pegawai, instansi: A}`,
		"yaml rusak": "instansi: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFixtures([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFixturesAcceptsLegacyRoleCode(t *testing.T) {
	fx, err := LoadFixtures([]byte(`
instansi: [{nama: A}]
pegawai: [{nip: "1", nama: X, password: p, role: "4", instansi: A}]`))
	require.NoError(t, err)
	assert.Equal(t, workflow.RolePimpinan, fx.Pegawai[0].role)
}
