package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		step   Step
		action Action
		from   Status
		to     Status
	}{
		{StepVerifikasi, ActionSetuju, StatusMenungguVerifikasi, StatusMenungguPersetujuan},
		{StepVerifikasi, ActionTolak, StatusMenungguVerifikasi, StatusDitolakVerifikator},
		{StepPersetujuan, ActionSetuju, StatusMenungguPersetujuan, StatusDisetujui},
		{StepPersetujuan, ActionTolak, StatusMenungguPersetujuan, StatusDitolakSupervisor},
	}
	for _, tc := range cases {
		from, to, err := Transition(tc.step, tc.action)
		require.NoError(t, err)
		assert.Equal(t, tc.from, from, "%s/%s", tc.step, tc.action)
		assert.Equal(t, tc.to, to, "%s/%s", tc.step, tc.action)
	}

	_, _, err := Transition(Step("arsip"), ActionSetuju)
	assert.ErrorIs(t, err, ErrInvalidStep)
	_, _, err = Transition(StepVerifikasi, Action("tunda"))
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestTerminalStatusesAcceptNoStep(t *testing.T) {
	for _, st := range Statuses() {
		if !st.Terminal() {
			continue
		}
		assert.False(t, CanApply(st, StepVerifikasi), st)
		assert.False(t, CanApply(st, StepPersetujuan), st)
	}
	assert.True(t, CanApply(StatusMenungguVerifikasi, StepVerifikasi))
	assert.False(t, CanApply(StatusMenungguVerifikasi, StepPersetujuan))
	assert.True(t, CanApply(StatusMenungguPersetujuan, StepPersetujuan))
	assert.False(t, CanApply(StatusMenungguPersetujuan, StepVerifikasi))
}

func TestTransitionsOnlyMoveForward(t *testing.T) {
	order := map[Status]int{
		StatusMenungguVerifikasi:  0,
		StatusMenungguPersetujuan: 1,
		StatusDitolakVerifikator:  1,
		StatusDisetujui:           2,
		StatusDitolakSupervisor:   2,
	}
	for key, to := range transitions {
		from := sources[key.step]
		assert.Greater(t, order[to], order[from], "%s -> %s", from, to)
	}
}

func TestParseAction(t *testing.T) {
	for _, in := range []string{"setuju", "Disetujui", " SETUJU "} {
		a, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, ActionSetuju, a)
	}
	for _, in := range []string{"tolak", "Ditolak"} {
		a, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, ActionTolak, a)
	}
	_, err := ParseAction("")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestStatusVocabularies(t *testing.T) {
	st, err := ParseStatus("menunggu_persetujuan")
	require.NoError(t, err)
	assert.Equal(t, StatusMenungguPersetujuan, st)

	_, err = ParseStatus("Diajukan")
	assert.Error(t, err, "REST labels are not storage values")

	assert.Equal(t, RESTDiajukan, StatusMenungguVerifikasi.REST())
	assert.Equal(t, RESTDiajukan, StatusMenungguPersetujuan.REST())
	assert.Equal(t, RESTDitolak, StatusDitolakVerifikator.REST())
	assert.Equal(t, RESTDitolak, StatusDitolakSupervisor.REST())
	assert.Equal(t, RESTDisetujui, StatusDisetujui.REST())
}

func TestParseStatusFilter(t *testing.T) {
	tests := []struct {
		in   string
		want []Status
	}{
		{"disetujui", []Status{StatusDisetujui}},
		{"Disetujui", []Status{StatusDisetujui}},
		{"ditolak_supervisor", []Status{StatusDitolakSupervisor}},
		{" Diajukan ", []Status{StatusMenungguVerifikasi, StatusMenungguPersetujuan}},
		{"ditolak", []Status{StatusDitolakVerifikator, StatusDitolakSupervisor}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatusFilter(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseStatusFilter("ditunda")
	assert.Error(t, err)
}

func TestRoleCapabilities(t *testing.T) {
	assert.True(t, RoleVerifikatorUnit.Can(CapVerify))
	assert.False(t, RoleVerifikatorUnit.Can(CapApprove))
	assert.True(t, RolePimpinan.Can(CapApprove))
	assert.False(t, RolePimpinan.Can(CapVerify))
	assert.True(t, RoleAdmin.Can(CapApprove))
	assert.False(t, RolePegawai.Can(CapVerify))
	assert.True(t, RolePegawai.Can(CapSubmit))
	assert.False(t, Role("tamu").Can(CapSubmit))

	assert.Equal(t, CapVerify, StepVerifikasi.Capability())
	assert.Equal(t, CapApprove, StepPersetujuan.Capability())
}

func TestParseRoleAcceptsLegacyCodes(t *testing.T) {
	r, err := ParseRole("3")
	require.NoError(t, err)
	assert.Equal(t, RoleVerifikatorInstansi, r)

	r, err = ParseRole("Pimpinan")
	require.NoError(t, err)
	assert.Equal(t, RolePimpinan, r)

	_, err = ParseRole("9")
	assert.Error(t, err)
	_, err = ParseRole("operator")
	assert.Error(t, err)
}

func TestActorCovers(t *testing.T) {
	owner := Actor{ID: 7, Role: RolePegawai, UnitKerjaID: 2, InstansiID: 1}

	assert.True(t, Actor{ID: 1, Role: RoleVerifikatorUnit, UnitKerjaID: 2, InstansiID: 1}.Covers(owner))
	assert.False(t, Actor{ID: 1, Role: RoleVerifikatorUnit, UnitKerjaID: 3, InstansiID: 1}.Covers(owner))
	assert.True(t, Actor{ID: 1, Role: RoleVerifikatorInstansi, UnitKerjaID: 3, InstansiID: 1}.Covers(owner))
	assert.False(t, Actor{ID: 1, Role: RoleVerifikatorInstansi, InstansiID: 9}.Covers(owner))
	assert.True(t, Actor{ID: 1, Role: RolePimpinan}.Covers(owner))
	assert.True(t, owner.Covers(owner))
	assert.False(t, Actor{ID: 8, Role: RolePegawai, UnitKerjaID: 2, InstansiID: 1}.Covers(owner))
}
