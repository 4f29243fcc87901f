package workflow

import (
	"fmt"
	"strconv"
	"strings"
)

// Role adalah peran pengguna. Nilai string disimpan di kolom pegawai.role.
type Role string

const (
	RoleAdmin               Role = "admin"
	RoleVerifikatorUnit     Role = "verifikator_unit"
	RoleVerifikatorInstansi Role = "verifikator_instansi"
	RolePimpinan            Role = "pimpinan"
	RolePegawai             Role = "pegawai"
)

// Kode numerik peran dari skema lama.
var legacyRoleCodes = map[int]Role{
	1: RoleAdmin,
	2: RoleVerifikatorUnit,
	3: RoleVerifikatorInstansi,
	4: RolePimpinan,
	5: RolePegawai,
}

type Capability string

const (
	CapSubmit  Capability = "ajukan"
	CapVerify  Capability = "verifikasi"
	CapApprove Capability = "setujui"
	CapViewAll Capability = "lihat_semua"
)

var capabilities = map[Role][]Capability{
	RoleAdmin:               {CapSubmit, CapVerify, CapApprove, CapViewAll},
	RoleVerifikatorUnit:     {CapSubmit, CapVerify},
	RoleVerifikatorInstansi: {CapSubmit, CapVerify},
	RolePimpinan:            {CapSubmit, CapApprove, CapViewAll},
	RolePegawai:             {CapSubmit},
}

// ParseRole menerima nama peran atau kode numerik lama.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if code, err := strconv.Atoi(s); err == nil {
		if r, ok := legacyRoleCodes[code]; ok {
			return r, nil
		}
		return "", fmt.Errorf("kode peran %d tidak dikenal", code)
	}
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("peran %q tidak dikenal", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

// Can adalah satu-satunya pemeriksaan hak akses berbasis peran.
func (r Role) Can(c Capability) bool {
	for _, have := range capabilities[r] {
		if have == c {
			return true
		}
	}
	return false
}

// Scope adalah jangkauan data yang boleh ditinjau sebuah peran.
type Scope int

const (
	ScopeSelf Scope = iota
	ScopeUnit
	ScopeInstansi
	ScopeAll
)

func (r Role) Scope() Scope {
	switch r {
	case RoleAdmin, RolePimpinan:
		return ScopeAll
	case RoleVerifikatorInstansi:
		return ScopeInstansi
	case RoleVerifikatorUnit:
		return ScopeUnit
	}
	return ScopeSelf
}

// Actor adalah identitas pengguna yang sedang login beserta penempatannya.
type Actor struct {
	ID          uint
	Role        Role
	UnitKerjaID uint
	InstansiID  uint
}

// Covers melaporkan apakah pegawai pemilik berada dalam jangkauan actor.
func (a Actor) Covers(owner Actor) bool {
	switch a.Role.Scope() {
	case ScopeAll:
		return true
	case ScopeInstansi:
		return a.InstansiID != 0 && a.InstansiID == owner.InstansiID
	case ScopeUnit:
		return a.UnitKerjaID != 0 && a.UnitKerjaID == owner.UnitKerjaID
	}
	return a.ID != 0 && a.ID == owner.ID
}
