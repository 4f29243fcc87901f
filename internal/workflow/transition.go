package workflow

import (
	"errors"
	"strings"
)

// Step adalah tahap peninjauan.
type Step string

const (
	StepVerifikasi  Step = "verifikasi"
	StepPersetujuan Step = "persetujuan"
)

// Action adalah keputusan peninjau pada satu tahap.
type Action string

const (
	ActionSetuju Action = "setuju"
	ActionTolak  Action = "tolak"
)

var (
	ErrInvalidAction = errors.New("aksi tidak valid, gunakan setuju atau tolak")
	ErrInvalidStep   = errors.New("tahap peninjauan tidak dikenal")
	// ErrConflict dipakai ketika status pengajuan sudah tidak sama dengan
	// status asal yang diharapkan (sudah diproses peninjau lain).
	ErrConflict = errors.New("pengajuan sudah diproses")
)

type transitionKey struct {
	step   Step
	action Action
}

var sources = map[Step]Status{
	StepVerifikasi:  StatusMenungguVerifikasi,
	StepPersetujuan: StatusMenungguPersetujuan,
}

var transitions = map[transitionKey]Status{
	{StepVerifikasi, ActionSetuju}:  StatusMenungguPersetujuan,
	{StepVerifikasi, ActionTolak}:   StatusDitolakVerifikator,
	{StepPersetujuan, ActionSetuju}: StatusDisetujui,
	{StepPersetujuan, ActionTolak}:  StatusDitolakSupervisor,
}

// ParseAction menerima kosakata form (setuju/tolak) dan kosakata REST
// (Disetujui/Ditolak).
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "setuju", "disetujui", "approve":
		return ActionSetuju, nil
	case "tolak", "ditolak", "reject":
		return ActionTolak, nil
	}
	return "", ErrInvalidAction
}

// Source adalah status yang wajib dimiliki pengajuan sebelum tahap dijalankan.
func Source(step Step) (Status, error) {
	from, ok := sources[step]
	if !ok {
		return "", ErrInvalidStep
	}
	return from, nil
}

// Transition mengembalikan pasangan status asal dan tujuan untuk tahap dan aksi.
func Transition(step Step, action Action) (from, to Status, err error) {
	from, err = Source(step)
	if err != nil {
		return "", "", err
	}
	to, ok := transitions[transitionKey{step, action}]
	if !ok {
		return "", "", ErrInvalidAction
	}
	return from, to, nil
}

// CanApply adalah predikat penjaga: tahap hanya boleh dijalankan pada status asalnya.
func CanApply(current Status, step Step) bool {
	from, err := Source(step)
	return err == nil && current == from
}

// Capability adalah kemampuan yang dibutuhkan untuk menjalankan tahap.
func (s Step) Capability() Capability {
	if s == StepPersetujuan {
		return CapApprove
	}
	return CapVerify
}
