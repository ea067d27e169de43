// Package vm wires the m68k CPU core to a flat memory and exposes the
// small public surface a driver (CLI or TUI) needs: loading a ROM image,
// seeding the starting register state, and running or single-stepping.
package vm

import (
	"context"
	"errors"

	"github.com/gocpu/m68kvm/m68k"
	"github.com/gocpu/m68kvm/mmu"
)

// LoaderError wraps a failure loading a ROM image, surfaced to the host
// before the CPU ever runs.
type LoaderError struct {
	Err error
}

func (e *LoaderError) Error() string { return "vm: load: " + e.Err.Error() }
func (e *LoaderError) Unwrap() error { return e.Err }

// VM couples a CPU to its memory. Construction allocates both; Load
// installs a program, and Step/Run drive execution.
type VM struct {
	mem *mmu.Memory
	cpu *m68k.CPU
}

// New allocates a fresh 16 MiB memory and a CPU wired to it. The CPU
// performs its ordinary hardware reset against the (still zeroed) memory,
// so PC and the stack pointers all start at zero until Load and the
// SetXXX accessors establish a real starting state.
func New() *VM {
	mem := mmu.New()
	cpu := m68k.New(mem)
	return &VM{mem: mem, cpu: cpu}
}

// CPU returns the underlying CPU, for installing a console trap handler
// or other hooks that need direct access.
func (v *VM) CPU() *m68k.CPU { return v.cpu }

// SetLogger routes the CPU's address-error and exception diagnostics
// through l instead of the standard logger.
func (v *VM) SetLogger(l m68k.Logger) { v.cpu.SetLogger(l) }

// Bus returns the underlying memory as an m68k.Bus, for wiring a console
// trap handler that needs to read program memory directly.
func (v *VM) Bus() m68k.Bus { return v.mem }

// Load copies rom into memory starting at address 0. It does not by
// itself re-read the reset vector; call Reset afterward if rom carries
// its own vector table at addresses 0 and 4, or use SetPC/SetUSP/SetSSP
// to establish a starting state directly.
func (v *VM) Load(rom []byte) error {
	if err := v.mem.Load(rom); err != nil {
		return &LoaderError{Err: err}
	}
	return nil
}

// Reset performs the CPU's ordinary hardware reset: it reloads SSP from
// address 0 and PC from address 4, so a ROM carrying its own vector
// table takes effect.
func (v *VM) Reset() {
	v.cpu.Reset()
}

// SetPC sets the starting program counter, leaving all other registers
// as they currently stand.
func (v *VM) SetPC(pc uint32) {
	r := v.cpu.Registers()
	v.cpu.SetState(r.D, r.A, pc, r.SR, r.USP, r.SSP)
}

// SetUSP sets the user stack pointer.
func (v *VM) SetUSP(usp uint32) {
	r := v.cpu.Registers()
	v.cpu.SetState(r.D, r.A, r.PC, r.SR, usp, r.SSP)
}

// SetSSP sets the supervisor stack pointer.
func (v *VM) SetSSP(ssp uint32) {
	r := v.cpu.Registers()
	v.cpu.SetState(r.D, r.A, r.PC, r.SR, r.USP, ssp)
}

// Step executes one instruction and returns its cycle cost.
func (v *VM) Step() int {
	return v.cpu.Step()
}

// Halted reports whether the CPU has halted on a processor fault.
func (v *VM) Halted() bool { return v.cpu.Halted() }

// Stopped reports whether the CPU is parked in the STOP state.
func (v *VM) Stopped() bool { return v.cpu.Stopped() }

// Cycles returns the total cycle count since the last reset.
func (v *VM) Cycles() uint64 { return v.cpu.Cycles() }

// ErrContextDone is returned by Run when ctx is cancelled before the CPU
// halts or stops on its own.
var ErrContextDone = errors.New("vm: run cancelled")

// Run steps the CPU until it halts, stops, or ctx is cancelled.
// Cancellation is only checked between instructions, never mid-step.
func (v *VM) Run(ctx context.Context) error {
	for !v.cpu.Halted() && !v.cpu.Stopped() {
		select {
		case <-ctx.Done():
			return ErrContextDone
		default:
		}
		v.cpu.Step()
	}
	return nil
}

// PC returns the current program counter.
func (v *VM) PC() uint32 { return v.cpu.Registers().PC }

// DR returns the value of data register i (0-7).
func (v *VM) DR(i int) uint32 { return v.cpu.Registers().D[i] }

// AR returns the value of address register i (0-7); index 7 is the
// currently active stack pointer.
func (v *VM) AR(i int) uint32 { return v.cpu.Registers().A[i] }

// SR returns the full status register.
func (v *VM) SR() uint16 { return v.cpu.Registers().SR }

// USP returns the shadow user stack pointer.
func (v *VM) USP() uint32 { return v.cpu.Registers().USP }

// SSP returns the shadow supervisor stack pointer.
func (v *VM) SSP() uint32 { return v.cpu.Registers().SSP }

// CCR reports whether the named condition code bit is set.
// Valid names: 'X', 'N', 'Z', 'V', 'C'.
func (v *VM) CCR(bit byte) bool {
	sr := v.cpu.Registers().SR
	switch bit {
	case 'C':
		return sr&0x0001 != 0
	case 'V':
		return sr&0x0002 != 0
	case 'Z':
		return sr&0x0004 != 0
	case 'N':
		return sr&0x0008 != 0
	case 'X':
		return sr&0x0010 != 0
	default:
		return false
	}
}

// MemorySlice returns a read-only copy of n bytes of memory starting at
// addr, for diagnostics and TUI display.
func (v *VM) MemorySlice(addr, n uint32) []byte {
	return v.mem.Slice(addr, n)
}
