// Package mmu implements the flat byte-addressable memory backing a
// Motorola 68000 system: a 16 MiB array accessed through big-endian
// byte/word/long operations, with all addresses masked to 24 bits.
package mmu

import (
	"errors"
	"fmt"

	"github.com/gocpu/m68kvm/m68k"
)

// Size is the total addressable memory: the 68000's 24-bit address bus.
const Size = 16 * 1024 * 1024

// ErrROMTooLarge is returned by Load when the image does not fit in memory.
var ErrROMTooLarge = errors.New("mmu: ROM image exceeds memory size")

// Memory is a flat 16 MiB byte array implementing m68k.Bus.
type Memory struct {
	ram [Size]byte
}

// New returns a zero-initialized Memory.
func New() *Memory {
	return &Memory{}
}

// Read returns the value at addr with the given width, masking addr to
// the 24-bit address space. Word and long values are big-endian.
func (m *Memory) Read(op m68k.Size, addr uint32) uint32 {
	addr &= Size - 1
	switch op {
	case m68k.Byte:
		return uint32(m.ram[addr])
	case m68k.Word:
		return uint32(m.ram[addr])<<8 | uint32(m.ram[addr+1])
	case m68k.Long:
		return uint32(m.ram[addr])<<24 | uint32(m.ram[addr+1])<<16 |
			uint32(m.ram[addr+2])<<8 | uint32(m.ram[addr+3])
	default:
		return 0
	}
}

// Write stores val at addr with the given width, masking addr to the
// 24-bit address space. Word and long values are big-endian.
func (m *Memory) Write(op m68k.Size, addr uint32, val uint32) {
	addr &= Size - 1
	switch op {
	case m68k.Byte:
		m.ram[addr] = byte(val)
	case m68k.Word:
		m.ram[addr] = byte(val >> 8)
		m.ram[addr+1] = byte(val)
	case m68k.Long:
		m.ram[addr] = byte(val >> 24)
		m.ram[addr+1] = byte(val >> 16)
		m.ram[addr+2] = byte(val >> 8)
		m.ram[addr+3] = byte(val)
	}
}

// Reset clears all of memory to zero, as a hardware reset would find an
// unprogrammed system (real hardware of course retains ROM contents
// across reset; this zeroes everything since there is no ROM/RAM split).
func (m *Memory) Reset() {
	for i := range m.ram {
		m.ram[i] = 0
	}
}

// Load copies rom into memory starting at address 0, the flat ROM image
// convention: no header, no relocation.
func (m *Memory) Load(rom []byte) error {
	if len(rom) > Size {
		return fmt.Errorf("%w: %d bytes, memory is %d bytes", ErrROMTooLarge, len(rom), Size)
	}
	copy(m.ram[:], rom)
	return nil
}

// Slice returns a read-only copy of n bytes starting at addr, for
// diagnostics and TUI display. addr and the returned range are masked
// to the 24-bit address space; a request that runs past the end of
// memory is truncated.
func (m *Memory) Slice(addr, n uint32) []byte {
	addr &= Size - 1
	end := addr + n
	if end > Size {
		end = Size
	}
	out := make([]byte, end-addr)
	copy(out, m.ram[addr:end])
	return out
}
