package mmu

import (
	"errors"
	"testing"

	"github.com/gocpu/m68kvm/m68k"
)

func TestReadWriteWidths(t *testing.T) {
	m := New()
	m.Write(m68k.Long, 0x100, 0x01020304)
	if got := m.Read(m68k.Long, 0x100); got != 0x01020304 {
		t.Errorf("Read(Long) = %#x, want 0x01020304", got)
	}
	if got := m.Read(m68k.Word, 0x100); got != 0x0102 {
		t.Errorf("Read(Word) = %#x, want 0x0102", got)
	}
	if got := m.Read(m68k.Byte, 0x100); got != 0x01 {
		t.Errorf("Read(Byte) = %#x, want 0x01", got)
	}
}

func TestAddressWraps24Bit(t *testing.T) {
	m := New()
	m.Write(m68k.Byte, Size, 0xAB)
	if got := m.Read(m68k.Byte, 0); got != 0xAB {
		t.Errorf("address did not wrap at 24-bit boundary: got %#x", got)
	}
}

func TestReset(t *testing.T) {
	m := New()
	m.Write(m68k.Long, 0, 0xDEADBEEF)
	m.Reset()
	if got := m.Read(m68k.Long, 0); got != 0 {
		t.Errorf("Reset() left %#x at address 0, want 0", got)
	}
}

func TestLoadTooLarge(t *testing.T) {
	m := New()
	err := m.Load(make([]byte, Size+1))
	if !errors.Is(err, ErrROMTooLarge) {
		t.Errorf("Load() error = %v, want ErrROMTooLarge", err)
	}
}

func TestLoadAndSlice(t *testing.T) {
	m := New()
	rom := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if err := m.Load(rom); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := m.Slice(0, 4)
	for i, b := range rom {
		if got[i] != b {
			t.Errorf("Slice()[%d] = %#x, want %#x", i, got[i], b)
		}
	}
}

func TestSliceClampsAtEnd(t *testing.T) {
	m := New()
	got := m.Slice(Size-2, 8)
	if len(got) != 2 {
		t.Errorf("Slice() near end of memory = %d bytes, want 2", len(got))
	}
}
