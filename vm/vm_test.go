package vm

import (
	"context"
	"testing"
	"time"
)

// nopROM is a tiny vector table (SSP=0x10000, PC=0x400) followed by a
// single NOP ($4E71) at 0x400 and a STOP #$2700 ($4E72 0x2700) right
// after it at 0x402, so Run stops the CPU deterministically.
func nopROM() []byte {
	rom := make([]byte, 0x402)
	rom[0], rom[1], rom[2], rom[3] = 0x00, 0x01, 0x00, 0x00 // SSP = 0x10000
	rom[4], rom[5], rom[6], rom[7] = 0x00, 0x00, 0x04, 0x00 // PC = 0x400
	rom[0x400], rom[0x401] = 0x4E, 0x71                     // NOP
	return append(rom, 0x4E, 0x72, 0x27, 0x00)              // STOP #$2700
}

func TestLoadAndReset(t *testing.T) {
	v := New()
	if err := v.Load(nopROM()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	v.Reset()
	if got := v.PC(); got != 0x400 {
		t.Errorf("PC() after Reset = %#x, want 0x400", got)
	}
	if got := v.SSP(); got != 0x10000 {
		t.Errorf("SSP() after Reset = %#x, want 0x10000", got)
	}
}

func TestSetters(t *testing.T) {
	v := New()
	v.SetPC(0x1000)
	v.SetUSP(0x2000)
	v.SetSSP(0x3000)
	if v.PC() != 0x1000 {
		t.Errorf("PC() = %#x, want 0x1000", v.PC())
	}
	if v.USP() != 0x2000 {
		t.Errorf("USP() = %#x, want 0x2000", v.USP())
	}
	if v.SSP() != 0x3000 {
		t.Errorf("SSP() = %#x, want 0x3000", v.SSP())
	}
}

func TestStepAdvancesPC(t *testing.T) {
	v := New()
	if err := v.Load(nopROM()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	v.Reset()
	v.Step()
	if got := v.PC(); got != 0x402 {
		t.Errorf("PC() after one NOP = %#x, want 0x402", got)
	}
}

func TestRunStopsOnStop(t *testing.T) {
	v := New()
	if err := v.Load(nopROM()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	v.Reset()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := v.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !v.Stopped() {
		t.Errorf("Stopped() = false after running past STOP, want true")
	}
}

func TestRunRespectsCancellation(t *testing.T) {
	v := New()
	// Vector table only; PC defaults to 0, which decodes as a string of
	// zero opcodes. ORI.B #imm,D0 ($0000) at 0x0000 is a safe infinite stepper
	// for this test since it never halts or stops on its own.
	if err := v.Load(make([]byte, 8)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := v.Run(ctx); err != ErrContextDone {
		t.Errorf("Run() error = %v, want ErrContextDone", err)
	}
}

func TestMemorySlice(t *testing.T) {
	v := New()
	rom := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	if err := v.Load(rom); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := v.MemorySlice(0, 4)
	for i, b := range rom {
		if got[i] != b {
			t.Errorf("MemorySlice()[%d] = %#x, want %#x", i, got[i], b)
		}
	}
}
