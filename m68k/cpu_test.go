package m68k

import "testing"

func TestAddressError(t *testing.T) {
	t.Run("word read from odd address halts", func(t *testing.T) {
		bus := &testBus{}
		cpu := &CPU{bus: bus}

		// MOVE.W (A0), D0 — opcode 0x3010
		pc := uint32(0x1000)
		writeWord(bus, pc, 0x3010)

		var a [8]uint32
		a[0] = 0x2001 // A0 = odd address
		cpu.SetState([8]uint32{}, a, pc, 0x2700, 0, 0x10000)
		cpu.Step()

		if !cpu.Halted() {
			t.Errorf("expected CPU to be halted after word read from odd address")
		}
	})

	t.Run("long read from odd address halts", func(t *testing.T) {
		bus := &testBus{}
		cpu := &CPU{bus: bus}

		// MOVE.L (A0), D0 — opcode 0x2010
		pc := uint32(0x1000)
		writeWord(bus, pc, 0x2010)

		var a [8]uint32
		a[0] = 0x2001 // A0 = odd address
		cpu.SetState([8]uint32{}, a, pc, 0x2700, 0, 0x10000)
		cpu.Step()

		if !cpu.Halted() {
			t.Errorf("expected CPU to be halted after long read from odd address")
		}
	})

	t.Run("word write to odd address halts", func(t *testing.T) {
		bus := &testBus{}
		cpu := &CPU{bus: bus}

		// MOVE.W D0, (A0) — opcode 0x3080
		pc := uint32(0x1000)
		writeWord(bus, pc, 0x3080)

		var a [8]uint32
		a[0] = 0x2001 // A0 = odd address
		cpu.SetState([8]uint32{0x1234}, a, pc, 0x2700, 0, 0x10000)
		cpu.Step()

		if !cpu.Halted() {
			t.Errorf("expected CPU to be halted after word write to odd address")
		}
	})

	t.Run("long write to odd address halts", func(t *testing.T) {
		bus := &testBus{}
		cpu := &CPU{bus: bus}

		// MOVE.L D0, (A0) — opcode 0x2080
		pc := uint32(0x1000)
		writeWord(bus, pc, 0x2080)

		var a [8]uint32
		a[0] = 0x2001 // A0 = odd address
		cpu.SetState([8]uint32{0x12345678}, a, pc, 0x2700, 0, 0x10000)
		cpu.Step()

		if !cpu.Halted() {
			t.Errorf("expected CPU to be halted after long write to odd address")
		}
	})

	t.Run("byte read from odd address works", func(t *testing.T) {
		bus := &testBus{}
		cpu := &CPU{bus: bus}

		// MOVE.B (A0), D0 — opcode 0x1010
		pc := uint32(0x1000)
		writeWord(bus, pc, 0x1010)

		var a [8]uint32
		a[0] = 0x2001 // A0 = odd address
		bus.mem[0x2001] = 0xAB
		cpu.SetState([8]uint32{}, a, pc, 0x2700, 0, 0x10000)
		cpu.Step()

		if cpu.Halted() {
			t.Errorf("CPU should not halt on byte read from odd address")
		}
		reg := cpu.Registers()
		if reg.D[0]&0xFF != 0xAB {
			t.Errorf("D0 low byte = 0x%02X, want 0xAB", reg.D[0]&0xFF)
		}
	})

	t.Run("byte write to odd address works", func(t *testing.T) {
		bus := &testBus{}
		cpu := &CPU{bus: bus}

		// MOVE.B D0, (A0) — opcode 0x1080
		pc := uint32(0x1000)
		writeWord(bus, pc, 0x1080)

		var a [8]uint32
		a[0] = 0x2001 // A0 = odd address
		cpu.SetState([8]uint32{0xCD}, a, pc, 0x2700, 0, 0x10000)
		cpu.Step()

		if cpu.Halted() {
			t.Errorf("CPU should not halt on byte write to odd address")
		}
		if bus.mem[0x2001] != 0xCD {
			t.Errorf("RAM[0x2001] = 0x%02X, want 0xCD", bus.mem[0x2001])
		}
	})

	t.Run("odd PC halts", func(t *testing.T) {
		bus := &testBus{}
		cpu := &CPU{bus: bus}

		// Put a NOP at address 0x1000 in case fetch reaches there
		writeWord(bus, 0x1000, 0x4E71)

		// Set PC to an odd address
		cpu.SetState([8]uint32{}, [8]uint32{}, 0x1001, 0x2700, 0, 0x10000)
		cycles := cpu.Step()

		if !cpu.Halted() {
			t.Errorf("expected CPU to be halted with odd PC")
		}
		if cycles != 0 {
			t.Errorf("Step() returned %d cycles, want 0 for halted CPU", cycles)
		}
	})

	t.Run("odd SSP during exception halts", func(t *testing.T) {
		bus := &testBus{}
		cpu := &CPU{bus: bus}

		// Use an unimplemented opcode to trigger illegal instruction exception.
		// Opcode 0x4AFC is the explicit ILLEGAL instruction on 68000.
		// The illegal instruction vector (4) address = 4*4 = 16.
		// Put a handler address at vector 4 (address 0x10).
		bus.mem[0x10] = 0x00
		bus.mem[0x11] = 0x00
		bus.mem[0x12] = 0x20
		bus.mem[0x13] = 0x00 // handler at 0x2000

		pc := uint32(0x1000)
		writeWord(bus, pc, 0x4AFC)

		// SSP is odd — the exception push (pushLong/pushWord) will try
		// to write to an odd address, triggering the alignment check.
		cpu.SetState([8]uint32{}, [8]uint32{}, pc, 0x2700, 0, 0x10001)
		cpu.Step()

		if !cpu.Halted() {
			t.Errorf("expected CPU to be halted when exception pushes to odd SSP")
		}
	})
}

func TestStoppedCPU(t *testing.T) {
	cpu, _ := newNOPCPU(1)
	cpu.stopped = true

	if cycles := cpu.Step(); cycles != 0 {
		t.Errorf("Step() on stopped CPU = %d, want 0", cycles)
	}
	if !cpu.Stopped() {
		t.Errorf("Stopped() = false, want true")
	}
}

func TestConsoleTrapOverridesTrap15(t *testing.T) {
	bus := &testBus{}
	pc := uint32(0x1000)
	writeWord(bus, pc, 0x4E4F) // TRAP #15

	cpu := &CPU{bus: bus}
	cpu.SetState([8]uint32{}, [8]uint32{}, pc, 0x2700, 0, 0x10000)

	called := false
	cpu.SetConsoleTrap(func(c *CPU) { called = true })
	cpu.Step()

	if !called {
		t.Errorf("console trap handler was not invoked for TRAP #15")
	}
	if cpu.Halted() {
		t.Errorf("CPU should not halt when a console trap handler is installed")
	}
}
