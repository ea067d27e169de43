package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gocpu/m68kvm/m68k"
)

// fakeBus is a minimal m68k.Bus for exercising string-by-reference tasks.
type fakeBus struct {
	mem [1024]byte
}

func (b *fakeBus) Read(op m68k.Size, addr uint32) uint32 {
	switch op {
	case m68k.Byte:
		return uint32(b.mem[addr])
	case m68k.Word:
		return uint32(b.mem[addr])<<8 | uint32(b.mem[addr+1])
	case m68k.Long:
		return uint32(b.mem[addr])<<24 | uint32(b.mem[addr+1])<<16 |
			uint32(b.mem[addr+2])<<8 | uint32(b.mem[addr+3])
	}
	return 0
}

func (b *fakeBus) Write(op m68k.Size, addr uint32, val uint32) {
	switch op {
	case m68k.Byte:
		b.mem[addr] = byte(val)
	case m68k.Word:
		b.mem[addr], b.mem[addr+1] = byte(val>>8), byte(val)
	case m68k.Long:
		b.mem[addr], b.mem[addr+1] = byte(val>>24), byte(val>>16)
		b.mem[addr+2], b.mem[addr+3] = byte(val>>8), byte(val)
	}
}

func (b *fakeBus) Reset() {}

func newTestConsole(t *testing.T, out *bytes.Buffer) (*Console, *m68k.CPU, *fakeBus) {
	t.Helper()
	bus := &fakeBus{}
	cpu := m68k.New(bus)
	c := New(cpu, bus, out, strings.NewReader(""), nil)
	return c, cpu, bus
}

func TestDisplaySignedInt(t *testing.T) {
	var out bytes.Buffer
	c, cpu, _ := newTestConsole(t, &out)
	r := cpu.Registers()
	r.D[0] = 3
	v := int32(-42)
	r.D[1] = uint32(v)
	cpu.SetState(r.D, r.A, r.PC, r.SR, r.USP, r.SSP)

	c.Handle(cpu)

	if got := strings.TrimSpace(out.String()); got != "-42" {
		t.Errorf("Handle() wrote %q, want -42", got)
	}
}

func TestPrintTerminatedString(t *testing.T) {
	var out bytes.Buffer
	c, cpu, bus := newTestConsole(t, &out)

	msg := "hi\x00"
	for i, ch := range []byte(msg) {
		bus.mem[0x200+i] = ch
	}

	r := cpu.Registers()
	r.D[0] = 14
	r.A[1] = 0x200
	cpu.SetState(r.D, r.A, r.PC, r.SR, r.USP, r.SSP)

	c.Handle(cpu)

	if out.String() != "hi" {
		t.Errorf("Handle() wrote %q, want %q", out.String(), "hi")
	}
}

func TestHaltTask(t *testing.T) {
	var out bytes.Buffer
	c, cpu, _ := newTestConsole(t, &out)
	r := cpu.Registers()
	r.D[0] = 9
	cpu.SetState(r.D, r.A, r.PC, r.SR, r.USP, r.SSP)

	c.Handle(cpu)

	if !cpu.Halted() {
		t.Errorf("Halted() = false after task 9, want true")
	}
}

func TestUnknownTaskIsLogged(t *testing.T) {
	var out bytes.Buffer
	var logged bool
	c, cpu, _ := newTestConsole(t, &out)
	c.log = loggerFunc(func(string, ...any) { logged = true })

	r := cpu.Registers()
	r.D[0] = 200
	cpu.SetState(r.D, r.A, r.PC, r.SR, r.USP, r.SSP)

	c.Handle(cpu)

	if !logged {
		t.Errorf("unknown task did not log")
	}
	if out.Len() != 0 {
		t.Errorf("unknown task wrote %q to output, want nothing", out.String())
	}
}

type loggerFunc func(string, ...any)

func (f loggerFunc) Printf(format string, args ...any) { f(format, args...) }
