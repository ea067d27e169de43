// Package console implements the MC68000 core's one host-I/O convenience:
// TRAP #15, a non-standard call gate that lets a running program print
// text and numbers without any device model. D0
// selects the task; the remaining arguments are per-task register or
// memory conventions documented on Handle.
package console

import (
	"bufio"
	"fmt"
	"io"

	"github.com/gocpu/m68kvm/m68k"
)

// Task selector values read from D0 by Handle. Not every task used by
// the reference programs this core was built against is implemented;
// unimplemented tasks log and return without side effects, matching how
// the original console_trap stubbed them out during bring-up.
const (
	taskDisplaySignedInt  = 3
	taskHalt              = 9
	taskPrintlnStringTerm = 13
	taskPrintStringTerm   = 14
	taskPrintUnsignedInt  = 15
)

// Logger is the minimal logging interface Console needs, satisfied by
// *loglevel.Logger as well as the standard library's *log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

// Console is the host-side implementation of the TRAP #15 call gate. It
// owns an output sink and a buffered input sink, and reads
// program memory directly through the CPU's bus to resolve
// string-by-reference tasks like "print terminated string".
type Console struct {
	cpu *m68k.CPU
	bus m68k.Bus
	out io.Writer
	in  *bufio.Reader
	log Logger
}

// discardLogger satisfies Logger without importing log, for callers
// that never pass one explicitly.
type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// New returns a Console wired to cpu's bus, writing to out and reading
// from in. It installs itself as cpu's console trap handler.
// A nil logger discards diagnostic messages about unimplemented tasks.
func New(cpu *m68k.CPU, bus m68k.Bus, out io.Writer, in io.Reader, logger Logger) *Console {
	if logger == nil {
		logger = discardLogger{}
	}
	c := &Console{
		cpu: cpu,
		bus: bus,
		out: out,
		in:  bufio.NewReader(in),
		log: logger,
	}
	cpu.SetConsoleTrap(c.Handle)
	return c
}

// Handle is the CPU's TRAP #15 hook. It reads D0 as the task selector
// and dispatches to the matching console operation.
//
// Implemented tasks:
//
//	3  display signed int  - D1 holds a signed 32-bit value to print
//	9  halt                - stop the CPU
//	13 println string      - A1 points at a NUL-terminated string; printed with a trailing newline
//	14 print string        - A1 points at a NUL-terminated string; printed without a trailing newline
//	15 print unsigned int  - D1 holds an unsigned 32-bit value to print
//
// Any other task is logged and ignored. A failed write to the output sink
// is logged; the CPU is not affected by it.
func (c *Console) Handle(cpu *m68k.CPU) {
	reg := cpu.Registers()
	task := reg.D[0]

	var err error
	switch task {
	case taskDisplaySignedInt:
		_, err = fmt.Fprintln(c.out, int32(reg.D[1]))
	case taskPrintUnsignedInt:
		_, err = fmt.Fprintln(c.out, reg.D[1])
	case taskPrintlnStringTerm:
		_, err = fmt.Fprintln(c.out, c.readCString(reg.A[1]))
	case taskPrintStringTerm:
		_, err = fmt.Fprint(c.out, c.readCString(reg.A[1]))
	case taskHalt:
		cpu.Halt()
	default:
		c.log.Printf("console: unimplemented task %d (D0=0x%08x)", task, reg.D[0])
	}
	if err != nil {
		c.log.Printf("console: task %d: write failed: %v", task, err)
	}
}

// readCString reads a NUL-terminated string starting at addr from the
// bus, one byte at a time as real hardware would.
func (c *Console) readCString(addr uint32) string {
	var buf []byte
	for {
		b := byte(c.bus.Read(m68k.Byte, addr))
		if b == 0 {
			break
		}
		buf = append(buf, b)
		addr++
	}
	return string(buf)
}

// ReadLine reads one line of input from the console's input sink, for a
// future read-string task; exposed so callers can pre-seed or drain
// input independent of a trap having fired yet.
func (c *Console) ReadLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}
