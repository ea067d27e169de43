// Package tui implements the optional debugger terminal UI: a registers
// pane, an instruction pane, a memory pane, and a console output pane,
// driven one step at a time or left to run free.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/gocpu/m68kvm/vm"
)

// TUI is the debugger's terminal interface around a running VM.
type TUI struct {
	v   *vm.VM
	app *tview.Application

	registers   *tview.TextView
	instruction *tview.TextView
	memory      *tview.TextView
	output      *tview.TextView
	status      *tview.TextView

	memAddr uint32
	running bool
}

// New builds the TUI's widget tree around v, but does not start it;
// call Run to take over the terminal.
func New(v *vm.VM) *TUI {
	t := &TUI{
		v:   v,
		app: tview.NewApplication(),
	}
	t.build()
	return t
}

// Output returns the console pane as an io.Writer, so the host can wire
// a console.Console's output here instead of os.Stdout when the TUI is
// active.
func (t *TUI) Output() *tview.TextView { return t.output }

func (t *TUI) build() {
	t.registers = tview.NewTextView().SetDynamicColors(true)
	t.registers.SetBorder(true).SetTitle(" Registers ")

	t.instruction = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	t.instruction.SetBorder(true).SetTitle(" Instructions ")

	t.memory = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	t.memory.SetBorder(true).SetTitle(" Memory ")

	t.output = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	t.output.SetBorder(true).SetTitle(" Console ")

	t.status = tview.NewTextView().SetDynamicColors(true)

	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.registers, 0, 1, false).
		AddItem(t.instruction, 0, 1, false)

	top := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(left, 0, 1, false).
		AddItem(t.memory, 0, 2, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(top, 0, 3, false).
		AddItem(t.output, 0, 1, false).
		AddItem(t.status, 1, 0, false)

	t.app.SetRoot(root, true)
	t.app.SetInputCapture(t.handleKey)
}

// handleKey implements the debugger keybindings: s single-steps, r
// toggles free-run, q quits.
func (t *TUI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 's':
		t.v.Step()
		t.refresh()
		return nil
	case 'r':
		t.running = !t.running
		return nil
	case 'q':
		t.app.Stop()
		return nil
	}
	return event
}

// Run takes over the terminal and drives the VM until the user quits or
// ctx is cancelled. When free-run is toggled on, it steps the CPU once
// per tick until it halts or stops.
func (t *TUI) Run(ctx context.Context) error {
	t.refresh()

	go func() {
		<-ctx.Done()
		t.app.QueueUpdateDraw(func() {})
		t.app.Stop()
	}()

	t.app.SetBeforeDrawFunc(func(tcell.Screen) bool {
		if t.running && !t.v.Halted() && !t.v.Stopped() {
			t.v.Step()
			t.refresh()
		}
		return false
	})

	return t.app.Run()
}

func (t *TUI) refresh() {
	t.app.QueueUpdateDraw(func() {
		t.registers.SetText(t.registerText())
		t.instruction.SetText(t.instructionText())
		t.memory.SetText(t.memoryText())
		t.status.SetText(t.statusText())
	})
}

func (t *TUI) registerText() string {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "D%d %08X\n", i, t.v.DR(i))
	}
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "A%d %08X\n", i, t.v.AR(i))
	}
	fmt.Fprintf(&b, "PC  %08X\n", t.v.PC())
	fmt.Fprintf(&b, "SR  %04X\n", t.v.SR())
	fmt.Fprintf(&b, "USP %08X\n", t.v.USP())
	fmt.Fprintf(&b, "SSP %08X\n", t.v.SSP())
	return b.String()
}

// instructionText shows the next few fetched words starting at PC, one
// word per line, as a stand-in for a full disassembly.
func (t *TUI) instructionText() string {
	const words = 8
	data := t.v.MemorySlice(t.v.PC(), words*2)
	var b strings.Builder
	for i := 0; i+1 < len(data); i += 2 {
		addr := t.v.PC() + uint32(i)
		word := uint16(data[i])<<8 | uint16(data[i+1])
		marker := "  "
		if i == 0 {
			marker = "->"
		}
		fmt.Fprintf(&b, "%s %06X %04X\n", marker, addr, word)
	}
	return b.String()
}

func (t *TUI) memoryText() string {
	t.memAddr = t.v.PC()
	data := t.v.MemorySlice(t.memAddr, 128)
	var b strings.Builder
	for row := 0; row < len(data); row += 16 {
		end := row + 16
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(&b, "%06X ", t.memAddr+uint32(row))
		for _, c := range data[row:end] {
			fmt.Fprintf(&b, "%02X ", c)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *TUI) statusText() string {
	status := "running"
	if t.v.Halted() {
		status = "halted"
	} else if t.v.Stopped() {
		status = "stopped"
	}
	return fmt.Sprintf(" cycles=%d state=%s  (s)tep (r)un (q)uit", t.v.Cycles(), status)
}
