// Command m68kvm loads a flat MC68000 ROM image and executes it, either
// to completion in batch mode or under the interactive debugger TUI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gocpu/m68kvm/console"
	"github.com/gocpu/m68kvm/internal/config"
	"github.com/gocpu/m68kvm/internal/loglevel"
	"github.com/gocpu/m68kvm/internal/tui"
	"github.com/gocpu/m68kvm/m68k"
	"github.com/gocpu/m68kvm/vm"
)

// Exit codes: 0 success, 1 host/loader error, 2 processor fault.
const (
	exitOK             = 0
	exitHostError      = 1
	exitProcessorFault = 2
)

// processorFaultError marks an error as processor-visible rather than a
// host/loader problem, so run can pick the right exit code.
type processorFaultError struct{ msg string }

func (e *processorFaultError) Error() string        { return e.msg }
func (e *processorFaultError) ProcessorFault() bool { return true }

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		logLevel    string
		pc          uint32
		usp         uint32
		ssp         uint32
		configPath  string
		profileName string
		useTUI      bool
	)

	rootCmd := &cobra.Command{
		Use:           "m68kvm <rom>",
		Short:         "Run a flat MC68000 ROM image",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel == "" {
				logLevel = cfg.Log
			}
			level, err := loglevel.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger := loglevel.New(os.Stderr, level)

			if profileName != "" {
				prof, ok := cfg.Profile(profileName)
				if !ok {
					return fmt.Errorf("no profile named %q in config", profileName)
				}
				if !cmd.Flags().Changed("pc") {
					pc = prof.PC
				}
				if !cmd.Flags().Changed("usp") {
					usp = prof.USP
				}
				if !cmd.Flags().Changed("ssp") {
					ssp = prof.SSP
				}
			}

			rom, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read rom: %w", err)
			}

			machine := vm.New()
			machine.SetLogger(logger)
			if err := machine.Load(rom); err != nil {
				return err
			}
			if cmd.Flags().Changed("pc") || profileName != "" {
				machine.SetPC(pc)
			}
			if cmd.Flags().Changed("usp") || profileName != "" {
				machine.SetUSP(usp)
			}
			if cmd.Flags().Changed("ssp") || profileName != "" {
				machine.SetSSP(ssp)
			}

			if useTUI {
				debugger := tui.New(machine)
				console.New(machine.CPU(), machine.Bus(), debugger.Output(), os.Stdin, logger)
				return debugger.Run(context.Background())
			}

			con := console.New(machine.CPU(), machine.Bus(), os.Stdout, os.Stdin, logger)
			// A halt requested through the console's halt task (D0=9) is a
			// clean end of the program, not a processor fault.
			haltTask := false
			machine.CPU().SetConsoleTrap(func(c *m68k.CPU) {
				con.Handle(c)
				if c.Halted() && c.Registers().D[0] == 9 {
					haltTask = true
				}
			})

			if err := machine.Run(context.Background()); err != nil {
				return err
			}
			if machine.Halted() && !haltTask {
				return &processorFaultError{msg: fmt.Sprintf("processor halted at PC=0x%08X", machine.PC())}
			}
			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&logLevel, "log", "l", "", "log level: off, error, warn, info, debug, trace (default from config, else warn)")
	flags.Uint32VarP(&pc, "pc", "p", 0, "starting program counter")
	flags.Uint32VarP(&usp, "usp", "u", 0, "starting user stack pointer")
	flags.Uint32VarP(&ssp, "ssp", "s", 0, "starting supervisor stack pointer")
	flags.StringVar(&configPath, "config", defaultConfigPath(), "path to TOML config file")
	flags.StringVar(&profileName, "profile", "", "named profile from the config file")
	flags.BoolVar(&useTUI, "tui", false, "launch the interactive debugger TUI")

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		if isProcessorFault(err) {
			fmt.Fprintln(os.Stderr, err)
			return exitProcessorFault
		}
		fmt.Fprintln(os.Stderr, err)
		return exitHostError
	}
	return exitOK
}

func defaultConfigPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.config/m68kvm/config.toml"
	}
	return "m68kvm.toml"
}

// isProcessorFault reports whether err represents a processor-visible
// fault (as opposed to a host/loader error), for the exit code split the
// CLI contract documents.
func isProcessorFault(err error) bool {
	type faulter interface{ ProcessorFault() bool }
	f, ok := err.(faulter)
	return ok && f.ProcessorFault()
}
