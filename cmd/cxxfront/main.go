// Package main implements the cxxfront CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cxxfront/internal/clower"
	"cxxfront/internal/trace"
	"cxxfront/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "cxxfront",
	Short:         "Lower C++ translation units to goto IR",
	Long:          `cxxfront reads typed C++ ASTs (.astpack) and lowers them into goto-IR symbol tables (.irpack)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// main registers subcommands and persistent flags, then executes the root
// command. Recoverable failures exit 1; internal invariant violations exit 2.
func main() {
	rootCmd.Version = version.Version
	rootCmd.PersistentPreRunE = prepare

	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("config", "", "path to cxxfront.toml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics kept per unit")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("go-trace", "", "write a Go runtime execution trace to this file")

	err := rootCmd.Execute()
	if exitCode(err) == 2 {
		dumpTrace(rootCmd, "fatal error")
	}
	teardown(rootCmd)
	if err == nil {
		return
	}
	var ee *exitError
	if !errors.As(err, &ee) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitError ends the command after its failures were already reported.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func exitCode(err error) int {
	var ee *exitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ee):
		return ee.code
	case clower.IsFatal(err):
		return 2
	}
	return 1
}

// dumpTrace prints the tail of the ring tracer, when one is active.
func dumpTrace(cmd *cobra.Command, reason string) {
	if _, err := trace.CrashDump(cmd.ErrOrStderr(), trace.FromContext(cmd.Context()), reason, crashTail); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", err)
	}
}

const crashTail = 200

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
