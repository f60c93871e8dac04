package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cxxfront/internal/driver"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] <unit.astpack>...",
	Short: "Lower translation units to IR packs",
	Long:  "Lower each translation unit independently and write <out>/<unit>.irpack.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  lowerExecution,
}

func init() {
	lowerCmd.Flags().StringP("out", "o", "", "output directory (default: [output].dir)")
	lowerCmd.Flags().IntP("jobs", "j", 0, "units lowered in parallel (0 = GOMAXPROCS)")
	lowerCmd.Flags().Bool("validate", true, "validate each symbol table before writing it")
	lowerCmd.Flags().Bool("text", false, "also write a .ir.txt listing")
	lowerCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	lowerCmd.Flags().Bool("watch", false, "re-lower inputs when they change")
	lowerCmd.Flags().Bool("timings", false, "show per-stage timings")
}

func lowerExecution(cmd *cobra.Command, args []string) error {
	opts, err := lowerOptions(cmd)
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	watch, err := cmd.Flags().GetBool("watch")
	if err != nil {
		return err
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	loader := driver.NewLoader()
	run := func(ctx context.Context, paths []string) error {
		var (
			results []driver.Result
			err     error
		)
		if !watch && shouldUseTUI(mode, len(paths)) {
			results, err = runLowerWithUI(ctx, "cxxfront lower", loader, paths, opts)
		} else {
			results, err = driver.LowerFiles(ctx, loader, paths, opts)
		}
		if err != nil {
			return err
		}
		if timings {
			printTimings(cmd.OutOrStdout(), results, current.color)
		}
		return reportResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, "lowered")
	}

	if watch {
		return watchAndLower(cmd.Context(), cmd, loader, args, run)
	}
	return run(cmd.Context(), args)
}

// lowerOptions applies the lower flags the user set over the configuration.
func lowerOptions(cmd *cobra.Command) (driver.Options, error) {
	opts := current.driverOptions()
	flags := cmd.Flags()
	var err error
	if flags.Changed("out") {
		if opts.OutDir, err = flags.GetString("out"); err != nil {
			return opts, err
		}
	}
	if flags.Changed("jobs") {
		if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
			return opts, err
		}
		if opts.Jobs < 0 {
			return opts, fmt.Errorf("--jobs must not be negative")
		}
	}
	if flags.Changed("validate") {
		if opts.Validate, err = flags.GetBool("validate"); err != nil {
			return opts, err
		}
	}
	if flags.Changed("text") {
		if opts.Text, err = flags.GetBool("text"); err != nil {
			return opts, err
		}
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	return opts, nil
}
