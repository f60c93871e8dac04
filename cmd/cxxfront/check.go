package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cxxfront/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <unit.astpack>...",
	Short: "Lower and validate translation units without writing output",
	Args:  cobra.MinimumNArgs(1),
	RunE:  checkExecution,
}

func init() {
	checkCmd.Flags().IntP("jobs", "j", 0, "units checked in parallel (0 = GOMAXPROCS)")
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
}

func checkExecution(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json or short)", format)
	}
	opts := current.driverOptions()
	opts.OutDir = ""
	opts.Validate = true
	if cmd.Flags().Changed("jobs") {
		if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return err
		}
	}

	results, err := driver.LowerFiles(cmd.Context(), nil, args, opts)
	if err != nil {
		return err
	}
	switch format {
	case "json":
		return reportJSON(cmd.OutOrStdout(), results)
	case "short":
		return reportShort(cmd.OutOrStdout(), results)
	}
	return reportResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, "ok")
}
