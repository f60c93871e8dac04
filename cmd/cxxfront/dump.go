package main

import (
	"bufio"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"cxxfront/internal/diag"
	"cxxfront/internal/diagfmt"
	"cxxfront/internal/driver"
	"cxxfront/internal/ir"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <file.irpack|file.astpack>",
	Short: "Print the IR listing of a pack",
	Long:  "Print the symbol table stored in an IR pack. An AST pack is lowered first.",
	Args:  cobra.ExactArgs(1),
	RunE:  dumpExecution,
}

func init() {
	dumpCmd.Flags().Bool("bodies", true, "include function bodies and initializers")
}

func dumpExecution(cmd *cobra.Command, args []string) error {
	bodies, err := cmd.Flags().GetBool("bodies")
	if err != nil {
		return err
	}
	path := args[0]

	var symtab *ir.Context
	if filepath.Ext(path) == ".irpack" {
		if _, symtab, err = ir.ReadFile(path); err != nil {
			return err
		}
	} else {
		u, err := driver.NewLoader().Load(path)
		if err != nil {
			return err
		}
		bag := diag.NewBag(current.cfg.Run.MaxDiagnostics)
		symtab, err = driver.LowerUnit(cmd.Context(), u, current.driverOptions(), bag)
		if bag.Len() > 0 && !current.quiet {
			bag.Sort()
			diagfmt.Pretty(cmd.ErrOrStderr(), bag, current.prettyOpts())
		}
		if err != nil {
			return err
		}
	}

	w := bufio.NewWriter(cmd.OutOrStdout())
	if err := ir.Dump(w, symtab, ir.DumpOptions{Bodies: bodies}); err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	return w.Flush()
}
