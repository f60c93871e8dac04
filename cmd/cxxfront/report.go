package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cxxfront/internal/diag"
	"cxxfront/internal/diagfmt"
	"cxxfront/internal/driver"
)

// reportResults prints the warnings and the failure of every unit and turns
// failures into an exitError. verb names the success line ("lowered").
func reportResults(out, errOut io.Writer, results []driver.Result, verb string) error {
	opts := current.prettyOpts()
	failed, fatal := 0, false
	for _, r := range results {
		if r.Bag != nil && r.Bag.Len() > 0 && !current.quiet {
			r.Bag.Dedup()
			r.Bag.Sort()
			diagfmt.Pretty(errOut, r.Bag, opts)
		}
		if r.Err != nil {
			failed++
			fatal = fatal || r.Fatal()
			diagfmt.PrettyOne(errOut, r.Diagnostic(), opts)
			continue
		}
		if current.quiet {
			continue
		}
		if r.Output != "" {
			fmt.Fprintf(out, "%s %s -> %s\n", verb, r.Path, formatPathForOutput(r.Output))
		} else {
			fmt.Fprintf(out, "%s %s\n", verb, r.Path)
		}
	}
	return failureError(failed, fatal, len(results))
}

// reportJSON writes one diagnostics document per unit, failures included.
func reportJSON(out io.Writer, results []driver.Result) error {
	failed, fatal := 0, false
	for _, r := range results {
		bag := r.Bag
		if bag == nil {
			bag = diag.NewBag(1)
		}
		if r.Err != nil {
			failed++
			fatal = fatal || r.Fatal()
			bag.Add(r.Diagnostic())
		}
		unit := r.Unit
		if unit == "" {
			unit = r.Path
		}
		if err := diagfmt.JSON(out, unit, bag, diagfmt.JSONOpts{IncludeNotes: true, Max: current.cfg.Run.MaxDiagnostics}); err != nil {
			return err
		}
	}
	return failureError(failed, fatal, len(results))
}

// reportShort prints every diagnostic of every unit on one line each, in
// the stable form used by golden files.
func reportShort(out io.Writer, results []driver.Result) error {
	var all []diag.Diagnostic
	failed, fatal := 0, false
	for _, r := range results {
		if r.Bag != nil {
			all = append(all, r.Bag.Items()...)
		}
		if r.Err != nil {
			failed++
			fatal = fatal || r.Fatal()
			all = append(all, r.Diagnostic())
		}
	}
	fmt.Fprint(out, diag.FormatShort(all, true))
	return failureError(failed, fatal, len(results))
}

func failureError(failed int, fatal bool, total int) error {
	if failed == 0 {
		return nil
	}
	code := 1
	if fatal {
		code = 2
	}
	return &exitError{code: code, msg: fmt.Sprintf("%d of %d units failed", failed, total)}
}

func formatPathForOutput(path string) string {
	cwd, err := os.Getwd()
	if err != nil || path == "" {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
