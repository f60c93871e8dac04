package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// FormatShort renders diagnostics one per line in a stable order:
//
//	<file>:<line>:<col>: <SEV> <ID>: <message>
//
// Paths are reduced to their base name so the output is usable in golden
// files regardless of where the inputs were produced.
func FormatShort(diags []Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	sorted := make([]Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Primary != sorted[j].Primary {
			return sorted[i].Primary.Before(sorted[j].Primary)
		}
		return sorted[i].Code < sorted[j].Code
	})

	var sb strings.Builder
	for _, d := range sorted {
		fmt.Fprintf(&sb, "%s:%d:%d: %s %s: %s\n",
			shortPath(d.Primary.File), d.Primary.Line, d.Primary.Column,
			d.Severity, d.Code.ID(), d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "  note: %s:%d:%d: %s\n", shortPath(n.Loc.File), n.Loc.Line, n.Loc.Column, n.Msg)
		}
	}
	return sb.String()
}

func shortPath(p string) string {
	if p == "" {
		return "<unknown>"
	}
	return filepath.Base(p)
}
