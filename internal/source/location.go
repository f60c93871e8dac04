package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Location is a position in the original C++ program as reported by the
// front-end. Function is the enclosing function name (empty at file scope).
type Location struct {
	File     string
	Function string
	Line     uint32
	Column   uint32
}

// IsZero reports whether the location carries no information.
func (l Location) IsZero() bool {
	return l.File == "" && l.Line == 0 && l.Column == 0 && l.Function == ""
}

func (l Location) String() string {
	if l.IsZero() {
		return "<unknown>"
	}
	var sb strings.Builder
	if l.File == "" {
		sb.WriteString("<unknown>")
	} else {
		sb.WriteString(l.File)
	}
	if l.Line > 0 {
		fmt.Fprintf(&sb, ":%d", l.Line)
		if l.Column > 0 {
			fmt.Fprintf(&sb, ":%d", l.Column)
		}
	}
	if l.Function != "" {
		fmt.Fprintf(&sb, " (in %s)", l.Function)
	}
	return sb.String()
}

// Before orders locations by file, line and column.
func (l Location) Before(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

// ModuleName returns the module a file belongs to: its base name without
// extension.
func ModuleName(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// NormalizePath returns the NFC form of path with forward slashes.
// Front-ends on different hosts may report the same file in different
// Unicode normal forms.
func NormalizePath(path string) string {
	return filepath.ToSlash(norm.NFC.String(path))
}
