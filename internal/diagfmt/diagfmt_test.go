package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"cxxfront/internal/diag"
	"cxxfront/internal/source"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	loc := source.Location{File: "/home/user/project/src/shape.cpp", Function: "area", Line: 12, Column: 5}
	bag.Add(diag.New(diag.SevWarning, diag.WrnPolymorphicType, loc, "typeid of polymorphic type uses the static type").
		WithNote(source.Location{File: "/home/user/project/src/shape.h", Line: 3}, "class declared here"))
	bag.Add(diag.NewError(diag.LowUnsupported, source.Location{}, "unsupported expression"))
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     PathMode
		contains string
		absent   string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/shape.cpp:12:5", ""},
		{"relative", PathModeRelative, "src/shape.cpp:12:5", "/home/user"},
		{"basename", PathModeBasename, "shape.cpp:12:5", "src/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, sampleBag(), PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			out := buf.String()
			if !strings.Contains(out, tt.contains) {
				t.Errorf("expected %q in output:\n%s", tt.contains, out)
			}
			if tt.absent != "" && strings.Contains(out, tt.absent) {
				t.Errorf("unexpected %q in output:\n%s", tt.absent, out)
			}
		})
	}
}

func TestPrettyPlain(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"shape.cpp:12:5: WARNING WRN3001: typeid of polymorphic type uses the static type",
		"  in function area",
		"  note: shape.h:3: class declared here",
		"<unknown>: ERROR LOW1001: unsupported expression",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d:\n got %q\nwant %q", i, lines[i], want[i])
		}
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("color codes in uncolored output")
	}
}

func TestPrettyColor(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), PrettyOpts{Color: true})
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI sequences, got %q", buf.String())
	}
}

func TestPrettyMax(t *testing.T) {
	var buf bytes.Buffer
	Pretty(&buf, sampleBag(), PrettyOpts{Max: 1})
	if !strings.Contains(buf.String(), "... and 1 more") {
		t.Errorf("missing truncation marker:\n%s", buf.String())
	}
}

func TestPrettyDropped(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.NewError(diag.LowUnsupported, source.Location{}, "first"))
	bag.Add(diag.NewError(diag.LowUnsupported, source.Location{}, "second"))
	var buf bytes.Buffer
	Pretty(&buf, bag, PrettyOpts{})
	if !strings.Contains(buf.String(), "1 diagnostics dropped") {
		t.Errorf("missing dropped marker:\n%s", buf.String())
	}
	if out := BuildDiagnosticsOutput("", bag, JSONOpts{}); out.Dropped != 1 {
		t.Errorf("Dropped = %d", out.Dropped)
	}
}

func TestWrap(t *testing.T) {
	got := wrap("one two three four", 14, 4)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 24 {
			t.Errorf("line too long: %q", line)
		}
	}
	if wrap("short", 0, 10) != "short" {
		t.Errorf("zero width must not wrap")
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, "shape.cpp", sampleBag(), JSONOpts{PathMode: PathModeBasename, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 || out.Unit != "shape.cpp" {
		t.Fatalf("unexpected header %+v", out)
	}
	first := out.Diagnostics[0]
	if first.Code != "WRN3001" || first.Severity != "WARNING" {
		t.Errorf("unexpected diagnostic %+v", first)
	}
	if first.Location != (LocationJSON{File: "shape.cpp", Line: 12, Col: 5, Function: "area"}) {
		t.Errorf("unexpected location %+v", first.Location)
	}
	if len(first.Notes) != 1 || first.Notes[0].Location.File != "shape.h" {
		t.Errorf("unexpected notes %+v", first.Notes)
	}

	out = BuildDiagnosticsOutput("", sampleBag(), JSONOpts{Max: 1})
	if out.Count != 1 || out.Diagnostics[0].Notes != nil {
		t.Errorf("Max/notes not applied: %+v", out)
	}
}
