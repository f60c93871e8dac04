package source

import "testing"

func TestLocationString(t *testing.T) {
	tests := []struct {
		loc  Location
		want string
	}{
		{Location{}, "<unknown>"},
		{Location{File: "a.cpp", Line: 3}, "a.cpp:3"},
		{Location{File: "a.cpp", Line: 3, Column: 7}, "a.cpp:3:7"},
		{Location{File: "a.cpp", Line: 3, Column: 7, Function: "main"}, "a.cpp:3:7 (in main)"},
	}
	for _, tt := range tests {
		if got := tt.loc.String(); got != tt.want {
			t.Errorf("Location%+v.String() = %q, want %q", tt.loc, got, tt.want)
		}
	}
}

func TestLocationBefore(t *testing.T) {
	a := Location{File: "a.cpp", Line: 1, Column: 9}
	b := Location{File: "a.cpp", Line: 2, Column: 1}
	c := Location{File: "b.cpp", Line: 1, Column: 1}
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("line ordering broken")
	}
	if !b.Before(c) {
		t.Fatalf("file ordering broken")
	}
}

func TestModuleName(t *testing.T) {
	if got := ModuleName("/tmp/src/main.cpp"); got != "main" {
		t.Fatalf("ModuleName = %q", got)
	}
	if got := ModuleName("lib.tar.cc"); got != "lib.tar" {
		t.Fatalf("ModuleName = %q", got)
	}
}

func TestNormalizePath(t *testing.T) {
	// "e" + combining acute accent composes to U+00E9.
	if got := NormalizePath("cafe\u0301.cpp"); got != "caf\u00e9.cpp" {
		t.Fatalf("NormalizePath = %q", got)
	}
}
