package layout

import (
	"errors"
	"testing"
)

func TestCheckFieldAlignment(t *testing.T) {
	target := X86_64LinuxGNU()
	tests := []struct {
		req      int64
		want     uint32
		wantKind LayoutErrorKind
	}{
		{0, 0, 0},
		{1, 1, 0},
		{16, 16, 0},
		{12, 0, LayoutErrAlignNotPowerOfTwo},
		{-4, 0, LayoutErrAlignNotPowerOfTwo},
		{1 << 30, 0, LayoutErrAlignTooLarge},
	}
	for _, tt := range tests {
		got, err := CheckFieldAlignment(target, "x", tt.req)
		if tt.wantKind == 0 {
			if err != nil {
				t.Errorf("align %d: unexpected error %v", tt.req, err)
			}
			if got != tt.want {
				t.Errorf("align %d: got %d, want %d", tt.req, got, tt.want)
			}
			continue
		}
		var le *LayoutError
		if !errors.As(err, &le) || le.Kind != tt.wantKind {
			t.Errorf("align %d: got error %v, want kind %d", tt.req, err, tt.wantKind)
		}
	}
}

func TestTargetByTriple(t *testing.T) {
	tg, err := TargetByTriple("i386-linux-gnu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tg.PointerWidth != 32 || tg.LongWidth != 32 {
		t.Fatalf("unexpected i386 model %+v", tg)
	}
	if _, err := TargetByTriple("mips-unknown"); err == nil {
		t.Fatalf("expected error for unknown triple")
	}
}

func TestTriplesResolve(t *testing.T) {
	for _, triple := range Triples() {
		tg, err := TargetByTriple(triple)
		if err != nil {
			t.Fatalf("%s: %v", triple, err)
		}
		if tg.Triple != triple {
			t.Errorf("%s resolved to %s", triple, tg.Triple)
		}
	}
}
