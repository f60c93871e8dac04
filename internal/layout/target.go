package layout

import "fmt"

// Target describes the data model of the platform the C++ program was
// compiled for. Widths are in bits.
type Target struct {
	Triple string // e.g. "x86_64-linux-gnu"

	CharWidth       int
	ShortWidth      int
	IntWidth        int
	LongWidth       int
	LongLongWidth   int
	Int128Width     int
	WCharWidth      int
	PointerWidth    int
	LongDoubleWidth int
	CharSigned      bool
	WCharSigned     bool

	// MaxAlign is the largest alignment, in bytes, an aligned attribute may
	// request.
	MaxAlign int
}

func X86_64LinuxGNU() Target {
	return Target{
		Triple:          "x86_64-linux-gnu",
		CharWidth:       8,
		ShortWidth:      16,
		IntWidth:        32,
		LongWidth:       64,
		LongLongWidth:   64,
		Int128Width:     128,
		WCharWidth:      32,
		PointerWidth:    64,
		LongDoubleWidth: 128,
		CharSigned:      true,
		WCharSigned:     true,
		MaxAlign:        1 << 28,
	}
}

func AArch64LinuxGNU() Target {
	t := X86_64LinuxGNU()
	t.Triple = "aarch64-linux-gnu"
	t.CharSigned = false
	t.WCharSigned = false
	return t
}

func I386LinuxGNU() Target {
	t := X86_64LinuxGNU()
	t.Triple = "i386-linux-gnu"
	t.LongWidth = 32
	t.PointerWidth = 32
	t.LongDoubleWidth = 96
	return t
}

// TargetByTriple returns the data model registered for triple.
func TargetByTriple(triple string) (Target, error) {
	switch triple {
	case "", "x86_64-linux-gnu", "x86_64-unknown-linux-gnu":
		return X86_64LinuxGNU(), nil
	case "aarch64-linux-gnu", "aarch64-unknown-linux-gnu":
		return AArch64LinuxGNU(), nil
	case "i386-linux-gnu", "i686-linux-gnu":
		return I386LinuxGNU(), nil
	}
	return Target{}, fmt.Errorf("unknown target triple %q", triple)
}

// Triples lists the canonical triple of every registered target.
func Triples() []string {
	return []string{"x86_64-linux-gnu", "aarch64-linux-gnu", "i386-linux-gnu"}
}

// SizeWidth is the width of size_t on the target.
func (t Target) SizeWidth() int {
	return t.PointerWidth
}
