package diag

import (
	"cmp"
	"slices"

	"fortio.org/safecast"

	"cxxfront/internal/source"
)

// Bag collects the diagnostics of one unit, up to a limit. Diagnostics past
// the limit are counted and dropped.
type Bag struct {
	items   []Diagnostic
	limit   uint16
	dropped int
}

// NewBag creates a bag holding at most max diagnostics. Limits above
// 65535 are clamped.
func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		limit = ^uint16(0)
		if max < 0 {
			limit = 0
		}
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(limit), 64)),
		limit: limit,
	}
}

// Add stores d and reports whether there was room for it.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.limit) {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

// Dropped is the number of diagnostics refused by Add.
func (b *Bag) Dropped() int { return b.dropped }

// Items returns the stored diagnostics. The slice is shared with the bag.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) HasErrors() bool { return b.any(SevError) }

func (b *Bag) HasWarnings() bool { return b.any(SevWarning) }

func (b *Bag) any(atLeast Severity) bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= atLeast })
}

// Sort orders by primary location, then severity (worst first), then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		if x.Primary != y.Primary {
			if x.Primary.Before(y.Primary) {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(y.Severity, x.Severity); c != 0 {
			return c
		}
		return cmp.Compare(x.Code, y.Code)
	})
}

// Dedup keeps the first of every group of diagnostics that share code,
// location and message.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		loc  source.Location
		msg  string
	}
	seen := make(map[key]bool, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, d.Primary, d.Message}
		if seen[k] {
			return true
		}
		seen[k] = true
		return false
	})
}
