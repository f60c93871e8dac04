package layout

import (
	"math/bits"

	"fortio.org/safecast"
)

// CheckFieldAlignment validates the value of an aligned attribute on a field
// and returns it as a byte count. A zero request means "no attribute" and is
// returned unchanged.
func CheckFieldAlignment(t Target, field string, requested int64) (uint32, error) {
	if requested == 0 {
		return 0, nil
	}
	if requested < 0 || bits.OnesCount64(uint64(requested)) != 1 {
		return 0, &LayoutError{Kind: LayoutErrAlignNotPowerOfTwo, Field: field, Value: requested}
	}
	if t.MaxAlign > 0 && requested > int64(t.MaxAlign) {
		return 0, &LayoutError{Kind: LayoutErrAlignTooLarge, Field: field, Value: requested}
	}
	align, err := safecast.Conv[uint32](requested)
	if err != nil {
		return 0, &LayoutError{Kind: LayoutErrAlignConversion, Field: field, Value: requested, Err: err}
	}
	return align, nil
}
