package layout

import "fmt"

// LayoutErrorKind enumerates types of layout attribute errors.
type LayoutErrorKind uint8

const (
	// LayoutErrAlignNotPowerOfTwo indicates an aligned attribute whose value
	// is not a power of two.
	LayoutErrAlignNotPowerOfTwo LayoutErrorKind = iota + 1
	LayoutErrAlignTooLarge
	LayoutErrAlignConversion
)

// LayoutError represents an invalid layout attribute on a field.
type LayoutError struct {
	Kind  LayoutErrorKind
	Field string
	Value int64
	Err   error // for LayoutErrAlignConversion
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case LayoutErrAlignNotPowerOfTwo:
		return fmt.Sprintf("requested alignment %d of field %s is not a power of 2", e.Value, e.Field)
	case LayoutErrAlignTooLarge:
		return fmt.Sprintf("requested alignment %d of field %s is too large", e.Value, e.Field)
	case LayoutErrAlignConversion:
		if e.Err != nil {
			return fmt.Sprintf("alignment of field %s out of range: %v", e.Field, e.Err)
		}
		return fmt.Sprintf("alignment of field %s out of range", e.Field)
	default:
		return fmt.Sprintf("layout error kind=%d field %s", e.Kind, e.Field)
	}
}

func (e *LayoutError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
