package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lowering failures: the unit cannot be lowered.
	LowInfo              Code = 1000
	LowUnsupported       Code = 1001
	LowMalformed         Code = 1002
	LowUnresolvedRef     Code = 1003
	LowDependentContext  Code = 1004
	LowAlignment         Code = 1005
	LowValueDependent    Code = 1006
	LowArrayInitLoop     Code = 1007
	LowValidation        Code = 1008
	LowDelegatingNotSole Code = 1009

	// Fatal invariant violations.
	FtlInfo                Code = 2000
	FtlCanonicalID         Code = 2001
	FtlMissingReceiver     Code = 2002
	FtlStaticMethod        Code = 2003
	FtlUnclassifiedInit    Code = 2004
	FtlSymbolTable         Code = 2005
	FtlInternalConsistency Code = 2006

	// Approximations.
	WrnInfo            Code = 3000
	WrnPolymorphicType Code = 3001
	WrnVirtualBase     Code = 3002

	IOInfo        Code = 4000
	IOLoadError   Code = 4001
	IODecodeError Code = 4002
	IOWriteError  Code = 4003

	CfgInfo         Code = 5000
	CfgInvalidValue Code = 5001
	CfgUnknownKey   Code = 5002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		LowInfo:                "Lowering information",
		LowUnsupported:         "Unsupported construct",
		LowMalformed:           "Malformed AST",
		LowUnresolvedRef:       "Unresolved declaration reference",
		LowDependentContext:    "Dependent template context",
		LowAlignment:           "Invalid alignment attribute",
		LowValueDependent:      "Value-dependent expression",
		LowArrayInitLoop:       "Malformed array init loop",
		LowValidation:          "IR validation failed",
		LowDelegatingNotSole:   "Delegating initializer must be the only initializer",
		FtlInfo:                "Internal invariant",
		FtlCanonicalID:         "Canonical id generation failed",
		FtlMissingReceiver:     "Receiver missing from binding tables",
		FtlStaticMethod:        "Static method in aggregate member pass",
		FtlUnclassifiedInit:    "Unclassified constructor initializer",
		FtlSymbolTable:         "Symbol table corrupted",
		FtlInternalConsistency: "Internal consistency violation",
		WrnInfo:                "Approximation",
		WrnPolymorphicType:     "Polymorphic typeid approximated",
		WrnVirtualBase:         "Virtual base flattened",
		IOInfo:                 "I/O information",
		IOLoadError:            "I/O load error",
		IODecodeError:          "Input decode error",
		IOWriteError:           "Output write error",
		CfgInfo:                "Configuration",
		CfgInvalidValue:        "Invalid configuration value",
		CfgUnknownKey:          "Unknown configuration key",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("FTL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("WRN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

// IsFatal reports whether the code belongs to the fatal range.
func (c Code) IsFatal() bool {
	return c >= FtlInfo && c < WrnInfo
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
