// Package clower lowers the C subset of a translation unit to IR. It is the
// base layer of the C++ lowering: every step that a language extension may
// refine goes through the Hooks interface, so a type embedding *Lowerer and
// registering itself with SetHooks sees its overrides applied to nested
// constructs as well.
package clower
