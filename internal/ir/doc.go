// Package ir is the typed goto-level intermediate representation produced by
// lowering: types, expressions and codes (statements), symbols and the
// insertion-ordered symbol table that owns them.
//
// The representation is language agnostic. C++ specific facts survive only
// as annotations on types and components (reference markers, member-name
// back references, vtable pointers) for the verifier to consume.
package ir
