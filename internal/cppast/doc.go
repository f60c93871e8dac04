// Package cppast is the read-only model of a resolved C++ translation unit as
// produced by the external front-end.
//
// Each AST category is a closed sum type: Decl, Type, Stmt and Expr (an Expr
// is also a Stmt). Variants are pointers to structs sealed by unexported
// marker methods, so consumers switch over them exhaustively and keep an
// explicit default arm.
//
// Ownership is a tree. Non-owning references (the callee of a call, the
// record of a record type, the bases of a class, captured variables) are Refs:
// the canonical id of the target declaration, resolved through Unit.Lookup.
// The model therefore has no cycles and serializes as-is (see Encode).
package cppast
