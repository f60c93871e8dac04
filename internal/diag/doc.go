// Package diag defines the diagnostic model shared by the lowering pipeline.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//   - Message: short human oriented text.
//   - Primary: the source.Location of the C++ construct the finding is about.
//   - Notes: optional secondary locations with extra context.
//
// # Emitting diagnostics
//
// Producers depend on the Reporter interface only. The lowering core uses
// ReportWarning / ReportError builders and chains WithNote before Emit.
// BagReporter collects into a Bag, which supports limits, sorting and
// deduplication. DedupReporter filters repeated findings, which is common when
// the same template specialization is reached from several instantiation
// sites.
//
// Rendering lives in internal/diagfmt. Package diag performs no IO.
package diag
