// Package inspect provides static analysis of Go migration files.
//
// The package recognizes a fixed set of call shapes from the migration
// framework's API rather than attempting general program analysis:
//   - Top-level revision / downRevision declarations identifying a
//     migration and its predecessor(s)
//   - op.Execute(...) calls carrying raw SQL strings
//   - op.CreateIndex(...) / op.DropIndex(...) calls with a Concurrently
//     option set
//   - op.AutocommitBlock(func() { ... }) scopes
//
// All analyses degrade gracefully: a file that does not parse, or that
// carries none of the recognized shapes, yields an empty result rather
// than an error. Files under a migrations directory that are not real
// migrations (doc files, helpers) are simply not the tool's concern.
package inspect
