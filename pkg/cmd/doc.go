// Package cmd provides CLI commands for the gatekeeper tool.
//
// This package implements the command-line interface for gatekeeper,
// the pre-commit lint gate for database migration files. Each command
// is implemented as a separate function returning a *cli.Command,
// following the urfave/cli/v3 pattern.
//
// # Available Commands
//
//   - check: run the full gate over the staged files pre-commit hands in
//   - sql: print the SQL a single migration would emit (debugging aid)
//
// # Global Options
//
//   - --config, -c: gatekeeper config file (defaults to gatekeeper.yaml)
//   - --ini: the migration framework's config file, used to locate the
//     migrations directory (defaults to migrate.ini)
//
// The process exit status is the machine-readable signal: 0 means clean,
// non-zero means at least one finding or a fatal condition (missing
// generator or linter). All diagnostics go to stderr except relayed
// linter findings, which mirror the linter's own stdout/stderr split.
package cmd
