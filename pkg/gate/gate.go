// Package gate orchestrates the pre-commit run: it filters staged files down
// to migration candidates, runs the static autocommit check, derives each
// candidate's SQL, and pipes that SQL through the external linter.
//
// Files are processed strictly sequentially. Per-file failures (generation
// errors, linter findings, autocommit warnings) are reported and the run
// continues; a missing external tool aborts immediately since every
// remaining file would fail the same way.
package gate

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/gatekeeper/pkg/config"
	"github.com/pseudomuto/gatekeeper/pkg/derive"
	"github.com/pseudomuto/gatekeeper/pkg/inspect"
)

var (
	// ErrFindings indicates at least one candidate failed a check. All
	// detail has already been reported; callers just exit non-zero.
	ErrFindings = errors.New("migration checks failed")

	// ErrLinterNotFound indicates the SQL linter is not installed. Fatal for
	// the run, for the same reason as derive.ErrGeneratorNotFound.
	ErrLinterNotFound = errors.New("sql linter not found")
)

type (
	// Gate runs the full lint pipeline over a set of staged files.
	Gate struct {
		cfg      *config.Config
		deriver  *derive.Deriver
		reporter *Reporter

		// migrationsDir scopes candidacy; empty means no file is a candidate
		migrationsDir string

		// noGenerator switches the SQL source to literal extraction. The
		// fallback misses builder-style operations entirely and exists for
		// environments without the generator CLI.
		noGenerator bool
	}

	// Options configures a Gate.
	Options struct {
		Config        *config.Config
		Reporter      *Reporter
		MigrationsDir string
		NoGenerator   bool
	}
)

// New creates a Gate from the given options.
func New(opts Options) *Gate {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	return &Gate{
		cfg:           cfg,
		deriver:       derive.New(cfg.Generator.Bin),
		reporter:      opts.Reporter,
		migrationsDir: opts.MigrationsDir,
		noGenerator:   opts.NoGenerator,
	}
}

// Run processes the staged files and returns nil when everything is clean,
// ErrFindings when at least one file failed a check, or a fatal error
// (missing generator or linter) that should abort the run.
func (g *Gate) Run(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}

	if g.migrationsDir == "" {
		g.reporter.Warnf("gatekeeper: could not locate the migrations directory; nothing to check")
		return nil
	}

	failed := false
	for _, path := range g.candidates(ctx, files) {
		ok, err := g.checkFile(ctx, path)
		if err != nil {
			return err
		}
		if !ok {
			failed = true
		}
	}

	if failed {
		return ErrFindings
	}
	return nil
}

// candidates filters files to those inside the migrations directory and,
// when a base branch is configured and resolvable, to those not already
// present at its tip.
func (g *Gate) candidates(ctx context.Context, files []string) []string {
	filterBranch := g.cfg.BaseBranch != "" && branchExists(ctx, g.cfg.BaseBranch)

	var out []string
	for _, path := range files {
		rel, err := filepath.Rel(g.migrationsDir, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}

		if filterBranch && existsAtBranch(ctx, g.cfg.BaseBranch, path) {
			continue
		}

		out = append(out, path)
	}

	return out
}

// checkFile runs both analysis passes and the linter over one candidate.
// The bool result is true when the file is clean; errors are fatal only.
func (g *Gate) checkFile(ctx context.Context, path string) (bool, error) {
	clean := true

	warnings, err := inspect.CheckAutocommit(path)
	if err != nil {
		return false, err
	}
	for _, line := range warnings {
		g.reporter.Failf("%s:%d: CONCURRENTLY operation outside AutocommitBlock", path, line)
		clean = false
	}

	sql, err := g.deriveSQL(ctx, path)
	switch {
	case errors.Is(err, derive.ErrNotMigration), errors.Is(err, derive.ErrMergeMigration):
		return clean, nil
	case errors.Is(err, derive.ErrGeneratorNotFound):
		g.reporter.Failf("gatekeeper: %s not found; install the migration CLI to derive SQL", g.cfg.Generator.Bin)
		return false, err
	case err != nil:
		var genErr *derive.GenerationError
		if errors.As(err, &genErr) {
			g.reporter.Failf("%s", genErr)
			return false, nil
		}
		return false, err
	}

	if strings.TrimSpace(sql) == "" {
		return clean, nil
	}

	lintClean, err := g.lint(ctx, path, sql)
	if err != nil {
		return false, err
	}

	return clean && lintClean, nil
}

// deriveSQL produces the SQL to lint for one file: the generator-derived
// single-step DDL, or the literal-extraction fallback in no-generator mode.
func (g *Gate) deriveSQL(ctx context.Context, path string) (string, error) {
	if !g.noGenerator {
		return g.deriver.Derive(ctx, path)
	}

	statements, err := inspect.ExtractSQL(path)
	if err != nil {
		return "", err
	}
	return strings.Join(statements, "\n"), nil
}

// lint writes sql to a scoped temp file and runs the linter over it. The
// temp file is removed on every path; its name is substituted back to the
// original filename in relayed output for readability.
func (g *Gate) lint(ctx context.Context, path, sql string) (bool, error) {
	tmp, err := os.CreateTemp("", "gatekeeper-*.sql")
	if err != nil {
		return false, errors.Wrap(err, "failed to create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(sql); err != nil {
		_ = tmp.Close()
		return false, errors.Wrap(err, "failed to write temp file")
	}
	if err := tmp.Close(); err != nil {
		return false, errors.Wrap(err, "failed to close temp file")
	}

	cmd := exec.CommandContext(ctx, g.cfg.Linter.Bin, tmp.Name())

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr == nil {
		return true, nil
	}

	if errors.Is(runErr, exec.ErrNotFound) {
		g.reporter.Failf("gatekeeper: %s not found; install it to lint migration SQL", g.cfg.Linter.Bin)
		return false, errors.Wrap(ErrLinterNotFound, g.cfg.Linter.Bin)
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		return false, errors.Wrapf(runErr, "failed to run %s", g.cfg.Linter.Bin)
	}

	g.reporter.Relay(
		strings.ReplaceAll(stdout.String(), tmp.Name(), path),
		strings.ReplaceAll(stderr.String(), tmp.Name(), path),
	)
	return false, nil
}
