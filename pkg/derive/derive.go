// Package derive turns a single migration file into the full SQL it would
// emit, by asking the migration framework's CLI to plan the minimal upgrade
// range ending at that migration.
//
// Unlike the literal extractor in pkg/inspect, the generator sees every
// operation in the file, including builder-style schema operations that never
// pass a SQL string. It needs no live database: planning runs entirely
// offline, and a placeholder connection string is injected so the CLI does
// not refuse to start when none is configured.
package derive

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/gatekeeper/pkg/consts"
	"github.com/pseudomuto/gatekeeper/pkg/inspect"
)

// HistoryBase is the range token denoting the beginning of migration history,
// used as the lower bound when a migration has no predecessor.
const HistoryBase = "base"

var (
	// ErrNotMigration indicates the file carries no resolvable revision
	// identity and is not a migration at all (an init or helper file under
	// the migrations directory). Callers skip the file.
	ErrNotMigration = errors.New("file is not a migration")

	// ErrMergeMigration indicates the file is a merge node. Merge migrations
	// join diverged branches and have no linear SQL of their own; deriving a
	// range ending at one would require resolving multiple predecessors.
	// Callers skip the file, and no generator invocation occurs.
	ErrMergeMigration = errors.New("merge migrations have no SQL of their own")

	// ErrGeneratorNotFound indicates the generator binary is not installed.
	// Every remaining file would fail identically, so callers should abort
	// the run with an actionable message rather than report it per file.
	ErrGeneratorNotFound = errors.New("migration generator not found")
)

type (
	// Deriver invokes the migration framework's CLI to produce the DDL for a
	// single migration step.
	Deriver struct {
		bin string
	}

	// GenerationError reports a generator invocation that ran but exited
	// non-zero. It is a per-file failure: the run continues with remaining
	// files and ends non-zero overall.
	GenerationError struct {
		Path   string
		Detail string
	}
)

func (e *GenerationError) Error() string {
	msg := "failed to generate SQL for " + e.Path
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// New creates a Deriver that shells out to the given generator binary
// (consts.DefaultGeneratorBin when empty).
func New(bin string) *Deriver {
	if bin == "" {
		bin = consts.DefaultGeneratorBin
	}
	return &Deriver{bin: bin}
}

// Derive returns the complete SQL the migration at path would emit.
//
// The upgrade range is computed from the file's declared identity:
// `<downRevision>:<revision>`, or `base:<revision>` for a root migration.
// The predecessor acts as the exclusive lower bound, so the generator emits
// exactly this one step rather than the cumulative history.
//
// Skip outcomes are reported as ErrNotMigration and ErrMergeMigration; a
// missing binary as ErrGeneratorNotFound; a non-zero generator exit as a
// *GenerationError carrying the stderr detail.
func (d *Deriver) Derive(ctx context.Context, path string) (string, error) {
	info, err := inspect.ExtractRevisionInfo(path)
	if err != nil {
		return "", err
	}

	if info == nil {
		return "", errors.Wrap(ErrNotMigration, path)
	}
	if info.IsMerge {
		return "", errors.Wrap(ErrMergeMigration, path)
	}

	cmd := exec.CommandContext(ctx, d.bin, "upgrade", UpgradeRange(info), "--sql")
	cmd.Env = placeholderEnv(os.Environ())

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", errors.Wrap(ErrGeneratorNotFound, d.bin)
		}

		return "", &GenerationError{
			Path:   path,
			Detail: strings.TrimSpace(stderr.String()),
		}
	}

	return stdout.String(), nil
}

// UpgradeRange renders the single-step range token for a migration:
// exclusive lower bound at its predecessor (or history base), inclusive
// upper bound at its own revision.
func UpgradeRange(info *inspect.RevisionInfo) string {
	base := HistoryBase
	if len(info.DownRevision) > 0 {
		base = info.DownRevision[0]
	}
	return base + ":" + info.Revision
}

// placeholderEnv returns env with a placeholder connection string appended
// when none is set. The generator plans without connecting but wants a DSN.
func placeholderEnv(env []string) []string {
	for _, kv := range env {
		if strings.HasPrefix(kv, consts.EnvDatabaseURL+"=") {
			return env
		}
	}
	return append(env, consts.EnvDatabaseURL+"="+consts.PlaceholderDSN)
}
