package gate

import (
	"context"
	"io"
	"os/exec"
)

// branchExists reports whether the named ref resolves in the current repo.
func branchExists(ctx context.Context, branch string) bool {
	return gitQuery(ctx, "rev-parse", "--verify", "--quiet", branch)
}

// existsAtBranch reports whether path exists at the branch's tip. Files that
// do are not new to this change and need not be re-linted.
func existsAtBranch(ctx context.Context, branch, path string) bool {
	return gitQuery(ctx, "cat-file", "-e", branch+":"+path)
}

func gitQuery(ctx context.Context, args ...string) bool {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run() == nil
}
