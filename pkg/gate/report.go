package gate

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora/v3"
)

// Reporter writes gatekeeper's user-facing output. Diagnostics go to the
// error stream; relayed linter findings mirror the linter's own stdout and
// stderr split so pre-commit output stays greppable.
type Reporter struct {
	out io.Writer
	err io.Writer
	au  aurora.Aurora
}

// NewReporter creates a Reporter writing to the given streams. Colors are
// applied only when enabled (disable for non-TTY output).
func NewReporter(out, err io.Writer, colors bool) *Reporter {
	return &Reporter{out: out, err: err, au: aurora.NewAurora(colors)}
}

// Failf reports a per-file finding on the error stream.
func (r *Reporter) Failf(format string, args ...any) {
	fmt.Fprintln(r.err, r.au.Red(fmt.Sprintf(format, args...)).String())
}

// Warnf reports a non-fatal diagnostic on the error stream.
func (r *Reporter) Warnf(format string, args ...any) {
	fmt.Fprintln(r.err, r.au.Yellow(fmt.Sprintf(format, args...)).String())
}

// Relay forwards linter output verbatim, preserving its stream split.
func (r *Reporter) Relay(stdout, stderr string) {
	if stdout != "" {
		fmt.Fprint(r.out, stdout)
	}
	if stderr != "" {
		fmt.Fprint(r.err, stderr)
	}
}
