package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/pseudomuto/gatekeeper/pkg/derive"
	"github.com/pseudomuto/gatekeeper/pkg/gate"
	"github.com/urfave/cli/v3"
)

// check creates the CLI command backing the pre-commit hook. It receives the
// staged file list as arguments, runs every gate pass over the candidates,
// and exits non-zero when anything was flagged.
func check() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Lint staged migration files",
		ArgsUsage: "[files...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "base-branch",
				Usage: "only lint files that do not exist at this branch's tip",
			},
			&cli.BoolFlag{
				Name:  "no-generator",
				Usage: "lint only literal op.Execute SQL instead of generator-derived SQL (incomplete: misses builder-style operations)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := current.cfg
			if branch := cmd.String("base-branch"); branch != "" {
				cfg.BaseBranch = branch
			}

			g := gate.New(gate.Options{
				Config:        cfg,
				Reporter:      reporter(),
				MigrationsDir: current.migrationsDir,
				NoGenerator:   cmd.Bool("no-generator"),
			})

			err := g.Run(ctx, cmd.Args().Slice())
			if err == nil {
				return nil
			}

			// Findings and missing-tool conditions have already been
			// reported on stderr; the exit status carries the signal.
			if errors.Is(err, gate.ErrFindings) || errors.Is(err, gate.ErrLinterNotFound) ||
				errors.Is(err, derive.ErrGeneratorNotFound) {
				return cli.Exit("", 1)
			}

			return cli.Exit(err.Error(), 1)
		},
	}
}
