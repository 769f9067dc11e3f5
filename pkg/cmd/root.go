package cmd

import (
	"context"
	"os"

	"github.com/pseudomuto/gatekeeper/pkg/config"
	"github.com/pseudomuto/gatekeeper/pkg/consts"
	"github.com/pseudomuto/gatekeeper/pkg/gate"
	"github.com/urfave/cli/v3"
)

// current holds the per-invocation setup resolved by the root Before hook.
// Explicit parameters everywhere else; this exists only because urfave
// subcommand actions have no other channel from the root hook.
var current struct {
	cfg           *config.Config
	migrationsDir string
}

type (
	// Version carries build metadata set by GoReleaser.
	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Root creates the gatekeeper CLI application: global config flags, the
// check and sql subcommands, and a Before hook that resolves configuration
// and the migrations directory once per run.
func Root(v Version) *cli.Command {
	return &cli.Command{
		Name:  "gatekeeper",
		Usage: "A pre-commit lint gate for database migrations",
		Description: `gatekeeper inspects staged migration files, derives the SQL they would
emit (via the migration framework's CLI), and runs that SQL through an
external linter, failing the commit when issues are found. It also checks
that CONCURRENTLY index operations are wrapped in an AutocommitBlock.`,
		Version: v.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "the gatekeeper config file",
				Sources: cli.EnvVars("GATEKEEPER_CONFIG"),
				Value:   consts.DefaultConfigFile,
			},
			&cli.StringFlag{
				Name:  "ini",
				Usage: "the migration framework's config file",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := config.LoadConfigFile(cmd.String("config"))
			if err != nil {
				return ctx, err
			}

			if ini := cmd.String("ini"); ini != "" {
				cfg.FrameworkConfig = ini
			}

			current.cfg = cfg
			current.migrationsDir = config.FindMigrationsDir(cfg.FrameworkConfig)
			return ctx, nil
		},
		Commands: []*cli.Command{
			check(),
			sqlCmd(),
		},
	}
}

// reporter builds the shared output reporter. Colors are suppressed when
// NO_COLOR is set, per https://no-color.org.
func reporter() *gate.Reporter {
	_, noColor := os.LookupEnv("NO_COLOR")
	return gate.NewReporter(os.Stdout, os.Stderr, !noColor)
}
