package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pseudomuto/gatekeeper/pkg/derive"
	"github.com/urfave/cli/v3"
)

// sqlCmd creates a CLI command that prints the SQL a single migration would
// emit, exactly as the check command would hand it to the linter. Useful for
// inspecting what a migration actually does before committing it.
func sqlCmd() *cli.Command {
	return &cli.Command{
		Name:      "sql",
		Usage:     "Print the SQL a migration would emit",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("exactly one file argument is required")
			}

			path := cmd.Args().First()
			deriver := derive.New(current.cfg.Generator.Bin)

			sql, err := deriver.Derive(ctx, path)
			switch {
			case errors.Is(err, derive.ErrNotMigration):
				return errors.Errorf("%s is not a recognizable migration", path)
			case errors.Is(err, derive.ErrMergeMigration):
				fmt.Fprintf(cmd.Root().Writer,"-- %s is a merge migration; it has no SQL of its own\n", path)
				return nil
			case err != nil:
				return err
			}

			fmt.Fprint(cmd.Root().Writer, sql)
			return nil
		},
	}
}
