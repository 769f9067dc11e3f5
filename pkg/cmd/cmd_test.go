package cmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/gatekeeper/pkg/cmd"
	"github.com/pseudomuto/gatekeeper/pkg/consts"
	"github.com/stretchr/testify/require"
)

// runCLI executes the gatekeeper CLI in-process with captured stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	app := cmd.Root(cmd.Version{Version: "test"})
	app.Writer = &buf

	err := app.Run(context.Background(), append([]string{"gatekeeper"}, args...))
	return buf.String(), err
}

func stubBin(t *testing.T, name, script string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), consts.ModeFile))
}

func TestSQLCommand(t *testing.T) {
	t.Run("prints derived SQL", func(t *testing.T) {
		chdir(t, t.TempDir())
		stubBin(t, consts.DefaultGeneratorBin, `printf 'CREATE TABLE foo (id bigint);\n'`)
		writeFile(t, "migration.go", `
package versions

var (
	revision     = "r1"
	downRevision = "r0"
)
`)

		out, err := runCLI(t, "sql", "migration.go")
		require.NoError(t, err)
		require.Equal(t, "CREATE TABLE foo (id bigint);\n", out)
	})

	t.Run("merge migration prints a note", func(t *testing.T) {
		chdir(t, t.TempDir())
		writeFile(t, "merge.go", `
package versions

var (
	revision     = "m"
	downRevision = []string{"a", "b"}
)
`)

		out, err := runCLI(t, "sql", "merge.go")
		require.NoError(t, err)
		require.Contains(t, out, "merge migration")
	})

	t.Run("non-migration is an error", func(t *testing.T) {
		chdir(t, t.TempDir())
		writeFile(t, "helper.go", "package versions\n")

		_, err := runCLI(t, "sql", "helper.go")
		require.Error(t, err)
		require.Contains(t, err.Error(), "not a recognizable migration")
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		chdir(t, t.TempDir())

		_, err := runCLI(t, "sql")
		require.Error(t, err)
	})
}

func TestCheckCommand(t *testing.T) {
	t.Run("clean run exits zero", func(t *testing.T) {
		chdir(t, t.TempDir())
		require.NoError(t, os.MkdirAll(filepath.Join("migrations", "versions"), consts.ModeDir))
		writeFile(t, consts.DefaultFrameworkConfig, "[migrate]\nscript_location = ./migrations\n")

		stubBin(t, consts.DefaultGeneratorBin, `printf 'CREATE TABLE foo (id bigint);\n'`)
		stubBin(t, consts.DefaultLinterBin, `exit 0`)

		path := filepath.Join("migrations", "versions", "001_foo.go")
		writeFile(t, path, `
package versions

var (
	revision     = "r1"
	downRevision = "r0"
)
`)

		_, err := runCLI(t, "check", path)
		require.NoError(t, err)
	})

	t.Run("no candidate files exits zero", func(t *testing.T) {
		chdir(t, t.TempDir())

		_, err := runCLI(t, "check", "unrelated.go")
		require.NoError(t, err)
	})
}
