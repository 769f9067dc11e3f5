package inspect_test

import (
	"testing"

	. "github.com/pseudomuto/gatekeeper/pkg/inspect"
	"github.com/stretchr/testify/require"
)

func TestCheckAutocommit_ExecuteCalls(t *testing.T) {
	t.Run("concurrent index inside block", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.AutocommitBlock(func() {
		op.Execute("CREATE INDEX CONCURRENTLY ix_foo ON bar (baz)")
	})
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Empty(t, warnings)
	})

	t.Run("concurrent drop inside block", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.AutocommitBlock(func() {
		op.Execute("DROP INDEX CONCURRENTLY ix_foo")
		op.Execute("CREATE INDEX CONCURRENTLY ix_new ON bar (baz)")
	})
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Empty(t, warnings)
	})

	t.Run("concurrent index outside block", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.Execute("CREATE INDEX CONCURRENTLY ix_foo ON bar (baz)")
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Equal(t, []int{5}, warnings)
	})

	t.Run("case insensitive match", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.Execute("create index concurrently ix_foo on bar (baz)")
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Len(t, warnings, 1)
	})

	t.Run("mixed inside and outside", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.Execute("CREATE INDEX CONCURRENTLY ix_bad ON bar (baz)")
	op.AutocommitBlock(func() {
		op.Execute("CREATE INDEX CONCURRENTLY ix_good ON bar (qux)")
	})
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Equal(t, []int{5}, warnings)
	})

	t.Run("scope does not leak out of nested block", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.AutocommitBlock(func() {
		op.Execute("CREATE INDEX CONCURRENTLY ix_good ON bar (qux)")
	})
	op.Execute("CREATE INDEX CONCURRENTLY ix_bad ON bar (baz)")
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Equal(t, []int{8}, warnings)
	})

	t.Run("text wrapped literal is inspected", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.Execute(migrate.Text("CREATE INDEX CONCURRENTLY ix_foo ON bar (baz)"))
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Len(t, warnings, 1)
	})
}

func TestCheckAutocommit_IndexBuilders(t *testing.T) {
	t.Run("concurrent create inside block", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.AutocommitBlock(func() {
		op.CreateIndex("ix_foo", "bar", []string{"baz"}, migrate.IndexOpts{Concurrently: true})
	})
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Empty(t, warnings)
	})

	t.Run("concurrent create outside block", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.CreateIndex("ix_foo", "bar", []string{"baz"}, migrate.IndexOpts{Concurrently: true})
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Equal(t, []int{5}, warnings)
	})

	t.Run("create without option", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.CreateIndex("ix_foo", "bar", []string{"baz"})
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Empty(t, warnings)
	})

	t.Run("create with option false", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.CreateIndex("ix_foo", "bar", []string{"baz"}, migrate.IndexOpts{Concurrently: false})
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Empty(t, warnings)
	})

	t.Run("concurrent drop outside block", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.DropIndex("ix_foo", migrate.IndexOpts{Concurrently: true})
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Len(t, warnings, 1)
	})

	t.Run("mixed builders", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.CreateIndex("ix_bad", "bar", []string{"baz"}, migrate.IndexOpts{Concurrently: true})
	op.AutocommitBlock(func() {
		op.CreateIndex("ix_good", "bar", []string{"qux"}, migrate.IndexOpts{Concurrently: true})
	})
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Equal(t, []int{5}, warnings)
	})
}

func TestCheckAutocommit_NoFalsePositives(t *testing.T) {
	t.Run("plain index", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.Execute("CREATE INDEX ix_foo ON bar (baz)")
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Empty(t, warnings)
	})

	t.Run("no execute calls", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.AddColumn("users", migrate.Column("email", migrate.String(255)))
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Empty(t, warnings)
	})

	t.Run("unrelated string content", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.Execute("SET lock_timeout = '10s'")
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Empty(t, warnings)
	})

	t.Run("variable reference is passed through", func(t *testing.T) {
		path := writeMigration(t, `
package versions

var stmt = "CREATE INDEX CONCURRENTLY ix_foo ON bar (baz)"

func Up(op Operations) {
	op.Execute(stmt)
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Empty(t, warnings)
	})

	t.Run("formatted string is passed through", func(t *testing.T) {
		path := writeMigration(t, `
package versions

func Up(op Operations) {
	op.Execute(fmt.Sprintf("CREATE INDEX CONCURRENTLY %s ON bar (baz)", name))
}
`)

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Empty(t, warnings)
	})

	t.Run("unparseable source", func(t *testing.T) {
		path := writeMigration(t, "this is not valid go {{{")

		warnings, err := CheckAutocommit(path)
		require.NoError(t, err)
		require.Empty(t, warnings)
	})
}
