package inspect

import (
	"go/ast"
	"go/parser"
	"go/token"
)

// RevisionInfo describes a migration's identity as declared by its top-level
// revision and downRevision bindings.
//
// DownRevision is nil for a root migration (downRevision = nil, or no binding
// at all), a single-element slice for a linear migration, and a multi-element
// slice for a merge. IsMerge reflects the declared shape, not the length: a
// downRevision declared as a slice literal is a merge even if it holds fewer
// than two string elements after filtering.
type RevisionInfo struct {
	// Revision is the migration's own identifier. Always non-empty; a file
	// without a resolvable string-literal revision yields no RevisionInfo.
	Revision string

	// DownRevision holds the predecessor identifier(s), in declaration order.
	// Non-string elements of a slice literal are silently dropped.
	DownRevision []string

	// IsMerge is true iff downRevision was declared as a slice literal.
	IsMerge bool
}

// ExtractRevisionInfo parses a migration file and recovers its declared
// identity. Only top-level var/const specs binding a single name to a single
// value are considered; when a name is bound more than once the last binding
// wins.
//
// Returns (nil, nil) when the file does not parse or carries no top-level
// string-literal revision binding. Neither case is an error: not every file
// under a migrations directory is a migration.
func ExtractRevisionInfo(path string) (*RevisionInfo, error) {
	file, _, err := parseFile(path)
	if err != nil {
		return nil, nil
	}

	var (
		revision string
		down     []string
		isSeq    bool
	)

	for _, b := range topLevelBindings(file) {
		switch b.name {
		case "revision":
			// Only a literal string counts; an expression leaves revision unset.
			if s, ok := literalString(b.value); ok {
				revision = s
			} else {
				revision = ""
			}
		case "downRevision":
			down, isSeq = downRevisionValue(b.value)
		}
	}

	if revision == "" {
		return nil, nil
	}

	return &RevisionInfo{
		Revision:     revision,
		DownRevision: down,
		IsMerge:      isSeq,
	}, nil
}

type binding struct {
	name  string
	value ast.Expr
}

// topLevelBindings returns every module-scope var/const spec of the form
// `name = value`, in source order.
func topLevelBindings(file *ast.File) []binding {
	var bindings []binding

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || (gen.Tok != token.VAR && gen.Tok != token.CONST) {
			continue
		}

		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok || len(vs.Names) != 1 || len(vs.Values) != 1 {
				continue
			}

			bindings = append(bindings, binding{name: vs.Names[0].Name, value: vs.Values[0]})
		}
	}

	return bindings
}

// downRevisionValue interprets the three accepted downRevision shapes: a
// string literal, the nil identifier, or a slice/array literal filtered to
// its string-literal elements.
func downRevisionValue(value ast.Expr) (down []string, isSeq bool) {
	switch v := value.(type) {
	case *ast.BasicLit:
		if s, ok := literalString(v); ok {
			return []string{s}, false
		}
	case *ast.Ident:
		if v.Name == "nil" {
			return nil, false
		}
	case *ast.CompositeLit:
		if _, ok := v.Type.(*ast.ArrayType); !ok {
			return nil, false
		}

		elems := make([]string, 0, len(v.Elts))
		for _, elt := range v.Elts {
			if s, ok := literalString(elt); ok {
				elems = append(elems, s)
			}
		}
		return elems, true
	}

	return nil, false
}

// parseFile parses a single Go source file, returning the file and its
// FileSet for position lookups.
func parseFile(path string) (*ast.File, *token.FileSet, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, nil, err
	}
	return file, fset, nil
}
