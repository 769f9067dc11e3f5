package inspect

import (
	"go/ast"
	"go/token"
	"strconv"
)

// stringValue resolves an expression to the SQL string it carries, if any.
// Two shapes resolve: a string literal, and a call to a text-wrapping helper
// named Text (bare or via selector, e.g. migrate.Text("...")), in which case
// the helper's first argument is resolved recursively.
//
// Every other shape resolves to nothing. Dynamic SQL (identifiers, sprintf
// calls, concatenations) is not analyzable statically and is deliberately
// passed through unexamined rather than flagged.
func stringValue(expr ast.Expr) (string, bool) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return literalString(e)
	case *ast.CallExpr:
		if len(e.Args) == 0 || calleeName(e) != "Text" {
			return "", false
		}
		return stringValue(e.Args[0])
	}

	return "", false
}

// literalString unquotes a string literal expression.
func literalString(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}

	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}

// calleeName returns the final name a call resolves through: the selector
// name for method-style calls, the identifier for bare calls, "" otherwise.
func calleeName(call *ast.CallExpr) string {
	switch fn := call.Fun.(type) {
	case *ast.SelectorExpr:
		return fn.Sel.Name
	case *ast.Ident:
		return fn.Name
	}
	return ""
}

// opCall reports whether call is a method call on a bare identifier receiver
// (the framework's op handle) with the given name and at least one argument.
func opCall(call *ast.CallExpr, name string) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != name {
		return false
	}

	if _, ok := sel.X.(*ast.Ident); !ok {
		return false
	}
	return len(call.Args) > 0
}
