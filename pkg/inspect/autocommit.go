package inspect

import (
	"go/ast"
	"go/token"
	"strings"
)

// CheckAutocommit returns the source lines on which a non-transactional index
// operation is issued outside an op.AutocommitBlock scope, in source order.
//
// Two call shapes are flagged:
//   - op.Execute(sql) where sql statically resolves to text containing
//     "concurrently" (case-insensitive)
//   - op.CreateIndex(...) / op.DropIndex(...) carrying an options literal
//     with Concurrently: true
//
// A call is in scope when it sits lexically inside a func literal passed to
// an AutocommitBlock call, at any nesting depth. Unparseable files yield an
// empty result, never an error.
func CheckAutocommit(path string) ([]int, error) {
	file, fset, err := parseFile(path)
	if err != nil {
		return nil, nil
	}

	c := &autocommitChecker{fset: fset}
	c.walk(file)
	return c.warnings, nil
}

type autocommitChecker struct {
	fset     *token.FileSet
	inScope  bool
	warnings []int
}

func (c *autocommitChecker) walk(n ast.Node) {
	ast.Inspect(n, c.visit)
}

func (c *autocommitChecker) visit(n ast.Node) bool {
	call, ok := n.(*ast.CallExpr)
	if !ok {
		return true
	}

	if isAutocommitBlock(call) {
		// Func literal arguments form the scope; everything else about the
		// call is walked with the scope unchanged. The prior value is
		// restored afterwards so a block nested inside another scope does
		// not leak its state outward.
		c.walk(call.Fun)
		for _, arg := range call.Args {
			fn, ok := arg.(*ast.FuncLit)
			if !ok {
				c.walk(arg)
				continue
			}

			prev := c.inScope
			c.inScope = true
			c.walk(fn.Body)
			c.inScope = prev
		}
		return false
	}

	c.checkCall(call)
	return true
}

// checkCall flags a recognized non-transactional operation when the checker
// is not currently inside an autocommit scope.
func (c *autocommitChecker) checkCall(call *ast.CallExpr) {
	if c.inScope {
		return
	}

	switch {
	case opCall(call, "Execute"):
		sql, ok := stringValue(call.Args[0])
		if ok && strings.Contains(strings.ToLower(sql), "concurrently") {
			c.flag(call)
		}
	case opCall(call, "CreateIndex"), opCall(call, "DropIndex"):
		if hasConcurrentlyOption(call) {
			c.flag(call)
		}
	}
}

func (c *autocommitChecker) flag(call *ast.CallExpr) {
	c.warnings = append(c.warnings, c.fset.Position(call.Pos()).Line)
}

// isAutocommitBlock matches calls whose selector is AutocommitBlock,
// regardless of receiver shape (op.AutocommitBlock, ctx.AutocommitBlock, ...).
func isAutocommitBlock(call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	return ok && sel.Sel.Name == "AutocommitBlock"
}

// hasConcurrentlyOption reports whether any argument is an options composite
// literal setting Concurrently to the literal true.
func hasConcurrentlyOption(call *ast.CallExpr) bool {
	for _, arg := range call.Args {
		lit, ok := arg.(*ast.CompositeLit)
		if !ok {
			continue
		}

		for _, elt := range lit.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				continue
			}

			key, ok := kv.Key.(*ast.Ident)
			if !ok || key.Name != "Concurrently" {
				continue
			}

			if value, ok := kv.Value.(*ast.Ident); ok && value.Name == "true" {
				return true
			}
		}
	}

	return false
}
