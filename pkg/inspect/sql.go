package inspect

import "go/ast"

// ExtractSQL returns the raw SQL strings passed to op.Execute calls, in
// source order. This is the no-external-process fallback SQL source: it sees
// only literal strings (and Text-wrapped literals), so SQL produced by
// builder-style operations like op.CreateIndex or op.AddColumn is invisible
// to it. The generator-derived path in pkg/derive is the complete source.
//
// Unparseable files yield an empty result, never an error.
func ExtractSQL(path string) ([]string, error) {
	file, _, err := parseFile(path)
	if err != nil {
		return nil, nil
	}

	var statements []string

	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || !opCall(call, "Execute") {
			return true
		}

		if sql, ok := stringValue(call.Args[0]); ok {
			statements = append(statements, sql)
		}
		return true
	})

	return statements, nil
}
