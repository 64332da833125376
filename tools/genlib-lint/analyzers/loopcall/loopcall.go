// Package loopcall detects single-row store lookups inside loops.
package loopcall

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports store lookups in loops that have a batch form.
var Analyzer = &analysis.Analyzer{
	Name:     "loopcall",
	Doc:      "detects single-row store lookups inside loops that have a batch form",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// batchForms maps a single-row store method to the method that loads many rows at once.
var batchForms = map[string]string{
	"FindPersonByID":            "FindPersonsByIDs",
	"FindRelationshipsByPerson": "ListRelationships",
}

func run(pass *analysis.Pass) (any, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.RangeStmt)(nil),
		(*ast.ForStmt)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		var body *ast.BlockStmt
		switch stmt := n.(type) {
		case *ast.RangeStmt:
			body = stmt.Body
		case *ast.ForStmt:
			body = stmt.Body
		}
		if body == nil {
			return
		}

		ast.Inspect(body, func(n ast.Node) bool {
			// Nested loops are visited by Preorder on their own.
			switch n.(type) {
			case *ast.RangeStmt, *ast.ForStmt, *ast.FuncLit:
				return false
			}

			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}

			if batch, found := batchForms[sel.Sel.Name]; found {
				pass.Reportf(call.Pos(),
					"potential N+1: %s called inside loop - use %s",
					sel.Sel.Name, batch)
			}
			return true
		})
	})

	return nil, nil
}
