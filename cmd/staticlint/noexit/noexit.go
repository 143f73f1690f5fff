// Package noexit provides an analyzer that forbids direct os.Exit calls
// in the main function of package main.
package noexit

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

// Analyzer flags os.Exit inside func main of package main.
var Analyzer = &analysis.Analyzer{
	Name: "noexit",
	Doc:  "forbids direct os.Exit calls in the main function of package main",
	Run:  run,
}

// NewAnalyzer returns the noexit analyzer.
func NewAnalyzer() *analysis.Analyzer {
	return Analyzer
}

func run(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Name.Name != "main" || fn.Recv != nil {
				continue
			}

			ast.Inspect(fn.Body, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}

				sel, ok := call.Fun.(*ast.SelectorExpr)
				if !ok {
					return true
				}

				if id, ok := sel.X.(*ast.Ident); ok && id.Name == "os" && sel.Sel.Name == "Exit" {
					obj := pass.TypesInfo.Uses[sel.Sel]
					if fn, ok := obj.(*types.Func); ok && fn.FullName() == "os.Exit" {
						pass.Reportf(call.Pos(), "direct os.Exit call in main is forbidden")
					}
				}
				return true
			})
		}
	}
	return nil, nil
}
