// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/juncdeinda/forgetti/internal/ast"
	"github.com/juncdeinda/forgetti/internal/astbuild"
	"github.com/juncdeinda/forgetti/internal/errors"
	"github.com/juncdeinda/forgetti/internal/optimizer"
	"github.com/juncdeinda/forgetti/internal/preset"
	"github.com/juncdeinda/forgetti/internal/printer"
)

func main() {
	var presetPath string
	if len(os.Args) > 1 {
		presetPath = os.Args[1]
	}

	p := preset.Default()
	if presetPath != "" {
		loaded, err := preset.Load(presetPath)
		if err != nil {
			// preset.Load already renders conflicting entries with
			// errors.ErrorReporter; a read/parse failure below that
			// point is a plain error.
			color.Red("Failed to load preset: %s", err)
			os.Exit(1)
		}
		p = loaded
		reportWarnings(presetPath, printedPresetSource(presetPath), p.Warnings)
	}

	component := demoComponent()

	resolver := preset.NewDefaultImportResolver()
	opt := optimizer.New(p, resolver)

	optimized, err := opt.Optimize(component)
	if err != nil {
		if oe, ok := err.(*optimizer.OptimizeError); ok {
			reporter := errors.NewErrorReporter(component.Name, printer.Print(component))
			fmt.Fprint(os.Stderr, reporter.FormatError(oe.CompilerError))
		} else {
			color.Red("Optimization failed: %s", err)
		}
		os.Exit(1)
	}

	reportWarnings(component.Name, printer.Print(optimized), opt.Warnings())

	fmt.Println(printer.Print(optimized))
	color.Green("✅ Optimized component %q using preset %q", optimized.Name, p.Name)
}

// reportWarnings renders non-fatal diagnostics (an unused preset field, a
// component left unmemoized, a dependency array that doesn't match the
// computed free variables) against source, best effort — render failure
// never stops the pass.
func reportWarnings(filename, source string, warnings []errors.CompilerError) {
	if len(warnings) == 0 {
		return
	}
	reporter := errors.NewErrorReporter(filename, source)
	fmt.Fprint(os.Stderr, reporter.FormatDiagnostics(warnings))
}

// printedPresetSource re-reads a preset file for warning rendering; a
// read failure here just means warnings render without source context.
func printedPresetSource(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// demoComponent builds a small illustrative component by hand, since
// source parsing into this package's AST shapes is out of scope: a
// component with a derived value, a memoized callback, and a ref.
//
//	function Demo(props) {
//	  const total = props.a + props.b;
//	  const onClick = useCallback(() => props.a + props.b, [props.a, props.b]);
//	  const box = useRef(0);
//	  return total;
//	}
func demoComponent() *ast.Component {
	propsBinding := &ast.Binding{Name: "props", Kind: ast.Param}
	props := astbuild.Ident("props", propsBinding)

	propA := astbuild.Member(props, astbuild.Ident("a", nil), false)
	propB := astbuild.Member(props, astbuild.Ident("b", nil), false)

	totalBinding := astbuild.LocalBinding("total")
	totalDecl := astbuild.Let(ast.Const, totalBinding, astbuild.Binary("+", propA, propB))

	callbackArrow := &ast.ArrowFunctionExpr{Body: astbuild.Binary("+", propA, propB)}
	useCallback := astbuild.Call(
		astbuild.Ident("useCallback", nil),
		callbackArrow,
		astbuild.Array(propA, propB),
	)
	onClickBinding := astbuild.LocalBinding("onClick")
	onClickDecl := astbuild.Let(ast.Const, onClickBinding, useCallback)

	useRef := astbuild.Call(astbuild.Ident("useRef", nil), astbuild.Num("0", 0))
	boxBinding := astbuild.LocalBinding("box")
	boxDecl := astbuild.Let(ast.Const, boxBinding, useRef)

	body := astbuild.Block(
		totalDecl,
		onClickDecl,
		boxDecl,
		astbuild.Return(astbuild.Ident("total", totalBinding)),
	)

	return astbuild.Component("Demo", []ast.LVal{astbuild.Ident("props", propsBinding)}, body)
}
