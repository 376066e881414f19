// Package printer renders the optimizer's AST shapes back to readable
// source text. It exists for the demo CLI and for tests that want to
// assert on the shape of a rewritten component without walking the AST
// by hand; it is not a formatter and makes no attempt at idempotent
// round-tripping through a real parser.
package printer

import (
	"fmt"
	"strings"

	"github.com/juncdeinda/forgetti/internal/ast"
)

// Print renders component as a single function declaration.
func Print(component *ast.Component) string {
	var b strings.Builder
	name := component.Name
	if name == "" {
		name = "<anonymous>"
	}
	fmt.Fprintf(&b, "function %s(%s) ", name, joinLVals(component.Params))
	printBlock(&b, component.Body, 0)
	return b.String()
}

func joinLVals(params []ast.LVal) string {
	var parts []string
	for _, p := range params {
		parts = append(parts, exprString(p))
	}
	return strings.Join(parts, ", ")
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func printBlock(b *strings.Builder, block *ast.BlockStmt, depth int) {
	b.WriteString("{\n")
	for _, stmt := range block.Body {
		printStmt(b, stmt, depth+1)
	}
	indent(b, depth)
	b.WriteString("}\n")
}

func printStmt(b *strings.Builder, stmt ast.Stmt, depth int) {
	indent(b, depth)
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		fmt.Fprintf(b, "%s;\n", exprString(s.Expression))
	case *ast.VariableDeclaration:
		kind := varKindString(s.VarKind)
		var parts []string
		for _, d := range s.Declarations {
			if d.Init != nil {
				parts = append(parts, fmt.Sprintf("%s = %s", exprString(d.ID), exprString(d.Init)))
			} else {
				parts = append(parts, exprString(d.ID))
			}
		}
		fmt.Fprintf(b, "%s %s;\n", kind, strings.Join(parts, ", "))
	case *ast.ReturnStmt:
		if s.Argument != nil {
			fmt.Fprintf(b, "return %s;\n", exprString(s.Argument))
		} else {
			b.WriteString("return;\n")
		}
	case *ast.IfStmt:
		fmt.Fprintf(b, "if (%s) ", exprString(s.Test))
		if block, ok := s.Consequent.(*ast.BlockStmt); ok {
			printBlock(b, block, depth)
		} else {
			b.WriteString("\n")
			printStmt(b, s.Consequent, depth+1)
		}
		if s.Alternate != nil {
			indent(b, depth)
			b.WriteString("else ")
			if block, ok := s.Alternate.(*ast.BlockStmt); ok {
				printBlock(b, block, depth)
			} else {
				b.WriteString("\n")
				printStmt(b, s.Alternate, depth+1)
			}
		}
	case *ast.BlockStmt:
		printBlock(b, s, depth)
	default:
		fmt.Fprintf(b, "%T;\n", stmt)
	}
}

func varKindString(k ast.VariableKind) string {
	switch k {
	case ast.Const:
		return "const"
	case ast.Var:
		return "var"
	default:
		return "let"
	}
}

func exprString(e ast.Node) string {
	if e == nil {
		return ""
	}
	switch v := e.(type) {
	case *ast.Identifier:
		return v.Name
	case *ast.Literal:
		return v.Raw
	case *ast.ParenExpr:
		return "(" + exprString(v.Expression) + ")"
	case *ast.MemberExpr:
		if v.Computed {
			return fmt.Sprintf("%s[%s]", exprString(v.Object), exprString(v.Property))
		}
		return fmt.Sprintf("%s.%s", exprString(v.Object), exprString(v.Property))
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", exprString(v.Left), v.Operator, exprString(v.Right))
	case *ast.LogicalExpr:
		return fmt.Sprintf("%s %s %s", exprString(v.Left), v.Operator, exprString(v.Right))
	case *ast.UnaryExpr:
		if v.Prefix {
			return fmt.Sprintf("%s%s", v.Operator, exprString(v.Argument))
		}
		return fmt.Sprintf("%s%s", exprString(v.Argument), v.Operator)
	case *ast.UpdateExpr:
		if v.Prefix {
			return fmt.Sprintf("%s%s", v.Operator, exprString(v.Argument))
		}
		return fmt.Sprintf("%s%s", exprString(v.Argument), v.Operator)
	case *ast.ConditionalExpr:
		return fmt.Sprintf("%s ? %s : %s", exprString(v.Test), exprString(v.Consequent), exprString(v.Alternate))
	case *ast.CallExpr:
		return fmt.Sprintf("%s(%s)", exprString(v.Callee), joinExprs(v.Arguments))
	case *ast.NewExpr:
		return fmt.Sprintf("new %s(%s)", exprString(v.Callee), joinExprs(v.Arguments))
	case *ast.AssignmentExpr:
		return fmt.Sprintf("%s %s %s", exprString(v.Left), v.Operator, exprString(v.Right))
	case *ast.ArrayExpr:
		return fmt.Sprintf("[%s]", joinExprs(v.Elements))
	case *ast.SpreadElement:
		return "..." + exprString(v.Argument)
	case *ast.ObjectExpr:
		var parts []string
		for _, m := range v.Properties {
			parts = append(parts, exprString(m))
		}
		return fmt.Sprintf("{ %s }", strings.Join(parts, ", "))
	case *ast.Property:
		return fmt.Sprintf("%s: %s", exprString(v.Key), exprString(v.Value))
	case *ast.FunctionExpr:
		return fmt.Sprintf("function(%s) { ... }", joinLVals(v.Params))
	case *ast.ArrowFunctionExpr:
		return fmt.Sprintf("(%s) => %s", joinLVals(v.Params), exprBody(v.Body))
	case *ast.SequenceExpr:
		return joinExprs(v.Expressions)
	default:
		return fmt.Sprintf("%T", e)
	}
}

func exprBody(n ast.Node) string {
	if block, ok := n.(*ast.BlockStmt); ok {
		var b strings.Builder
		printBlock(&b, block, 0)
		return b.String()
	}
	return exprString(n)
}

func joinExprs(exprs []ast.Expr) string {
	var parts []string
	for _, e := range exprs {
		if e == nil {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, exprString(e))
	}
	return strings.Join(parts, ", ")
}
