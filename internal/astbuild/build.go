// Package astbuild constructs synthetic AST nodes. The optimizer uses it
// to synthesize the header declarations, guards, and branch calls it
// splices into a rewritten component; tests and the demo CLI use it to
// construct example components directly, since source parsing is out
// of scope for this module.
package astbuild

import "github.com/juncdeinda/forgetti/internal/ast"

// Ident returns a fresh identifier referencing binding. Pass nil for a
// binding to build a reference to something resolved elsewhere (e.g. a
// resolver-supplied runtime import).
func Ident(name string, binding *ast.Binding) *ast.Identifier {
	return &ast.Identifier{Name: name, Binding: binding}
}

// LocalBinding returns a fresh Local binding named name.
func LocalBinding(name string) *ast.Binding {
	return &ast.Binding{Name: name, Kind: ast.Local}
}

// Num builds a numeric literal.
func Num(raw string, value float64) *ast.Literal {
	return &ast.Literal{LitKind: ast.NumericLiteral, Value: value, Raw: raw}
}

// Bool builds a boolean literal.
func Bool(value bool) *ast.Literal {
	raw := "false"
	if value {
		raw = "true"
	}
	return &ast.Literal{LitKind: ast.BooleanLiteral, Value: value, Raw: raw}
}

// Null builds a null literal.
func Null() *ast.Literal {
	return &ast.Literal{LitKind: ast.NullLiteral, Value: nil, Raw: "null"}
}

// Undefined builds a `void 0`, the canonical "undefined" expression in a
// dialect with no literal undefined token.
func Undefined() *ast.UnaryExpr {
	return &ast.UnaryExpr{Operator: "void", Argument: Num("0", 0), Prefix: true}
}

// Str builds a string literal; raw includes the surrounding quotes.
func Str(value string) *ast.Literal {
	return &ast.Literal{LitKind: ast.StringLiteral, Value: value, Raw: `"` + value + `"`}
}

// Member builds `object.property` (or `object[property]` when computed).
func Member(object, property ast.Expr, computed bool) *ast.MemberExpr {
	return &ast.MemberExpr{Object: object, Property: property, Computed: computed}
}

// Call builds `callee(args...)`.
func Call(callee ast.Expr, args ...ast.Expr) *ast.CallExpr {
	return &ast.CallExpr{Callee: callee, Arguments: args}
}

// Binary builds `left operator right`.
func Binary(operator string, left, right ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Operator: operator, Left: left, Right: right}
}

// Logical builds `left operator right` for &&, ||, ??.
func Logical(operator string, left, right ast.Expr) *ast.LogicalExpr {
	return &ast.LogicalExpr{Operator: operator, Left: left, Right: right}
}

// Unary builds a prefix unary expression.
func Unary(operator string, argument ast.Expr) *ast.UnaryExpr {
	return &ast.UnaryExpr{Operator: operator, Argument: argument, Prefix: true}
}

// Not builds `!argument`.
func Not(argument ast.Expr) *ast.UnaryExpr {
	return Unary("!", argument)
}

// PreIncrement builds `++argument`.
func PreIncrement(argument ast.Expr) *ast.UpdateExpr {
	return &ast.UpdateExpr{Operator: "++", Argument: argument, Prefix: true}
}

// Conditional builds `test ? consequent : alternate`.
func Conditional(test, consequent, alternate ast.Expr) *ast.ConditionalExpr {
	return &ast.ConditionalExpr{Test: test, Consequent: consequent, Alternate: alternate}
}

// Assign builds `left = right` (or another assignment operator).
func Assign(operator string, left ast.LVal, right ast.Expr) *ast.AssignmentExpr {
	return &ast.AssignmentExpr{Operator: operator, Left: left, Right: right}
}

// In builds `key in object`, used for the one-time-slot guard pattern.
func In(key, object ast.Expr) *ast.BinaryExpr {
	return Binary("in", key, object)
}

// StrictNotEq builds `left !== right`.
func StrictNotEq(left, right ast.Expr) *ast.BinaryExpr {
	return Binary("!==", left, right)
}

// Array builds an array literal from elements (nil entries become elisions).
func Array(elements ...ast.Expr) *ast.ArrayExpr {
	return &ast.ArrayExpr{Elements: elements}
}

// Let declares a single identifier with an initializer:
// `let name = init;`.
func Let(kind ast.VariableKind, binding *ast.Binding, init ast.Expr) *ast.VariableDeclaration {
	return &ast.VariableDeclaration{
		VarKind: kind,
		Declarations: []*ast.VariableDeclarator{
			{ID: Ident(binding.Name, binding), Init: init},
		},
	}
}

// ExprStmt wraps an expression as a statement.
func ExprStmt(e ast.Expr) *ast.ExpressionStmt {
	return &ast.ExpressionStmt{Expression: e}
}

// Block wraps statements into a block.
func Block(stmts ...ast.Stmt) *ast.BlockStmt {
	return &ast.BlockStmt{Body: stmts}
}

// If builds an if/else statement; alt may be nil.
func If(test ast.Expr, cons ast.Stmt, alt ast.Stmt) *ast.IfStmt {
	return &ast.IfStmt{Test: test, Consequent: cons, Alternate: alt}
}

// Return builds a return statement; argument may be nil for a bare return.
func Return(argument ast.Expr) *ast.ReturnStmt {
	return &ast.ReturnStmt{Argument: argument}
}

// Component builds a component node with a block body.
func Component(name string, params []ast.LVal, body *ast.BlockStmt) *ast.Component {
	return &ast.Component{Name: name, Params: params, Body: body}
}
