package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juncdeinda/forgetti/internal/ast"
	"github.com/juncdeinda/forgetti/internal/astbuild"
	"github.com/juncdeinda/forgetti/internal/preset"
)

func newOptimizer() *Optimizer {
	return New(preset.Default(), preset.NewDefaultImportResolver())
}

// component builds:
//
//	function Demo(props) {
//	  const total = props.a + props.b;
//	  return total;
//	}
func binaryExprComponent() *ast.Component {
	propsBinding := &ast.Binding{Name: "props", Kind: ast.Param}
	props := astbuild.Ident("props", propsBinding)
	propA := astbuild.Member(props, astbuild.Ident("a", nil), false)
	propB := astbuild.Member(props, astbuild.Ident("b", nil), false)

	totalBinding := astbuild.LocalBinding("total")
	body := astbuild.Block(
		astbuild.Let(ast.Const, totalBinding, astbuild.Binary("+", propA, propB)),
		astbuild.Return(astbuild.Ident("total", totalBinding)),
	)
	return astbuild.Component("Demo", []ast.LVal{astbuild.Ident("props", propsBinding)}, body)
}

func TestOptimizeMemoizesDerivedValue(t *testing.T) {
	opt := newOptimizer()
	out, err := opt.Optimize(binaryExprComponent())
	require.NoError(t, err)
	require.NotNil(t, out.Body)

	// Root scope's header declaration is the first statement.
	headerDecl, ok := out.Body.Body[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	call, ok := headerDecl.Declarations[0].Init.(*ast.CallExpr)
	require.True(t, ok)
	assert.Equal(t, RuntimeCache, call.Callee.(*ast.Identifier).Name)

	// The rest of the body must contain at least one createMemo-style
	// `let vN = <guard> ? header[slot] : (header[slot] = expr);` line.
	foundGuardedWrite := false
	for _, stmt := range out.Body.Body[1:] {
		decl, ok := stmt.(*ast.VariableDeclaration)
		if !ok {
			continue
		}
		cond, ok := decl.Declarations[0].Init.(*ast.ConditionalExpr)
		if !ok {
			continue
		}
		if _, ok := cond.Alternate.(*ast.AssignmentExpr); ok {
			foundGuardedWrite = true
		}
	}
	assert.True(t, foundGuardedWrite, "expected at least one guarded cache write")
}

func TestOptimizeIsIdempotentOnAlreadyConstantBody(t *testing.T) {
	body := astbuild.Block(astbuild.Return(astbuild.Num("42", 42)))
	component := astbuild.Component("Constant", nil, body)

	opt := newOptimizer()
	out, err := opt.Optimize(component)
	require.NoError(t, err)

	// Nothing to memoize: no header should have been allocated.
	for _, stmt := range out.Body.Body {
		decl, ok := stmt.(*ast.VariableDeclaration)
		if !ok {
			continue
		}
		if call, ok := decl.Declarations[0].Init.(*ast.CallExpr); ok {
			if id, ok := call.Callee.(*ast.Identifier); ok {
				assert.NotEqual(t, RuntimeCache, id.Name)
			}
		}
	}
}

func TestOptimizeFailsGracefullyOnNilBody(t *testing.T) {
	component := &ast.Component{Name: "Broken"}
	opt := newOptimizer()
	out, err := opt.Optimize(component)
	assert.Error(t, err)
	assert.Same(t, component, out)

	var oe *OptimizeError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "F0004", oe.CompilerError.Code)
}

func TestOptimizeWarnsWhenNothingIsMemoizable(t *testing.T) {
	// A read of a component-local binding is memoized, so the body only
	// reads a module-level (foreign) binding.
	xBinding := astbuild.LocalBinding("x")
	limitBinding := &ast.Binding{Name: "LIMIT", Kind: ast.Foreign}
	body := astbuild.Block(
		astbuild.Let(ast.Const, xBinding, astbuild.Num("1", 1)),
		astbuild.Return(astbuild.Ident("LIMIT", limitBinding)),
	)
	component := astbuild.Component("Static", nil, body)

	opt := newOptimizer()
	_, err := opt.Optimize(component)
	require.NoError(t, err)
	require.Len(t, opt.Warnings(), 1)
	assert.Equal(t, "W0001", opt.Warnings()[0].Code)
}

func TestOptimizeWarnsOnDependencyArrayMismatch(t *testing.T) {
	propsBinding := &ast.Binding{Name: "props", Kind: ast.Param}
	props := astbuild.Ident("props", propsBinding)
	propA := astbuild.Member(props, astbuild.Ident("a", nil), false)

	arrow := &ast.ArrowFunctionExpr{Body: propA}
	call := astbuild.Call(astbuild.Ident("useCallback", nil), arrow, astbuild.Array(astbuild.Ident("wrong", nil)))
	onClickBinding := astbuild.LocalBinding("onClick")
	body := astbuild.Block(
		astbuild.Let(ast.Const, onClickBinding, call),
		astbuild.Return(astbuild.Ident("onClick", onClickBinding)),
	)
	component := astbuild.Component("Demo", []ast.LVal{astbuild.Ident("props", propsBinding)}, body)

	opt := newOptimizer()
	_, err := opt.Optimize(component)
	require.NoError(t, err)
	require.Len(t, opt.Warnings(), 1)
	assert.Equal(t, "W0002", opt.Warnings()[0].Code)
}

func TestOptimizeAssignmentInvalidatesBinding(t *testing.T) {
	xBinding := astbuild.LocalBinding("x")
	yBinding := astbuild.LocalBinding("y")

	body := astbuild.Block(
		astbuild.Let(ast.Let, xBinding, astbuild.Num("1", 1)),
		astbuild.ExprStmt(astbuild.Ident("x", xBinding)),
		astbuild.ExprStmt(astbuild.Assign("=", astbuild.Ident("x", xBinding), astbuild.Num("2", 2))),
		astbuild.Let(ast.Let, yBinding, astbuild.Ident("x", xBinding)),
		astbuild.Return(astbuild.Ident("y", yBinding)),
	)
	component := astbuild.Component("Invalidates", nil, body)

	opt := newOptimizer()
	out, err := opt.Optimize(component)
	require.NoError(t, err)
	require.NotNil(t, out)

	// Slots: the first read of x, the read of x after the assignment
	// (a fresh slot, not the first one reused), and the read of y.
	headerDecl, ok := out.Body.Body[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	call, ok := headerDecl.Declarations[0].Init.(*ast.CallExpr)
	require.True(t, ok)
	size, ok := call.Arguments[1].(*ast.Literal)
	require.True(t, ok)
	assert.Equal(t, float64(3), size.Value)
}

func TestOptimizeRefHookUsesOneTimeGuard(t *testing.T) {
	boxBinding := astbuild.LocalBinding("box")
	body := astbuild.Block(
		astbuild.Let(ast.Const, boxBinding, astbuild.Call(astbuild.Ident("useRef", nil), astbuild.Num("0", 0))),
		astbuild.Return(astbuild.Ident("box", boxBinding)),
	)
	component := astbuild.Component("WithRef", nil, body)

	opt := newOptimizer()
	out, err := opt.Optimize(component)
	require.NoError(t, err)

	foundRefHeader := false
	foundOneTimeGuard := false
	for _, stmt := range out.Body.Body {
		decl, ok := stmt.(*ast.VariableDeclaration)
		if !ok {
			continue
		}
		if call, ok := decl.Declarations[0].Init.(*ast.CallExpr); ok {
			if id, ok := call.Callee.(*ast.Identifier); ok && id.Name == RuntimeRef {
				foundRefHeader = true
			}
		}
		// `let v = (slot in header) ? header[slot] : (header[slot] = ...)`
		if cond, ok := decl.Declarations[0].Init.(*ast.ConditionalExpr); ok {
			if test, ok := cond.Test.(*ast.BinaryExpr); ok && test.Operator == "in" {
				foundOneTimeGuard = true
			}
		}
	}
	assert.True(t, foundRefHeader, "expected a ref() header declaration")
	assert.True(t, foundOneTimeGuard, "expected a one-time `in` guard for the ref slot")
}
