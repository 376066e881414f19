package astbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juncdeinda/forgetti/internal/ast"
)

func TestIdentSharesBinding(t *testing.T) {
	b := LocalBinding("x")
	id := Ident("x", b)
	assert.Equal(t, "x", id.Name)
	assert.Same(t, b, id.Binding)
}

func TestLiteralConstructors(t *testing.T) {
	assert.Equal(t, ast.NumericLiteral, Num("3", 3).LitKind)
	assert.Equal(t, ast.BooleanLiteral, Bool(true).LitKind)
	assert.Equal(t, "true", Bool(true).Raw)
	assert.Equal(t, "false", Bool(false).Raw)
	assert.Equal(t, ast.NullLiteral, Null().LitKind)
	assert.Equal(t, `"hi"`, Str("hi").Raw)
}

func TestUndefinedIsVoidZero(t *testing.T) {
	u := Undefined()
	assert.Equal(t, "void", u.Operator)
	assert.True(t, u.Prefix)
	lit, ok := u.Argument.(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, ast.NumericLiteral, lit.LitKind)
	assert.Equal(t, float64(0), lit.Value)
}

func TestMemberComputedFlag(t *testing.T) {
	obj := Ident("o", LocalBinding("o"))
	m := Member(obj, Num("0", 0), true)
	assert.True(t, m.Computed)
	assert.Same(t, obj, m.Object)
}

func TestPreIncrementBuildsUpdateExpr(t *testing.T) {
	target := Ident("i", LocalBinding("i"))
	u := PreIncrement(target)
	assert.Equal(t, "++", u.Operator)
	assert.True(t, u.Prefix)
	assert.Same(t, target, u.Argument)
}

func TestConditionalAndLet(t *testing.T) {
	test := In(Num("0", 0), Ident("h", LocalBinding("h")))
	cond := Conditional(test, Num("1", 1), Num("2", 2))
	assert.Equal(t, test, cond.Test)

	binding := LocalBinding("v")
	decl := Let(ast.Let, binding, cond)
	assert.Len(t, decl.Declarations, 1)
	assert.Same(t, cond, decl.Declarations[0].Init)
}

func TestStrictNotEqAndNot(t *testing.T) {
	left := Num("1", 1)
	right := Num("2", 2)
	bin := StrictNotEq(left, right)
	assert.Equal(t, "!==", bin.Operator)

	n := Not(Bool(true))
	assert.Equal(t, "!", n.Operator)
	assert.True(t, n.Prefix)
}
