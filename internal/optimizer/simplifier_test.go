package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juncdeinda/forgetti/internal/ast"
	"github.com/juncdeinda/forgetti/internal/astbuild"
)

func TestSimplifyConditionalFoldsOnTruthyTest(t *testing.T) {
	s := NewSimplifier()
	cond := astbuild.Conditional(astbuild.Bool(true), astbuild.Num("1", 1), astbuild.Num("2", 2))
	result := s.SimplifyExpr(cond)
	lit, ok := result.(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, float64(1), lit.Value)
}

func TestSimplifyConditionalLeavesIndeterminateTestAlone(t *testing.T) {
	s := NewSimplifier()
	test := astbuild.Ident("flag", astbuild.LocalBinding("flag"))
	cond := astbuild.Conditional(test, astbuild.Num("1", 1), astbuild.Num("2", 2))
	result := s.SimplifyExpr(cond)
	_, ok := result.(*ast.ConditionalExpr)
	assert.True(t, ok)
}

func TestSimplifyLogicalOr(t *testing.T) {
	s := NewSimplifier()
	right := astbuild.Ident("fallback", astbuild.LocalBinding("fallback"))

	falsyLeft := astbuild.Logical("||", astbuild.Bool(false), right)
	assert.Same(t, right, s.SimplifyExpr(falsyLeft))

	truthyLeft := astbuild.Logical("||", astbuild.Num("1", 1), right)
	lit, ok := s.SimplifyExpr(truthyLeft).(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, float64(1), lit.Value)
}

func TestSimplifyLogicalNullishCoalescing(t *testing.T) {
	s := NewSimplifier()
	right := astbuild.Ident("fallback", astbuild.LocalBinding("fallback"))

	nullLeft := astbuild.Logical("??", astbuild.Null(), right)
	assert.Same(t, right, s.SimplifyExpr(nullLeft))

	zeroLeft := astbuild.Logical("??", astbuild.Num("0", 0), right)
	lit, ok := s.SimplifyExpr(zeroLeft).(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, float64(0), lit.Value)
}

func TestSimplifyUnaryVoidAndNot(t *testing.T) {
	s := NewSimplifier()

	void := astbuild.Unary("void", astbuild.Str("x"))
	rewritten := s.SimplifyExpr(void)
	unary, ok := rewritten.(*ast.UnaryExpr)
	assert.True(t, ok)
	lit := unary.Argument.(*ast.Literal)
	assert.Equal(t, float64(0), lit.Value)

	not := astbuild.Not(astbuild.Bool(false))
	notResult := s.SimplifyExpr(not).(*ast.Literal)
	assert.Equal(t, true, notResult.Value)
}

func TestSimplifyIfStmtFoldsAwayDeadBranch(t *testing.T) {
	s := NewSimplifier()
	cons := astbuild.Block(astbuild.ExprStmt(astbuild.Num("1", 1)))
	alt := astbuild.Block(astbuild.ExprStmt(astbuild.Num("2", 2)))
	ifStmt := astbuild.If(astbuild.Bool(false), cons, alt)

	result := s.SimplifyStmt(ifStmt)
	assert.Same(t, alt, result)
}
