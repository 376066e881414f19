package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juncdeinda/forgetti/internal/ast"
	"github.com/juncdeinda/forgetti/internal/astbuild"
	"github.com/juncdeinda/forgetti/internal/preset"
)

func TestIsConstantLiteralsAndForeignBindings(t *testing.T) {
	a := NewExprAnalyzer(preset.Default())
	root := NewRootScope(preset.NewDefaultImportResolver(), "useMemo", "useRef")

	assert.True(t, a.IsConstant(astbuild.Num("1", 1), root))

	foreign := astbuild.Ident("Math", &ast.Binding{Name: "Math", Kind: ast.Global})
	assert.True(t, a.IsConstant(foreign, root))

	local := astbuild.Ident("x", &ast.Binding{Name: "x", Kind: ast.Local})
	assert.False(t, a.IsConstant(local, root))
}

func TestIsConstantRespectsScopeRegisteredConstants(t *testing.T) {
	a := NewExprAnalyzer(preset.Default())
	root := NewRootScope(preset.NewDefaultImportResolver(), "useMemo", "useRef")
	b := &ast.Binding{Name: "x", Kind: ast.Local}

	id := astbuild.Ident("x", b)
	assert.False(t, a.IsConstant(id, root))

	root.MarkConstant(b)
	assert.True(t, a.IsConstant(id, root))
}

func TestIsConstantFalseForHookCall(t *testing.T) {
	a := NewExprAnalyzer(preset.Default())
	root := NewRootScope(preset.NewDefaultImportResolver(), "useMemo", "useRef")

	call := astbuild.Call(astbuild.Ident("useMemo", nil), astbuild.Num("1", 1))
	assert.False(t, a.IsConstant(call, root))
}

func TestClassifyHookCallBareAndMember(t *testing.T) {
	a := NewExprAnalyzer(preset.Default())

	bare := astbuild.Call(astbuild.Ident("useMemo", nil))
	assert.Equal(t, preset.Memo, a.ClassifyHookCall(bare))

	member := astbuild.Call(astbuild.Member(astbuild.Ident("React", nil), astbuild.Ident("useMemo", nil), false))
	assert.Equal(t, preset.Memo, a.ClassifyHookCall(member))

	computed := astbuild.Call(astbuild.Member(astbuild.Ident("hooks", nil), astbuild.Str("useMemo"), true))
	assert.Equal(t, preset.None, a.ClassifyHookCall(computed))
}
