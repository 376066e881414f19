package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/juncdeinda/forgetti/internal/ast"
	"github.com/juncdeinda/forgetti/internal/preset"
)

func TestAllocMemoSlotIsContiguousAndZeroBased(t *testing.T) {
	root := NewRootScope(preset.NewDefaultImportResolver(), "useMemo", "useRef")
	assert.Equal(t, 0, root.AllocMemoSlot())
	assert.Equal(t, 1, root.AllocMemoSlot())
	assert.Equal(t, 2, root.AllocMemoSlot())
	assert.Equal(t, 3, root.MemoSlotCount())
}

func TestChildScopeReservesOneParentSlot(t *testing.T) {
	root := NewRootScope(preset.NewDefaultImportResolver(), "useMemo", "useRef")
	root.AllocMemoSlot() // occupy slot 0 with something unrelated

	child := NewChildScope(root, false)
	child.MemoHeaderID() // first touch reserves the parent slot

	assert.Equal(t, 2, root.MemoSlotCount())
}

func TestMemoHeaderIDIsStableAcrossCalls(t *testing.T) {
	root := NewRootScope(preset.NewDefaultImportResolver(), "useMemo", "useRef")
	first := root.MemoHeaderID()
	second := root.MemoHeaderID()
	assert.Same(t, first.Binding, second.Binding)
}

func TestOptimizedAndInvalidate(t *testing.T) {
	root := NewRootScope(preset.NewDefaultImportResolver(), "useMemo", "useRef")
	b := &ast.Binding{Name: "x", Kind: ast.Local}
	oe := &OptimizedExpression{Constant: false}

	root.SetOptimized(b, oe)
	got, ok := root.GetOptimized(b)
	assert.True(t, ok)
	assert.Same(t, oe, got)

	root.Invalidate(b)
	_, ok = root.GetOptimized(b)
	assert.False(t, ok)
}

func TestGetOptimizedSearchesAncestors(t *testing.T) {
	root := NewRootScope(preset.NewDefaultImportResolver(), "useMemo", "useRef")
	b := &ast.Binding{Name: "x", Kind: ast.Local}
	oe := &OptimizedExpression{Constant: true}
	root.SetOptimized(b, oe)

	child := NewChildScope(root, false)
	got, ok := child.GetOptimized(b)
	assert.True(t, ok)
	assert.Same(t, oe, got)
}

func TestLoopBodyScopeUsesOverrideWithoutParentSlot(t *testing.T) {
	root := NewRootScope(preset.NewDefaultImportResolver(), "useMemo", "useRef")
	before := root.MemoSlotCount()

	override := &ast.Binding{Name: "_c1", Kind: ast.Local}
	body := NewLoopBodyScope(root, override)
	header := body.MemoHeaderID()

	assert.Same(t, override, header.Binding)
	assert.Equal(t, before, root.MemoSlotCount())
}

func TestFinalizeRootEmitsCacheCall(t *testing.T) {
	root := NewRootScope(preset.NewDefaultImportResolver(), "useMemo", "useRef")
	root.MemoHeaderID()
	root.AllocMemoSlot()

	stmts := root.Finalize(true)
	assert.Len(t, stmts, 1)
	decl, ok := stmts[0].(*ast.VariableDeclaration)
	assert.True(t, ok)
	call, ok := decl.Declarations[0].Init.(*ast.CallExpr)
	assert.True(t, ok)
	callee := call.Callee.(*ast.Identifier)
	assert.Equal(t, RuntimeCache, callee.Name)
}

func TestFinalizeSuppressesHeaderForLoopBodyManagedScope(t *testing.T) {
	root := NewRootScope(preset.NewDefaultImportResolver(), "useMemo", "useRef")
	override := &ast.Binding{Name: "_c1", Kind: ast.Local}
	body := NewLoopBodyScope(root, override)
	body.MemoHeaderID()
	body.AllocMemoSlot()

	stmts := body.Finalize(false)
	assert.Empty(t, stmts)
}
