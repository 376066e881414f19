package optimizer

import (
	"fmt"

	"github.com/juncdeinda/forgetti/internal/ast"
	"github.com/juncdeinda/forgetti/internal/astbuild"
	"github.com/juncdeinda/forgetti/internal/preset"
)

// OptimizedExpression is the Optimizer's universal return value: the
// possibly-rewritten expr, its dependency expressions, and whether expr
// has been proven invariant across invocations.
type OptimizedExpression struct {
	Expr     ast.Expr
	Deps     []ast.Expr
	Constant bool
}

// Scope tracks the per-block cache state: the memo and
// ref cache headers for this block, the next free slot in each, loop
// markers, the parent link, the statements accumulated so far, and the
// two de-duplication tables. Scopes form a tree mirroring lexical block
// structure.
type Scope struct {
	parent   *Scope
	isInLoop bool
	resolver preset.ImportResolver

	// memoHookName/refHookName are the runtime-visible hook names
	// passed as the first argument to the root scope's cache/ref calls.
	memoHookName string
	refHookName  string

	memoHeaderBinding *ast.Binding
	memoParentSlot    int
	memoIndex         int

	refHeaderBinding *ast.Binding
	refParentSlot    int
	refIndex         int

	// loopHeaderOverride, when non-nil, short-circuits the generic
	// branch-from-parent-slot lazy creation: this scope is a loop body
	// whose per-iteration header name was already minted by the loop
	// statement handler so inner references can use it immediately.
	// loopBodyManaged additionally suppresses Finalize's automatic
	// memo-header declaration, since the loop statement handler emits
	// that declaration itself once bodyScope.MemoSlotCount() is known.
	loopHeaderOverride *ast.Binding
	loopBodyManaged    bool

	statements []ast.Stmt

	optimized map[*ast.Binding]*OptimizedExpression
	constants map[*ast.Binding]bool

	fresh *int
}

// NewRootScope starts the scope tree for a single component. resolver
// supplies canonical identifiers for the four runtime helpers.
func NewRootScope(resolver preset.ImportResolver, memoHookName, refHookName string) *Scope {
	n := 0
	return &Scope{
		resolver:     resolver,
		memoHookName: memoHookName,
		refHookName:  refHookName,
		optimized:    map[*ast.Binding]*OptimizedExpression{},
		constants:    map[*ast.Binding]bool{},
		fresh:        &n,
	}
}

// NewChildScope opens a new lexical block under parent: a block,
// conditional arm, loop body, switch case, try/catch/finally, labeled
// statement, or logical-right/conditional arm.
func NewChildScope(parent *Scope, isInLoop bool) *Scope {
	return &Scope{
		parent:    parent,
		isInLoop:  isInLoop,
		resolver:  parent.resolver,
		optimized: map[*ast.Binding]*OptimizedExpression{},
		constants: map[*ast.Binding]bool{},
		fresh:     parent.fresh,
	}
}

// NewLoopBodyScope opens the per-iteration scope inside a loop body,
// pre-seeded with the memo header name the loop statement handler has
// already minted. A ref header, if this body ends up needing one, still
// follows the generic branch-off-the-enclosing-scope path: the
// per-iteration dynamic-size branch only applies to the memo cache, so a
// ref requested in a loop body reuses the ordinary parent-slot
// reservation rather than a second loop-ref protocol.
func NewLoopBodyScope(parent *Scope, memoHeader *ast.Binding) *Scope {
	s := NewChildScope(parent, true)
	s.loopHeaderOverride = memoHeader
	s.loopBodyManaged = true
	return s
}

// MemoSlotCount reports how many memo slots this scope ended up
// allocating, used by the loop statement handler to size the
// per-iteration branch call once the body has been fully walked.
func (s *Scope) MemoSlotCount() int { return s.memoIndex }

// RefSlotCount is the ref-cache analogue of MemoSlotCount.
func (s *Scope) RefSlotCount() int { return s.refIndex }

// freshName returns a new, scope-tree-unique synthetic identifier name
// with the given prefix, using an incrementing counter shared by the
// whole scope tree.
func (s *Scope) freshName(prefix string) string {
	*s.fresh++
	return fmt.Sprintf("%s%d", prefix, *s.fresh)
}

// Emit appends stmt to this scope's body, in the order statements are
// rewritten.
func (s *Scope) Emit(stmt ast.Stmt) {
	s.statements = append(s.statements, stmt)
}

// MemoHeaderID returns the identifier naming this scope's memo cache,
// creating it — and, for a non-loop-body scope, reserving its branch
// slot in the parent — on first use.
func (s *Scope) MemoHeaderID() *ast.Identifier {
	if s.memoHeaderBinding == nil {
		if s.loopHeaderOverride != nil {
			s.memoHeaderBinding = s.loopHeaderOverride
		} else {
			s.memoHeaderBinding = astbuild.LocalBinding(s.freshName("_c"))
			if s.parent != nil {
				s.memoParentSlot = s.parent.AllocMemoSlot()
			}
		}
	}
	return astbuild.Ident(s.memoHeaderBinding.Name, s.memoHeaderBinding)
}

// RefHeaderID is the ref-cache analogue of MemoHeaderID.
func (s *Scope) RefHeaderID() *ast.Identifier {
	if s.refHeaderBinding == nil {
		s.refHeaderBinding = astbuild.LocalBinding(s.freshName("_r"))
		if s.parent != nil {
			s.refParentSlot = s.parent.AllocRefSlot()
		}
	}
	return astbuild.Ident(s.refHeaderBinding.Name, s.refHeaderBinding)
}

// IsInLoop reports whether this scope represents a loop body.
func (s *Scope) IsInLoop() bool { return s.isInLoop }

// AllocMemoSlot returns the next contiguous, 0-based memo slot index.
func (s *Scope) AllocMemoSlot() int {
	i := s.memoIndex
	s.memoIndex++
	return i
}

// AllocRefSlot is the ref-cache analogue of AllocMemoSlot.
func (s *Scope) AllocRefSlot() int {
	i := s.refIndex
	s.refIndex++
	return i
}

// GetOptimized looks up a previously memoized binding, for createMemo's
// short-circuit when a binding is referenced again without having been
// reassigned.
func (s *Scope) GetOptimized(b *ast.Binding) (*OptimizedExpression, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if oe, ok := scope.optimized[b]; ok {
			return oe, true
		}
	}
	return nil, false
}

// SetOptimized records b's memoized result in this scope's table.
func (s *Scope) SetOptimized(b *ast.Binding, oe *OptimizedExpression) {
	if b == nil {
		return
	}
	s.optimized[b] = oe
}

// Invalidate removes b from every scope's optimized table from s
// upward: a dirtying write traverses the scope chain and removes the
// binding from every table it appears in.
func (s *Scope) Invalidate(b *ast.Binding) {
	for scope := s; scope != nil; scope = scope.parent {
		delete(scope.optimized, b)
	}
}

// IsConstant reports whether b has been registered as holding an
// invariant value, searching outward through enclosing scopes.
func (s *Scope) IsConstant(b *ast.Binding) bool {
	for scope := s; scope != nil; scope = scope.parent {
		if scope.constants[b] {
			return true
		}
	}
	return false
}

// MarkConstant registers b as invariant in this scope.
func (s *Scope) MarkConstant(b *ast.Binding) {
	if b != nil {
		s.constants[b] = true
	}
}

// Finalize produces this scope's final statement list: header
// declarations are prepended to the scope's accumulated statements.
// Whether a header is a bare memo/ref header (cache/ref runtime calls)
// or a branch off the parent is decided by whether the scope has a
// parent; isRoot is passed along but does not change the output. It is
// called exactly once per scope.
func (s *Scope) Finalize(isRoot bool) []ast.Stmt {
	var header []ast.Stmt

	if s.memoHeaderBinding != nil && !s.loopBodyManaged {
		header = append(header, s.headerDecl(isRoot, false))
	}
	if s.refHeaderBinding != nil {
		header = append(header, s.headerDecl(isRoot, true))
	}

	return append(header, s.statements...)
}

func (s *Scope) headerDecl(isRoot, isRef bool) ast.Stmt {
	var binding *ast.Binding
	var size int
	var parentSlot int
	logical := RuntimeCache
	hookName := s.memoHookName
	if isRef {
		binding = s.refHeaderBinding
		size = s.refIndex
		parentSlot = s.refParentSlot
		logical = RuntimeRef
		hookName = s.refHookName
	} else {
		binding = s.memoHeaderBinding
		size = s.memoIndex
		parentSlot = s.memoParentSlot
	}

	var init ast.Expr
	switch {
	case s.parent == nil:
		init = astbuild.Call(
			s.resolver.Resolve(logical),
			s.resolver.Resolve(hookName),
			astbuild.Num(fmt.Sprintf("%d", size), float64(size)),
		)
	default:
		var parentHeader *ast.Identifier
		if isRef {
			parentHeader = s.parent.RefHeaderID()
		} else {
			parentHeader = s.parent.MemoHeaderID()
		}
		init = astbuild.Call(
			s.resolver.Resolve(RuntimeBranch),
			parentHeader,
			astbuild.Num(fmt.Sprintf("%d", parentSlot), float64(parentSlot)),
			astbuild.Num(fmt.Sprintf("%d", size), float64(size)),
		)
	}

	return astbuild.Let(ast.Let, binding, init)
}
