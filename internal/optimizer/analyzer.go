package optimizer

import (
	"github.com/juncdeinda/forgetti/internal/ast"
	"github.com/juncdeinda/forgetti/internal/preset"
)

// ExprAnalyzer implements the two classification operations the rest of
// the pass is built on: isConstant and classifyHookCall.
type ExprAnalyzer struct {
	preset *preset.Preset
	cache  map[ast.Expr]bool
}

// NewExprAnalyzer builds an analyzer against the given preset.
func NewExprAnalyzer(p *preset.Preset) *ExprAnalyzer {
	return &ExprAnalyzer{preset: p, cache: map[ast.Expr]bool{}}
}

// IsConstant reports whether expr is provably invariant across
// invocations: every referenced identifier resolves to a foreign
// binding, a global, or an already-registered scope constant,
// and expr contains no hook call, no assignment, and no call or
// member-read whose receiver is not itself constant. Positive results
// are memoized per node identity; a negative result is recomputed on the
// next call, since a binding registered as a scope constant later can
// turn it positive.
func (a *ExprAnalyzer) IsConstant(expr ast.Expr, scope *Scope) bool {
	if expr == nil {
		return true
	}
	if v, ok := a.cache[expr]; ok {
		return v
	}
	// Guard against cycles from recursive re-entry on the same node
	// during a single evaluation; expressions are acyclic in practice
	// but a conservative default avoids infinite recursion if that
	// assumption is ever violated upstream.
	a.cache[expr] = false
	result := a.computeConstant(expr, scope)
	if result {
		a.cache[expr] = true
	} else {
		delete(a.cache, expr)
	}
	return result
}

func (a *ExprAnalyzer) computeConstant(expr ast.Expr, scope *Scope) bool {
	switch e := expr.(type) {
	case *ast.Literal:
		return true
	case *ast.TemplateLiteral:
		for _, part := range e.Expressions {
			if !a.IsConstant(part, scope) {
				return false
			}
		}
		return true
	case *ast.Identifier:
		b := e.Binding
		if b == nil {
			return true
		}
		return b.IsConstantByNature() || scope.IsConstant(b)
	case *ast.ParenExpr:
		return a.IsConstant(e.Expression, scope)
	case *ast.TypeAssertionExpr:
		return a.IsConstant(e.Expression, scope)
	case *ast.MemberExpr:
		if !a.IsConstant(e.Object, scope) {
			return false
		}
		if e.Computed {
			return a.IsConstant(e.Property, scope)
		}
		return true
	case *ast.ConditionalExpr:
		return a.IsConstant(e.Test, scope) && a.IsConstant(e.Consequent, scope) && a.IsConstant(e.Alternate, scope)
	case *ast.BinaryExpr:
		return a.IsConstant(e.Left, scope) && a.IsConstant(e.Right, scope)
	case *ast.LogicalExpr:
		return a.IsConstant(e.Left, scope) && a.IsConstant(e.Right, scope)
	case *ast.UnaryExpr:
		return a.IsConstant(e.Argument, scope)
	case *ast.CallExpr:
		if a.ClassifyHookCall(e) != preset.None {
			return false
		}
		if !a.IsConstant(e.Callee, scope) {
			return false
		}
		for _, arg := range e.Arguments {
			if !a.IsConstant(arg, scope) {
				return false
			}
		}
		return true
	case *ast.NewExpr:
		if !a.IsConstant(e.Callee, scope) {
			return false
		}
		for _, arg := range e.Arguments {
			if !a.IsConstant(arg, scope) {
				return false
			}
		}
		return true
	case *ast.ArrayExpr:
		for _, el := range e.Elements {
			if el != nil && !a.IsConstant(el, scope) {
				return false
			}
		}
		return true
	case *ast.SpreadElement:
		return a.IsConstant(e.Argument, scope)
	case *ast.ObjectExpr:
		for _, m := range e.Properties {
			switch p := m.(type) {
			case *ast.Property:
				if p.Computed && !a.IsConstant(p.Key, scope) {
					return false
				}
				if !a.IsConstant(p.Value, scope) {
					return false
				}
			case *ast.SpreadElement:
				if !a.IsConstant(p.Argument, scope) {
					return false
				}
			}
		}
		return true
	case *ast.SequenceExpr:
		for _, s := range e.Expressions {
			if !a.IsConstant(s, scope) {
				return false
			}
		}
		return true
	case *ast.AssignmentExpr:
		return false
	case *ast.FunctionExpr, *ast.ArrowFunctionExpr:
		// A function literal closes over whatever free variables it
		// references; it is only constant if none of them are
		// non-constant, which the Optimizer's closure-dependency walk
		// (ast.FreeVariables) already establishes more precisely than
		// a blanket answer here. Treated conservatively as
		// non-constant so the Optimizer always runs its free-variable
		// analysis instead of skipping it.
		return false
	case *ast.JSXElement, *ast.JSXFragment, *ast.JSXExpressionContainer:
		return false
	default:
		return true
	}
}

// ClassifyHookCall inspects call's callee against the active preset and
// returns its HookKind. Only bare-identifier and simple member
// callees (`ns.useThing`) are recognized; anything else is None.
func (a *ExprAnalyzer) ClassifyHookCall(call *ast.CallExpr) preset.HookKind {
	name, ok := calleeName(call.Callee)
	if !ok {
		return preset.None
	}
	return a.preset.Classify(name)
}

func calleeName(expr ast.Expr) (string, bool) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e.Name, true
	case *ast.MemberExpr:
		if e.Computed {
			return "", false
		}
		if prop, ok := e.Property.(*ast.Identifier); ok {
			return prop.Name, true
		}
	}
	return "", false
}
