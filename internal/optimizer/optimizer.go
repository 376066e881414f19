// Package optimizer implements the auto-memoization pass: given a
// single component, it rewrites its body so that every non-trivial
// sub-expression is stored in and retrieved from a per-invocation
// cache, reusing previously computed values whenever their inputs have
// not changed by referential equality.
package optimizer

import (
	"fmt"
	"sort"

	"github.com/juncdeinda/forgetti/internal/ast"
	"github.com/juncdeinda/forgetti/internal/astbuild"
	"github.com/juncdeinda/forgetti/internal/errors"
	"github.com/juncdeinda/forgetti/internal/preset"
)

// Optimizer is the recursive descent transformer. One Optimizer is
// reusable across many components; all per-component state lives in
// the Scope tree built fresh for each call to Optimize, except the
// accumulated warnings, which Optimize resets at the start of each run.
type Optimizer struct {
	analyzer *ExprAnalyzer
	preset   *preset.Preset
	resolver preset.ImportResolver
	warnings []errors.CompilerError
}

// New builds an Optimizer against the given preset and import resolver.
func New(p *preset.Preset, resolver preset.ImportResolver) *Optimizer {
	return &Optimizer{analyzer: NewExprAnalyzer(p), preset: p, resolver: resolver}
}

// Warnings returns the non-fatal diagnostics accumulated by the most
// recent call to Optimize (an unmemoizable component, a dependency
// array that doesn't match the callback's free variables).
func (o *Optimizer) Warnings() []errors.CompilerError { return o.warnings }

// OptimizeError wraps the CompilerError that aborted a pass so a caller
// can render it with errors.ErrorReporter instead of a plain string.
type OptimizeError struct{ CompilerError errors.CompilerError }

func (e *OptimizeError) Error() string { return e.CompilerError.Message }

// abortSignal carries a fatal diagnostic out of a deeply recursive walk
// without threading an error return through every call site: the pass
// does not hand back a partial rewrite, it either returns a component
// with the full rewritten body or returns the original component.
type abortSignal struct{ err errors.CompilerError }

func (o *Optimizer) fail(ce errors.CompilerError) {
	panic(abortSignal{ce})
}

// Optimize rewrites a single component. On a fatal error it returns the
// original component alongside the error. The simplifier pre-pass runs
// first and folds constant conditions in the original body in place, so
// by then those folds are already applied to the returned component.
func (o *Optimizer) Optimize(component *ast.Component) (out *ast.Component, err error) {
	o.warnings = nil

	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(abortSignal); ok {
				out = component
				err = &OptimizeError{CompilerError: sig.err}
				return
			}
			panic(r)
		}
	}()

	if component.Body == nil {
		o.fail(errors.UnsupportedComponentShape("component has no block body", component.Pos()))
	}

	simp := NewSimplifier()
	for i, stmt := range component.Body.Body {
		component.Body.Body[i] = simp.SimplifyStmt(stmt)
	}

	root := NewRootScope(o.resolver, o.preset.MemoHookName, o.preset.RefHookName)
	for _, stmt := range component.Body.Body {
		if stmt != nil {
			o.optimizeStmt(stmt, root)
		}
	}

	if root.MemoSlotCount() == 0 && root.RefSlotCount() == 0 {
		o.warnings = append(o.warnings, errors.NoOptimizableExpressions(component.Name, component.Pos()))
	}

	body := astbuild.Block(root.Finalize(true)...)
	return astbuild.Component(component.Name, component.Params, body), nil
}

// checkDependencyArray compares an explicit dependency array literal
// written in the source against the free variables the optimizer itself
// computes for fn, warning (non-fatally) on any mismatch. The warning does
// not change the rewrite: the hook's cached value is still keyed on the
// array's elements as written.
func (o *Optimizer) checkDependencyArray(fn, depsExpr ast.Expr, pos ast.Position) {
	arr, ok := depsExpr.(*ast.ArrayExpr)
	if !ok {
		return
	}
	declared := map[string]bool{}
	for _, el := range arr.Elements {
		if id, ok := el.(*ast.Identifier); ok {
			declared[id.Name] = true
		}
	}
	free := map[string]bool{}
	for _, b := range ast.FreeVariables(fn) {
		free[b.Name] = true
	}

	var missing, extra []string
	for name := range free {
		if !declared[name] {
			missing = append(missing, name)
		}
	}
	for name := range declared {
		if !free[name] {
			extra = append(extra, name)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return
	}
	sort.Strings(missing)
	sort.Strings(extra)
	o.warnings = append(o.warnings, errors.DependencyArrayMismatch(missing, extra, pos))
}

func skipMarked(n ast.Node) bool {
	m := n.Metadata()
	return m != nil && m.Skip
}

// --- statement walk --------------------------------------------------

func (o *Optimizer) optimizeStmt(stmt ast.Stmt, scope *Scope) {
	if skipMarked(stmt) {
		scope.Emit(stmt)
		return
	}

	switch st := stmt.(type) {
	case *ast.ExpressionStmt:
		oe := o.optimizeExpr(st.Expression, scope)
		scope.Emit(astbuild.ExprStmt(oe.Expr))

	case *ast.VariableDeclaration:
		for _, d := range st.Declarations {
			var init ast.Expr
			if d.Init != nil {
				init = o.optimizeExpr(d.Init, scope).Expr
			}
			scope.Emit(&ast.VariableDeclaration{
				VarKind:      st.VarKind,
				Declarations: []*ast.VariableDeclarator{{ID: d.ID, Init: init}},
			})
		}

	case *ast.ReturnStmt:
		var arg ast.Expr
		if st.Argument != nil {
			arg = o.optimizeExpr(st.Argument, scope).Expr
		}
		scope.Emit(astbuild.Return(arg))

	case *ast.ThrowStmt:
		scope.Emit(&ast.ThrowStmt{Argument: o.optimizeExpr(st.Argument, scope).Expr})

	case *ast.BlockStmt:
		child := NewChildScope(scope, false)
		for _, inner := range st.Body {
			o.optimizeStmt(inner, child)
		}
		scope.Emit(astbuild.Block(child.Finalize(false)...))

	case *ast.IfStmt:
		test := o.optimizeExpr(st.Test, scope).Expr
		consChild := NewChildScope(scope, false)
		o.optimizeStmt(st.Consequent, consChild)
		var alt ast.Stmt
		if st.Alternate != nil {
			altChild := NewChildScope(scope, false)
			o.optimizeStmt(st.Alternate, altChild)
			alt = astbuild.Block(altChild.Finalize(false)...)
		}
		scope.Emit(astbuild.If(test, astbuild.Block(consChild.Finalize(false)...), alt))

	case *ast.ForStmt:
		var init ast.Node
		if st.Init != nil {
			init = o.optimizeForInit(st.Init, scope)
		}
		var test, update ast.Expr
		if st.Test != nil {
			test = o.optimizeExpr(st.Test, scope).Expr
		}
		if st.Update != nil {
			update = o.optimizeExpr(st.Update, scope).Expr
		}
		body := o.optimizeLoopBody(st.Body, scope)
		scope.Emit(&ast.ForStmt{Init: init, Test: test, Update: update, Body: body})

	case *ast.WhileStmt:
		test := o.optimizeExpr(st.Test, scope).Expr
		body := o.optimizeLoopBody(st.Body, scope)
		scope.Emit(&ast.WhileStmt{Test: test, Body: body})

	case *ast.DoWhileStmt:
		body := o.optimizeLoopBody(st.Body, scope)
		test := o.optimizeExpr(st.Test, scope).Expr
		scope.Emit(&ast.DoWhileStmt{Body: body, Test: test})

	case *ast.ForInStmt:
		right := o.optimizeExpr(st.Right, scope).Expr
		body := o.optimizeLoopBody(st.Body, scope)
		scope.Emit(&ast.ForInStmt{Left: st.Left, Right: right, Body: body})

	case *ast.ForOfStmt:
		right := o.optimizeExpr(st.Right, scope).Expr
		body := o.optimizeLoopBody(st.Body, scope)
		scope.Emit(&ast.ForOfStmt{Left: st.Left, Right: right, Body: body, Await: st.Await})

	case *ast.SwitchStmt:
		disc := o.optimizeExpr(st.Discriminant, scope).Expr
		var cases []*ast.SwitchCase
		for _, c := range st.Cases {
			var test ast.Expr
			if c.Test != nil {
				test = o.optimizeExpr(c.Test, scope).Expr
			}
			child := NewChildScope(scope, false)
			for _, inner := range c.Consequent {
				o.optimizeStmt(inner, child)
			}
			cases = append(cases, &ast.SwitchCase{Test: test, Consequent: child.Finalize(false)})
		}
		scope.Emit(&ast.SwitchStmt{Discriminant: disc, Cases: cases})

	case *ast.TryStmt:
		blockChild := NewChildScope(scope, false)
		for _, inner := range st.Block.Body {
			o.optimizeStmt(inner, blockChild)
		}
		var handler *ast.CatchClause
		if st.Handler != nil {
			handlerChild := NewChildScope(scope, false)
			for _, inner := range st.Handler.Body.Body {
				o.optimizeStmt(inner, handlerChild)
			}
			handler = &ast.CatchClause{Param: st.Handler.Param, Body: astbuild.Block(handlerChild.Finalize(false)...)}
		}
		var fin *ast.BlockStmt
		if st.Finalizer != nil {
			finChild := NewChildScope(scope, false)
			for _, inner := range st.Finalizer.Body {
				o.optimizeStmt(inner, finChild)
			}
			fin = astbuild.Block(finChild.Finalize(false)...)
		}
		scope.Emit(&ast.TryStmt{Block: astbuild.Block(blockChild.Finalize(false)...), Handler: handler, Finalizer: fin})

	case *ast.LabeledStmt:
		child := NewChildScope(scope, false)
		o.optimizeStmt(st.Body, child)
		scope.Emit(&ast.LabeledStmt{Label: st.Label, Body: astbuild.Block(child.Finalize(false)...)})

	case *ast.BreakStmt, *ast.ContinueStmt, *ast.EmptyStmt:
		scope.Emit(stmt)

	default:
		scope.Emit(stmt)
	}
}

func (o *Optimizer) optimizeForInit(init ast.Node, scope *Scope) ast.Node {
	switch v := init.(type) {
	case *ast.VariableDeclaration:
		var decls []*ast.VariableDeclarator
		for _, d := range v.Declarations {
			var initExpr ast.Expr
			if d.Init != nil {
				initExpr = o.optimizeExpr(d.Init, scope).Expr
			}
			decls = append(decls, &ast.VariableDeclarator{ID: d.ID, Init: initExpr})
		}
		return &ast.VariableDeclaration{VarKind: v.VarKind, Declarations: decls}
	case ast.Expr:
		return o.optimizeExpr(v, scope).Expr
	default:
		return init
	}
}

// optimizeLoopBody implements loop memoization: it allocates a
// dynamic-size loop branch header in the enclosing scope, then a
// per-iteration branch header as the first two statements of the
// rewritten body.
func (o *Optimizer) optimizeLoopBody(body ast.Stmt, scope *Scope) ast.Stmt {
	outerHeader := scope.MemoHeaderID()
	outerSlot := scope.AllocMemoSlot()

	loopHeaderBinding := astbuild.LocalBinding(scope.freshName("_lh"))
	loopIdxBinding := astbuild.LocalBinding(scope.freshName("_li"))
	scope.Emit(&ast.VariableDeclaration{
		VarKind: ast.Let,
		Declarations: []*ast.VariableDeclarator{
			{
				ID: astbuild.Ident(loopHeaderBinding.Name, loopHeaderBinding),
				Init: astbuild.Call(
					o.resolver.Resolve(RuntimeBranch),
					outerHeader,
					astbuild.Num(fmt.Sprintf("%d", outerSlot), float64(outerSlot)),
					astbuild.Num("0", 0),
				),
			},
			{ID: astbuild.Ident(loopIdxBinding.Name, loopIdxBinding), Init: astbuild.Num("0", 0)},
		},
	})

	perIterHeaderBinding := astbuild.LocalBinding(scope.freshName("_c"))
	bodyScope := NewLoopBodyScope(scope, perIterHeaderBinding)
	o.optimizeStmt(body, bodyScope)
	finalizedBody := bodyScope.Finalize(false)

	localIdxBinding := astbuild.LocalBinding(scope.freshName("_ii"))
	leading := []ast.Stmt{
		astbuild.Let(ast.Let, localIdxBinding, astbuild.PreIncrement(astbuild.Ident(loopIdxBinding.Name, loopIdxBinding))),
		astbuild.Let(ast.Let, perIterHeaderBinding, astbuild.Call(
			o.resolver.Resolve(RuntimeBranch),
			astbuild.Ident(loopHeaderBinding.Name, loopHeaderBinding),
			astbuild.Ident(localIdxBinding.Name, localIdxBinding),
			astbuild.Num(fmt.Sprintf("%d", bodyScope.MemoSlotCount()), float64(bodyScope.MemoSlotCount())),
		)),
	}

	return astbuild.Block(append(leading, finalizedBody...)...)
}

// --- expression walk ---------------------------------------------------

func (o *Optimizer) optimizeExpr(expr ast.Expr, scope *Scope) *OptimizedExpression {
	if expr == nil {
		return &OptimizedExpression{Expr: nil, Constant: true}
	}
	if skipMarked(expr) {
		return &OptimizedExpression{Expr: expr, Constant: true}
	}

	switch e := expr.(type) {
	case *ast.Literal:
		return &OptimizedExpression{Expr: e, Constant: true}

	case *ast.ParenExpr:
		inner := o.optimizeExpr(e.Expression, scope)
		return &OptimizedExpression{Expr: &ast.ParenExpr{Expression: inner.Expr}, Deps: inner.Deps, Constant: inner.Constant}

	case *ast.TypeAssertionExpr:
		return o.optimizeExpr(e.Expression, scope)

	case *ast.Identifier:
		return o.optimizeIdentifier(e, scope)

	case *ast.MemberExpr:
		return o.optimizeMember(e, scope)

	case *ast.ConditionalExpr:
		return o.optimizeConditional(e, scope)

	case *ast.BinaryExpr:
		if e.Operator == "|>" {
			return &OptimizedExpression{Expr: e, Constant: false}
		}
		left := o.optimizeExpr(e.Left, scope)
		right := o.optimizeExpr(e.Right, scope)
		rebuilt := &ast.BinaryExpr{Operator: e.Operator, Left: left.Expr, Right: right.Expr}
		return o.createMemo(rebuilt, combineDeps(left, right), false, false, scope)

	case *ast.LogicalExpr:
		return o.optimizeLogical(e, scope)

	case *ast.UnaryExpr:
		arg := o.optimizeExpr(e.Argument, scope)
		rebuilt := &ast.UnaryExpr{Operator: e.Operator, Argument: arg.Expr, Prefix: e.Prefix}
		if arg.Constant {
			return &OptimizedExpression{Expr: rebuilt, Constant: true}
		}
		return o.createMemo(rebuilt, asDeps(arg), false, false, scope)

	case *ast.CallExpr:
		return o.optimizeCall(e, scope)

	case *ast.NewExpr:
		callee := o.optimizeExpr(e.Callee, scope)
		args, deps, constant := o.optimizeArgList(e.Arguments, scope)
		rebuilt := &ast.NewExpr{Callee: callee.Expr, Arguments: args}
		allDeps := append(asDeps(callee), deps...)
		if constant && callee.Constant {
			return &OptimizedExpression{Expr: rebuilt, Constant: true}
		}
		return o.createMemo(rebuilt, allDeps, false, false, scope)

	case *ast.FunctionExpr:
		return o.optimizeFunctionLiteral(e, scope)

	case *ast.ArrowFunctionExpr:
		return o.optimizeFunctionLiteral(e, scope)

	case *ast.AssignmentExpr:
		left := o.optimizeLVal(e.Left, true, scope)
		right := o.optimizeExpr(e.Right, scope)
		rebuilt := &ast.AssignmentExpr{Operator: e.Operator, Left: left, Right: right.Expr}
		return &OptimizedExpression{Expr: rebuilt, Deps: asDeps(right), Constant: false}

	case *ast.ArrayExpr:
		return o.optimizeArray(e, scope)

	case *ast.SpreadElement:
		arg := o.optimizeExpr(e.Argument, scope)
		return &OptimizedExpression{Expr: &ast.SpreadElement{Argument: arg.Expr}, Deps: asDeps(arg), Constant: arg.Constant}

	case *ast.ObjectExpr:
		return o.optimizeObject(e, scope)

	case *ast.SequenceExpr:
		var exprs []ast.Expr
		for _, sub := range e.Expressions {
			exprs = append(exprs, o.optimizeExpr(sub, scope).Expr)
		}
		return &OptimizedExpression{Expr: &ast.SequenceExpr{Expressions: exprs}, Constant: false}

	case *ast.TaggedTemplateExpr:
		tag := o.optimizeExpr(e.Tag, scope)
		quasi, quasiDeps, quasiConstant := o.optimizeTemplateParts(e.Quasi, scope)
		rebuilt := &ast.TaggedTemplateExpr{Tag: tag.Expr, Quasi: quasi}
		allDeps := append(asDeps(tag), quasiDeps...)
		if tag.Constant && quasiConstant {
			return &OptimizedExpression{Expr: rebuilt, Constant: true}
		}
		return o.createMemo(rebuilt, allDeps, false, false, scope)

	case *ast.TemplateLiteral:
		rebuilt, deps, constant := o.optimizeTemplateParts(e, scope)
		if constant {
			return &OptimizedExpression{Expr: rebuilt, Constant: true}
		}
		return o.createMemo(rebuilt, deps, false, false, scope)

	case *ast.JSXElement:
		return o.optimizeJSXElement(e, scope)

	case *ast.JSXFragment:
		return o.optimizeJSXFragment(e, scope)

	case *ast.JSXExpressionContainer:
		inner := o.optimizeExpr(e.Expression, scope)
		return &OptimizedExpression{Expr: &ast.JSXExpressionContainer{Expression: inner.Expr}, Deps: inner.Deps, Constant: inner.Constant}

	default:
		return &OptimizedExpression{Expr: expr, Constant: true}
	}
}

func (o *Optimizer) optimizeIdentifier(id *ast.Identifier, scope *Scope) *OptimizedExpression {
	if o.analyzer.IsConstant(id, scope) {
		return &OptimizedExpression{Expr: id, Constant: true}
	}
	if oe, ok := scope.GetOptimized(id.Binding); ok {
		return oe
	}
	return o.createMemo(id, nil, false, false, scope)
}

func (o *Optimizer) optimizeMember(m *ast.MemberExpr, scope *Scope) *OptimizedExpression {
	obj := o.optimizeExpr(m.Object, scope)
	var key *OptimizedExpression
	if m.Computed {
		key = o.optimizeExpr(m.Property, scope)
	}
	var deps []ast.Expr
	deps = append(deps, asDeps(obj)...)
	property := m.Property
	constant := obj.Constant
	if key != nil {
		deps = append(deps, asDeps(key)...)
		property = key.Expr
		constant = constant && key.Constant
	}
	rebuilt := &ast.MemberExpr{Object: obj.Expr, Property: property, Computed: m.Computed, Optional: m.Optional}
	if constant {
		return &OptimizedExpression{Expr: rebuilt, Constant: true}
	}
	return o.createMemo(rebuilt, deps, false, false, scope)
}

func (o *Optimizer) optimizeConditional(c *ast.ConditionalExpr, scope *Scope) *OptimizedExpression {
	test := o.optimizeExpr(c.Test, scope)

	consChild := NewChildScope(scope, false)
	consResult := o.optimizeExpr(c.Consequent, consChild)

	altChild := NewChildScope(scope, false)
	altResult := o.optimizeExpr(c.Alternate, altChild)

	resultBinding := astbuild.LocalBinding(scope.freshName("_r"))
	scope.Emit(astbuild.Let(ast.Let, resultBinding, nil))

	consChild.Emit(astbuild.ExprStmt(astbuild.Assign("=", astbuild.Ident(resultBinding.Name, resultBinding), consResult.Expr)))
	altChild.Emit(astbuild.ExprStmt(astbuild.Assign("=", astbuild.Ident(resultBinding.Name, resultBinding), altResult.Expr)))

	scope.Emit(astbuild.If(
		test.Expr,
		astbuild.Block(consChild.Finalize(false)...),
		astbuild.Block(altChild.Finalize(false)...),
	))

	return &OptimizedExpression{Expr: astbuild.Ident(resultBinding.Name, resultBinding), Constant: false}
}

func (o *Optimizer) optimizeLogical(l *ast.LogicalExpr, scope *Scope) *OptimizedExpression {
	left := o.optimizeExpr(l.Left, scope)

	cBinding := astbuild.LocalBinding(scope.freshName("_c"))
	scope.Emit(astbuild.Let(ast.Let, cBinding, left.Expr))
	cIdent := astbuild.Ident(cBinding.Name, cBinding)

	rightChild := NewChildScope(scope, false)
	right := o.optimizeExpr(l.Right, rightChild)
	rightChild.Emit(astbuild.ExprStmt(astbuild.Assign("=", astbuild.Ident(cBinding.Name, cBinding), right.Expr)))

	var test ast.Expr
	switch l.Operator {
	case "||":
		test = astbuild.Not(cIdent)
	case "??":
		test = astbuild.Binary("==", cIdent, astbuild.Null())
	default: // "&&"
		test = cIdent
	}

	scope.Emit(astbuild.If(test, astbuild.Block(rightChild.Finalize(false)...), nil))

	return &OptimizedExpression{Expr: astbuild.Ident(cBinding.Name, cBinding), Constant: false}
}

func (o *Optimizer) optimizeArray(a *ast.ArrayExpr, scope *Scope) *OptimizedExpression {
	var elements []ast.Expr
	var deps []ast.Expr
	constant := true
	for _, el := range a.Elements {
		if el == nil {
			elements = append(elements, nil)
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			arg := o.optimizeExpr(spread.Argument, scope)
			elements = append(elements, &ast.SpreadElement{Argument: arg.Expr})
			deps = append(deps, asDeps(arg)...)
			constant = constant && arg.Constant
			continue
		}
		oe := o.optimizeExpr(el, scope)
		elements = append(elements, oe.Expr)
		deps = append(deps, asDeps(oe)...)
		constant = constant && oe.Constant
	}
	rebuilt := &ast.ArrayExpr{Elements: elements}
	if constant {
		return &OptimizedExpression{Expr: rebuilt, Constant: true}
	}
	return o.createMemo(rebuilt, deps, false, false, scope)
}

func (o *Optimizer) optimizeObject(obj *ast.ObjectExpr, scope *Scope) *OptimizedExpression {
	var props []ast.ObjectMember
	var deps []ast.Expr
	constant := true
	for _, m := range obj.Properties {
		switch p := m.(type) {
		case *ast.Property:
			key := p.Key
			if p.Computed {
				k := o.optimizeExpr(p.Key, scope)
				key = k.Expr
				deps = append(deps, asDeps(k)...)
				constant = constant && k.Constant
			}
			var value ast.Expr
			if fn, ok := p.Value.(*ast.FunctionExpr); ok && p.Method {
				free := ast.FreeVariables(fn)
				for _, b := range free {
					deps = append(deps, o.optimizeIdentifier(&ast.Identifier{Name: b.Name, Binding: b}, scope).Expr)
				}
				value = fn
				constant = false
			} else {
				v := o.optimizeExpr(p.Value, scope)
				value = v.Expr
				deps = append(deps, asDeps(v)...)
				constant = constant && v.Constant
			}
			props = append(props, &ast.Property{Key: key, Value: value, Computed: p.Computed, Shorthand: p.Shorthand, Method: p.Method})
		case *ast.SpreadElement:
			arg := o.optimizeExpr(p.Argument, scope)
			props = append(props, &ast.SpreadElement{Argument: arg.Expr})
			deps = append(deps, asDeps(arg)...)
			constant = constant && arg.Constant
		}
	}
	rebuilt := &ast.ObjectExpr{Properties: props}
	if constant {
		return &OptimizedExpression{Expr: rebuilt, Constant: true}
	}
	return o.createMemo(rebuilt, deps, false, false, scope)
}

func (o *Optimizer) optimizeTemplateParts(t *ast.TemplateLiteral, scope *Scope) (*ast.TemplateLiteral, []ast.Expr, bool) {
	var exprs []ast.Expr
	var deps []ast.Expr
	constant := true
	for _, part := range t.Expressions {
		oe := o.optimizeExpr(part, scope)
		exprs = append(exprs, oe.Expr)
		deps = append(deps, asDeps(oe)...)
		constant = constant && oe.Constant
	}
	return &ast.TemplateLiteral{Quasis: t.Quasis, Expressions: exprs}, deps, constant
}

func (o *Optimizer) optimizeFunctionLiteral(fn ast.Expr, scope *Scope) *OptimizedExpression {
	free := ast.FreeVariables(fn)
	var deps []ast.Expr
	for _, b := range free {
		deps = append(deps, o.optimizeIdentifier(&ast.Identifier{Name: b.Name, Binding: b}, scope).Expr)
	}
	return o.createMemo(fn, deps, false, false, scope)
}

func (o *Optimizer) optimizeArgList(args []ast.Expr, scope *Scope) ([]ast.Expr, []ast.Expr, bool) {
	var rewritten []ast.Expr
	var deps []ast.Expr
	constant := true
	for _, a := range args {
		if spread, ok := a.(*ast.SpreadElement); ok {
			arg := o.optimizeExpr(spread.Argument, scope)
			rewritten = append(rewritten, &ast.SpreadElement{Argument: arg.Expr})
			deps = append(deps, asDeps(arg)...)
			constant = constant && arg.Constant
			continue
		}
		oe := o.optimizeExpr(a, scope)
		rewritten = append(rewritten, oe.Expr)
		deps = append(deps, asDeps(oe)...)
		constant = constant && oe.Constant
	}
	return rewritten, deps, constant
}

// --- JSX ------------------------------------------------------------------

// optimizeJSXElement memoizes a JSX element only when the active preset
// enables JSX memoization; otherwise its attributes and children are
// still walked (for their own nested hook calls and member reads) but
// the element itself is passed through without a cache slot.
func (o *Optimizer) optimizeJSXElement(el *ast.JSXElement, scope *Scope) *OptimizedExpression {
	var attrs []*ast.JSXAttribute
	var deps []ast.Expr
	constant := true
	for _, a := range el.Attributes {
		if a.Spread {
			arg := o.optimizeExpr(a.Argument, scope)
			attrs = append(attrs, &ast.JSXAttribute{Name: a.Name, Spread: true, Argument: arg.Expr})
			deps = append(deps, asDeps(arg)...)
			constant = constant && arg.Constant
			continue
		}
		if a.Value == nil {
			attrs = append(attrs, a)
			continue
		}
		v := o.optimizeExpr(a.Value, scope)
		attrs = append(attrs, &ast.JSXAttribute{Name: a.Name, Value: v.Expr})
		deps = append(deps, asDeps(v)...)
		constant = constant && v.Constant
	}

	var children []ast.JSXChild
	for _, c := range el.Children {
		child, childDeps, childConstant := o.optimizeJSXChild(c, scope)
		children = append(children, child)
		deps = append(deps, childDeps...)
		constant = constant && childConstant
	}

	rebuilt := &ast.JSXElement{Name: el.Name, Attributes: attrs, Children: children, SelfClosing: el.SelfClosing}

	if !o.preset.JSXMemo {
		return &OptimizedExpression{Expr: rebuilt, Constant: false}
	}
	if constant {
		return &OptimizedExpression{Expr: rebuilt, Constant: true}
	}
	return o.createMemo(rebuilt, deps, false, false, scope)
}

func (o *Optimizer) optimizeJSXFragment(fr *ast.JSXFragment, scope *Scope) *OptimizedExpression {
	var children []ast.JSXChild
	var deps []ast.Expr
	constant := true
	for _, c := range fr.Children {
		child, childDeps, childConstant := o.optimizeJSXChild(c, scope)
		children = append(children, child)
		deps = append(deps, childDeps...)
		constant = constant && childConstant
	}
	rebuilt := &ast.JSXFragment{Children: children}

	if !o.preset.JSXMemo {
		return &OptimizedExpression{Expr: rebuilt, Constant: false}
	}
	if constant {
		return &OptimizedExpression{Expr: rebuilt, Constant: true}
	}
	return o.createMemo(rebuilt, deps, false, false, scope)
}

// optimizeJSXChild rewrites one JSX child. An expression-container child
// is always recursed into and its optimized form re-wrapped in a
// container. A JSX element or fragment child is also walked; when the
// preset enables JSX memoization it is replaced by an expression
// container holding its memoized form, otherwise it stays an element or
// fragment and contributes no dependencies.
func (o *Optimizer) optimizeJSXChild(child ast.JSXChild, scope *Scope) (ast.JSXChild, []ast.Expr, bool) {
	switch c := child.(type) {
	case *ast.JSXText:
		return c, nil, true
	case *ast.JSXExpressionContainer:
		inner := o.optimizeExpr(c.Expression, scope)
		return &ast.JSXExpressionContainer{Expression: inner.Expr}, asDeps(inner), inner.Constant
	case *ast.JSXElement:
		oe := o.optimizeJSXElement(c, scope)
		if elem, ok := oe.Expr.(*ast.JSXElement); ok && !o.preset.JSXMemo {
			return elem, nil, true
		}
		return &ast.JSXExpressionContainer{Expression: oe.Expr}, asDeps(oe), oe.Constant
	case *ast.JSXFragment:
		oe := o.optimizeJSXFragment(c, scope)
		if frag, ok := oe.Expr.(*ast.JSXFragment); ok && !o.preset.JSXMemo {
			return frag, nil, true
		}
		return &ast.JSXExpressionContainer{Expression: oe.Expr}, asDeps(oe), oe.Constant
	default:
		return child, nil, true
	}
}

// --- hook-call specialization ---------------------------------------------

func (o *Optimizer) optimizeCall(call *ast.CallExpr, scope *Scope) *OptimizedExpression {
	kind := o.analyzer.ClassifyHookCall(call)

	switch kind {
	case preset.Memo:
		return o.optimizeMemoHook(call, scope)
	case preset.Callback:
		return o.optimizeCallbackHook(call, scope)
	case preset.Ref:
		return o.optimizeRefHook(call, scope)
	case preset.Effect:
		return o.optimizeEffectHook(call, scope)
	case preset.Custom:
		callee := o.optimizeExpr(call.Callee, scope)
		args, deps, _ := o.optimizeArgList(call.Arguments, scope)
		rebuilt := &ast.CallExpr{Callee: callee.Expr, Arguments: args, Optional: call.Optional}
		return &OptimizedExpression{Expr: rebuilt, Deps: append(asDeps(callee), deps...), Constant: false}
	default: // preset.None, preset.Skip
		if kind == preset.Skip {
			return &OptimizedExpression{Expr: call, Constant: true}
		}
		callee := o.optimizeExpr(call.Callee, scope)
		args, deps, constant := o.optimizeArgList(call.Arguments, scope)
		rebuilt := &ast.CallExpr{Callee: callee.Expr, Arguments: args, Optional: call.Optional}
		allDeps := append(asDeps(callee), deps...)
		if constant && callee.Constant {
			return &OptimizedExpression{Expr: rebuilt, Constant: true}
		}
		return o.createMemo(rebuilt, allDeps, false, false, scope)
	}
}

func hookArg(call *ast.CallExpr, i int) (ast.Expr, bool) {
	if i >= len(call.Arguments) {
		return nil, false
	}
	return call.Arguments[i], true
}

// optimizeMemoHook implements `memo(fn, deps?)`.
func (o *Optimizer) optimizeMemoHook(call *ast.CallExpr, scope *Scope) *OptimizedExpression {
	fn, ok := hookArg(call, 0)
	if !ok {
		o.fail(errors.MalformedHookCall(hookCalleeName(call), "expected a factory function as the first argument", call.Pos()))
	}
	body := astbuild.Call(o.optimizeExpr(fn, scope).Expr)

	if depsExpr, has := hookArg(call, 1); has {
		o.checkDependencyArray(fn, depsExpr, call.Pos())
		deps := o.dependencyListFrom(depsExpr, scope)
		return o.createMemo(body, deps, false, false, scope)
	}
	free := ast.FreeVariables(fn)
	var deps []ast.Expr
	for _, b := range free {
		deps = append(deps, o.optimizeIdentifier(&ast.Identifier{Name: b.Name, Binding: b}, scope).Expr)
	}
	return o.createMemo(body, deps, false, false, scope)
}

// optimizeCallbackHook implements `callback(fn, deps?)`: same
// dependency derivation as memo, but the memoized value is fn itself.
func (o *Optimizer) optimizeCallbackHook(call *ast.CallExpr, scope *Scope) *OptimizedExpression {
	fn, ok := hookArg(call, 0)
	if !ok {
		o.fail(errors.MalformedHookCall(hookCalleeName(call), "expected a function as the first argument", call.Pos()))
	}
	fnRewritten := o.optimizeExpr(fn, scope).Expr

	if depsExpr, has := hookArg(call, 1); has {
		o.checkDependencyArray(fn, depsExpr, call.Pos())
		deps := o.dependencyListFrom(depsExpr, scope)
		return o.createMemo(fnRewritten, deps, false, false, scope)
	}
	free := ast.FreeVariables(fn)
	var deps []ast.Expr
	for _, b := range free {
		deps = append(deps, o.optimizeIdentifier(&ast.Identifier{Name: b.Name, Binding: b}, scope).Expr)
	}
	return o.createMemo(fnRewritten, deps, false, false, scope)
}

// optimizeRefHook implements `ref(init?)`: synthesizes
// `{ current: init ?? void 0 }`, stored one-time on the ref cache.
func (o *Optimizer) optimizeRefHook(call *ast.CallExpr, scope *Scope) *OptimizedExpression {
	var current ast.Expr = astbuild.Undefined()
	if len(call.Arguments) > 0 {
		arg := call.Arguments[0]
		if spread, ok := arg.(*ast.SpreadElement); ok {
			current = astbuild.Member(o.optimizeExpr(spread.Argument, scope).Expr, astbuild.Num("0", 0), true)
		} else {
			current = o.optimizeExpr(arg, scope).Expr
		}
	}
	prop := &ast.Property{Key: &ast.Identifier{Name: "current"}, Value: current, Shorthand: false}
	obj := &ast.ObjectExpr{Properties: []ast.ObjectMember{prop}}
	return o.createMemo(obj, nil, true, true, scope)
}

// optimizeEffectHook implements `effect(fn, deps?)`: normalizes
// the second argument to an array literal and threads the computed
// deps through without caching the call itself.
func (o *Optimizer) optimizeEffectHook(call *ast.CallExpr, scope *Scope) *OptimizedExpression {
	fn, ok := hookArg(call, 0)
	if !ok {
		o.fail(errors.MalformedHookCall(hookCalleeName(call), "expected a function as the first argument", call.Pos()))
	}
	fnRewritten := o.optimizeExpr(fn, scope).Expr

	var deps []ast.Expr
	var depsArray ast.Expr
	if depsExpr, has := hookArg(call, 1); has {
		deps = o.dependencyListFrom(depsExpr, scope)
		depsArray = astbuild.Array(deps...)
	} else {
		depsArray = astbuild.Array(fnRewritten)
	}

	rebuilt := &ast.CallExpr{Callee: call.Callee, Arguments: []ast.Expr{fnRewritten, depsArray}}
	return &OptimizedExpression{Expr: rebuilt, Deps: deps, Constant: false}
}

// dependencyListFrom optimizes a source-level dependency array literal
// into the list of dependency expressions createMemo expects. A
// non-array-literal dependency argument is treated as malformed input.
func (o *Optimizer) dependencyListFrom(expr ast.Expr, scope *Scope) []ast.Expr {
	arr, ok := expr.(*ast.ArrayExpr)
	if !ok {
		o.fail(errors.NonExpressionHookArgument("dependency array", expr.Pos()))
	}
	var deps []ast.Expr
	for _, el := range arr.Elements {
		if el == nil {
			continue
		}
		deps = append(deps, o.optimizeExpr(el, scope).Expr)
	}
	return deps
}

func hookCalleeName(call *ast.CallExpr) string {
	if name, ok := calleeName(call.Callee); ok {
		return name
	}
	return "<call>"
}

// --- LVal handling ---------------------------------------------------------

func (o *Optimizer) optimizeLVal(l ast.LVal, dirty bool, scope *Scope) ast.LVal {
	switch v := l.(type) {
	case *ast.Identifier:
		if dirty && v.Binding != nil {
			scope.Invalidate(v.Binding)
		}
		return v
	case *ast.MemberExpr:
		obj := o.optimizeExpr(v.Object, scope)
		var prop ast.Expr = v.Property
		if v.Computed {
			prop = o.optimizeExpr(v.Property, scope).Expr
		}
		return &ast.MemberExpr{Object: obj.Expr, Property: prop, Computed: v.Computed, Optional: v.Optional}
	case *ast.ArrayPattern, *ast.ObjectPattern:
		// Destructuring LVals are a documented limitation: returned
		// unchanged, without invalidating tracked bindings.
		return v
	default:
		o.fail(errors.UnsupportedLVal(fmt.Sprintf("%T", l), l.Pos()))
		return l
	}
}

// --- createMemo (core memoization contract) -------------------------------

// createMemo is the central primitive: it allocates a fresh slot in the
// appropriate cache, derives a guard from dependencies, and emits the
// value declaration that reads the slot on a cache hit or writes it on
// a miss. oneTime corresponds to `dependencies === true`; isRef selects
// the ref cache over the memo cache.
func (o *Optimizer) createMemo(expr ast.Expr, deps []ast.Expr, oneTime, isRef bool, scope *Scope) *OptimizedExpression {
	var header *ast.Identifier
	var slot int
	if isRef {
		header = scope.RefHeaderID()
		slot = scope.AllocRefSlot()
	} else {
		header = scope.MemoHeaderID()
		slot = scope.AllocMemoSlot()
	}

	slotAccess := astbuild.Member(header, astbuild.Num(fmt.Sprintf("%d", slot), float64(slot)), true)
	writeSlot := astbuild.Assign("=", slotAccess, expr)

	vBinding := astbuild.LocalBinding(scope.freshName("_v"))
	vIdent := astbuild.Ident(vBinding.Name, vBinding)

	var result *OptimizedExpression

	if oneTime {
		valueInit := astbuild.Conditional(astbuild.In(astbuild.Num(fmt.Sprintf("%d", slot), float64(slot)), header), slotAccess, writeSlot)
		scope.Emit(astbuild.Let(ast.Let, vBinding, valueInit))
		scope.MarkConstant(vBinding)
		result = &OptimizedExpression{Expr: vIdent, Constant: true}
	} else {
		var guardExpr ast.Expr
		switch {
		case len(deps) == 0:
			guardExpr = astbuild.Call(o.resolver.Resolve(RuntimeEquals), header, astbuild.Num(fmt.Sprintf("%d", slot), float64(slot)), expr)
		case len(deps) == 1:
			guardExpr = deps[0]
		default:
			guardExpr = andFold(deps)
		}

		var guardIdent ast.Expr
		if id, ok := guardExpr.(*ast.Identifier); ok {
			guardIdent = id
		} else {
			eqBinding := astbuild.LocalBinding(scope.freshName("_eq"))
			scope.Emit(astbuild.Let(ast.Let, eqBinding, guardExpr))
			guardIdent = astbuild.Ident(eqBinding.Name, eqBinding)
		}

		valueInit := astbuild.Conditional(guardIdent, slotAccess, writeSlot)
		scope.Emit(astbuild.Let(ast.Let, vBinding, valueInit))
		result = &OptimizedExpression{Expr: vIdent, Deps: deps, Constant: false}
	}

	if id, ok := expr.(*ast.Identifier); ok {
		scope.SetOptimized(id.Binding, result)
	}
	scope.SetOptimized(vBinding, result)

	return result
}

// andFold reduces dependency expressions with logical AND left to
// right, skipping duplicate identifier dependencies by binding identity
// rather than by name.
func andFold(deps []ast.Expr) ast.Expr {
	seen := map[*ast.Binding]bool{}
	var result ast.Expr
	for _, d := range deps {
		if id, ok := d.(*ast.Identifier); ok && id.Binding != nil {
			if seen[id.Binding] {
				continue
			}
			seen[id.Binding] = true
		}
		if result == nil {
			result = d
			continue
		}
		result = astbuild.Logical("&&", result, d)
	}
	if result == nil {
		return astbuild.Bool(true)
	}
	return result
}

func asDeps(oe *OptimizedExpression) []ast.Expr {
	if oe == nil || oe.Constant {
		return nil
	}
	if len(oe.Deps) > 0 {
		return oe.Deps
	}
	return []ast.Expr{oe.Expr}
}

func combineDeps(a, b *OptimizedExpression) []ast.Expr {
	return append(asDeps(a), asDeps(b)...)
}
