package ast

// Walk visits n and every descendant reachable through the node's
// children, calling visit on each. If visit returns false, n's children
// are not visited.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	walkChildren(n, visit)
}

func walkChildren(n Node, visit func(Node) bool) {
	switch v := n.(type) {
	case *Identifier, *Literal, *JSXText, *EmptyStmt, *BreakStmt, *ContinueStmt:
		// leaves

	case *TemplateLiteral:
		for _, e := range v.Expressions {
			Walk(e, visit)
		}
	case *TaggedTemplateExpr:
		Walk(v.Tag, visit)
		Walk(v.Quasi, visit)
	case *ParenExpr:
		Walk(v.Expression, visit)
	case *TypeAssertionExpr:
		Walk(v.Expression, visit)
	case *MemberExpr:
		Walk(v.Object, visit)
		if v.Computed {
			Walk(v.Property, visit)
		}
	case *ConditionalExpr:
		Walk(v.Test, visit)
		Walk(v.Consequent, visit)
		Walk(v.Alternate, visit)
	case *BinaryExpr:
		Walk(v.Left, visit)
		Walk(v.Right, visit)
	case *LogicalExpr:
		Walk(v.Left, visit)
		Walk(v.Right, visit)
	case *UnaryExpr:
		Walk(v.Argument, visit)
	case *UpdateExpr:
		Walk(v.Argument, visit)
	case *CallExpr:
		Walk(v.Callee, visit)
		for _, a := range v.Arguments {
			Walk(a, visit)
		}
	case *NewExpr:
		Walk(v.Callee, visit)
		for _, a := range v.Arguments {
			Walk(a, visit)
		}
	case *FunctionExpr:
		for _, p := range v.Params {
			Walk(p, visit)
		}
		Walk(v.Body, visit)
	case *ArrowFunctionExpr:
		for _, p := range v.Params {
			Walk(p, visit)
		}
		Walk(v.Body, visit)
	case *ArrayExpr:
		for _, e := range v.Elements {
			if e != nil {
				Walk(e, visit)
			}
		}
	case *SpreadElement:
		Walk(v.Argument, visit)
	case *ObjectExpr:
		for _, m := range v.Properties {
			Walk(m, visit)
		}
	case *Property:
		if v.Computed {
			Walk(v.Key, visit)
		}
		Walk(v.Value, visit)
	case *AssignmentExpr:
		Walk(v.Left, visit)
		Walk(v.Right, visit)
	case *SequenceExpr:
		for _, e := range v.Expressions {
			Walk(e, visit)
		}
	case *ArrayPattern:
		for _, e := range v.Elements {
			if e != nil {
				Walk(e, visit)
			}
		}
	case *ObjectPattern:
		for _, p := range v.Properties {
			if p.Computed {
				Walk(p.Key, visit)
			}
			Walk(p.Value, visit)
		}
		if v.Rest != nil {
			Walk(v.Rest, visit)
		}
	case *RestElement:
		Walk(v.Argument, visit)
	case *JSXElement:
		for _, a := range v.Attributes {
			if a.Spread {
				Walk(a.Argument, visit)
			} else if a.Value != nil {
				Walk(a.Value, visit)
			}
		}
		for _, c := range v.Children {
			Walk(c, visit)
		}
	case *JSXFragment:
		for _, c := range v.Children {
			Walk(c, visit)
		}
	case *JSXExpressionContainer:
		Walk(v.Expression, visit)

	case *ExpressionStmt:
		Walk(v.Expression, visit)
	case *VariableDeclaration:
		for _, d := range v.Declarations {
			Walk(d.ID, visit)
			if d.Init != nil {
				Walk(d.Init, visit)
			}
		}
	case *ReturnStmt:
		if v.Argument != nil {
			Walk(v.Argument, visit)
		}
	case *ThrowStmt:
		Walk(v.Argument, visit)
	case *BlockStmt:
		for _, s := range v.Body {
			Walk(s, visit)
		}
	case *IfStmt:
		Walk(v.Test, visit)
		Walk(v.Consequent, visit)
		if v.Alternate != nil {
			Walk(v.Alternate, visit)
		}
	case *ForStmt:
		if v.Init != nil {
			Walk(v.Init, visit)
		}
		if v.Test != nil {
			Walk(v.Test, visit)
		}
		if v.Update != nil {
			Walk(v.Update, visit)
		}
		Walk(v.Body, visit)
	case *WhileStmt:
		Walk(v.Test, visit)
		Walk(v.Body, visit)
	case *DoWhileStmt:
		Walk(v.Body, visit)
		Walk(v.Test, visit)
	case *ForInStmt:
		Walk(v.Left, visit)
		Walk(v.Right, visit)
		Walk(v.Body, visit)
	case *ForOfStmt:
		Walk(v.Left, visit)
		Walk(v.Right, visit)
		Walk(v.Body, visit)
	case *SwitchStmt:
		Walk(v.Discriminant, visit)
		for _, c := range v.Cases {
			if c.Test != nil {
				Walk(c.Test, visit)
			}
			for _, s := range c.Consequent {
				Walk(s, visit)
			}
		}
	case *TryStmt:
		Walk(v.Block, visit)
		if v.Handler != nil {
			if v.Handler.Param != nil {
				Walk(v.Handler.Param, visit)
			}
			Walk(v.Handler.Body, visit)
		}
		if v.Finalizer != nil {
			Walk(v.Finalizer, visit)
		}
	case *LabeledStmt:
		Walk(v.Body, visit)
	case *Component:
		for _, p := range v.Params {
			Walk(p, visit)
		}
		Walk(v.Body, visit)
	}
}

// FreeVariables returns the distinct bindings referenced inside fn (a
// *FunctionExpr or *ArrowFunctionExpr) that resolve to a Param or Local
// binding of the enclosing component and are not themselves declared
// inside fn — i.e. fn's closure, computed relative to the enclosing
// component. Order is first-encounter, for deterministic output.
func FreeVariables(fn Node) []*Binding {
	bound := map[*Binding]bool{}
	var order []*Binding
	seen := map[*Binding]bool{}

	bindParams := func(params []LVal) {
		for _, p := range params {
			bindLVal(p, bound)
		}
	}
	switch v := fn.(type) {
	case *FunctionExpr:
		bindParams(v.Params)
	case *ArrowFunctionExpr:
		bindParams(v.Params)
	}

	var visit func(Node) bool
	visit = func(n Node) bool {
		switch v := n.(type) {
		case *Identifier:
			b := v.Binding
			if b != nil && (b.Kind == Param || b.Kind == Local) && !bound[b] && !seen[b] {
				seen[b] = true
				order = append(order, b)
			}
			return false
		case *VariableDeclaration:
			for _, d := range v.Declarations {
				bindLVal(d.ID, bound)
			}
		case *FunctionExpr:
			bindParams(v.Params)
		case *ArrowFunctionExpr:
			bindParams(v.Params)
		}
		return true
	}

	switch v := fn.(type) {
	case *FunctionExpr:
		Walk(v.Body, visit)
	case *ArrowFunctionExpr:
		Walk(v.Body, visit)
	}

	return order
}

// bindLVal records every identifier binding introduced by an LVal
// (destructuring or plain) into bound, so FreeVariables can recognize
// shadowing.
func bindLVal(l LVal, bound map[*Binding]bool) {
	switch v := l.(type) {
	case *Identifier:
		if v.Binding != nil {
			bound[v.Binding] = true
		}
	case *ArrayPattern:
		for _, e := range v.Elements {
			if e != nil {
				bindLVal(e, bound)
			}
		}
	case *ObjectPattern:
		for _, p := range v.Properties {
			bindLVal(p.Value, bound)
		}
		if v.Rest != nil {
			bindLVal(v.Rest, bound)
		}
	case *RestElement:
		bindLVal(v.Argument, bound)
	case *MemberExpr:
		// assigning into a member expression introduces no new binding
	}
}
