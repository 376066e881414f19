package optimizer

import "github.com/juncdeinda/forgetti/internal/ast"

// determinacy is the three-valued result of evaluating a literal to a
// truth value: truthy, falsy/nullish expressions fold away a branch;
// anything else (arrays, objects, functions, identifiers, calls...) is
// indeterminate and left alone to avoid truthiness traps from
// reference-to-primitive coercion.
type determinacy int

const (
	indeterminate determinacy = iota
	truthy
	falsy
	nullish
)

// Simplifier is the pre-pass the Optimizer runs over a component body
// before its own descent, folding obvious boolean/conditional forms so
// fewer indeterminate branches reach the Optimizer.
type Simplifier struct{}

// NewSimplifier constructs a Simplifier. It carries no state between
// components.
func NewSimplifier() *Simplifier { return &Simplifier{} }

// SimplifyStmt rewrites a single statement in place, returning the
// replacement (possibly nil, meaning the statement is removed).
func (s *Simplifier) SimplifyStmt(stmt ast.Stmt) ast.Stmt {
	switch st := stmt.(type) {
	case *ast.IfStmt:
		st.Test = s.SimplifyExpr(st.Test)
		if st.Consequent != nil {
			st.Consequent = s.SimplifyStmt(st.Consequent)
		}
		if st.Alternate != nil {
			st.Alternate = s.SimplifyStmt(st.Alternate)
		}
		switch s.determine(st.Test) {
		case truthy:
			return st.Consequent
		case falsy, nullish:
			return st.Alternate
		}
		return st
	case *ast.WhileStmt:
		st.Test = s.SimplifyExpr(st.Test)
		if s.determine(st.Test) == falsy {
			return nil
		}
		st.Body = s.SimplifyStmt(st.Body)
		return st
	case *ast.BlockStmt:
		var body []ast.Stmt
		for _, inner := range st.Body {
			if rewritten := s.SimplifyStmt(inner); rewritten != nil {
				body = append(body, rewritten)
			}
		}
		st.Body = body
		return st
	case *ast.ExpressionStmt:
		st.Expression = s.SimplifyExpr(st.Expression)
		return st
	case *ast.ReturnStmt:
		if st.Argument != nil {
			st.Argument = s.SimplifyExpr(st.Argument)
		}
		return st
	case *ast.VariableDeclaration:
		for _, d := range st.Declarations {
			if d.Init != nil {
				d.Init = s.SimplifyExpr(d.Init)
			}
		}
		return st
	case *ast.ForStmt:
		if st.Test != nil {
			st.Test = s.SimplifyExpr(st.Test)
		}
		st.Body = s.SimplifyStmt(st.Body)
		return st
	case *ast.DoWhileStmt:
		st.Test = s.SimplifyExpr(st.Test)
		st.Body = s.SimplifyStmt(st.Body)
		return st
	default:
		return stmt
	}
}

// SimplifyExpr rewrites conditional and logical expressions and
// determinate unary forms; every other expression kind passes through unchanged at this
// stage (the Optimizer's own descent handles the rest).
func (s *Simplifier) SimplifyExpr(expr ast.Expr) ast.Expr {
	switch e := expr.(type) {
	case *ast.ConditionalExpr:
		e.Test = s.SimplifyExpr(e.Test)
		e.Consequent = s.SimplifyExpr(e.Consequent)
		e.Alternate = s.SimplifyExpr(e.Alternate)
		switch s.determine(e.Test) {
		case truthy:
			return e.Consequent
		case falsy, nullish:
			return e.Alternate
		}
		return e
	case *ast.LogicalExpr:
		e.Left = s.SimplifyExpr(e.Left)
		e.Right = s.SimplifyExpr(e.Right)
		switch e.Operator {
		case "??":
			if d := s.determine(e.Left); d == nullish {
				return e.Right
			} else if d != indeterminate {
				return e.Left
			}
		case "||":
			if d := s.determine(e.Left); d == falsy || d == nullish {
				return e.Right
			} else if d == truthy {
				return e.Left
			}
		case "&&":
			if d := s.determine(e.Left); d == truthy {
				return e.Right
			} else if d == falsy || d == nullish {
				return e.Left
			}
		}
		return e
	case *ast.UnaryExpr:
		e.Argument = s.SimplifyExpr(e.Argument)
		if e.Operator == "void" && s.determine(e.Argument) != indeterminate {
			return voidZero()
		}
		if e.Operator == "!" {
			switch s.determine(e.Argument) {
			case truthy:
				return boolLiteral(false)
			case falsy, nullish:
				return boolLiteral(true)
			}
		}
		return e
	default:
		return expr
	}
}

// determine evaluates a literal expression to truthy/falsy/nullish,
// or indeterminate for anything else — including arrays, objects, and
// functions, which are always truthy at runtime but are excluded here
// deliberately.
func (s *Simplifier) determine(expr ast.Expr) determinacy {
	lit, ok := expr.(*ast.Literal)
	if !ok {
		return indeterminate
	}
	switch lit.LitKind {
	case ast.NullLiteral:
		return nullish
	case ast.BooleanLiteral:
		if b, ok := lit.Value.(bool); ok {
			if b {
				return truthy
			}
			return falsy
		}
	case ast.NumericLiteral:
		if n, ok := lit.Value.(float64); ok {
			if n == 0 {
				return falsy
			}
			return truthy
		}
	case ast.StringLiteral:
		if str, ok := lit.Value.(string); ok {
			if str == "" {
				return falsy
			}
			return truthy
		}
	case ast.BigIntLiteral:
		if lit.Raw == "0n" {
			return falsy
		}
		return truthy
	}
	return indeterminate
}

func voidZero() *ast.UnaryExpr {
	return &ast.UnaryExpr{Operator: "void", Argument: &ast.Literal{LitKind: ast.NumericLiteral, Value: float64(0), Raw: "0"}, Prefix: true}
}

func boolLiteral(v bool) *ast.Literal {
	raw := "false"
	if v {
		raw = "true"
	}
	return &ast.Literal{LitKind: ast.BooleanLiteral, Value: v, Raw: raw}
}
