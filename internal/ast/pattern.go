package ast

// Destructuring patterns. These are deliberately left un-memoized and
// un-invalidated — a documented limitation: optimizeLVal returns them
// unchanged without walking into their sub-targets.

type ArrayPattern struct {
	Base
	Elements []LVal // entries may be nil for elisions
}

type ObjectPatternProperty struct {
	Base
	Key      Expr
	Value    LVal
	Computed bool
	Shorthand bool
}

type ObjectPattern struct {
	Base
	Properties []*ObjectPatternProperty
	Rest       *RestElement
}

type RestElement struct {
	Base
	Argument LVal
}

func (*RestElement) isLVal() {}
