package ast

// Component is what the optimizer's external interface receives: a
// single component whose body returns a view tree. It is an ordinary
// function — Name is empty for an anonymous default export.
type Component struct {
	Base
	Name   string
	Params []LVal
	Body   *BlockStmt
}

func (*Component) Kind() NodeKind { return COMPONENT }
