package ast

// BindingKind classifies where an identifier's declaration lives relative
// to the component being optimized. isConstant needs to tell
// foreign/global bindings apart from ones tracked inside the component;
// BindingKind is the concrete data that distinction is made from. A host
// scope-resolution pass is assumed to have already run and populated
// every Identifier's Binding before the optimizer sees the tree.
type BindingKind int

const (
	// Unresolved means no declaration was found for this identifier at all
	// (treated the same as Global by the analyzer: nothing inside the
	// component can invalidate it).
	Unresolved BindingKind = iota

	// Global is a well-known global (window, Math, undefined, ...).
	Global

	// Foreign is declared outside the component's enclosing function
	// (module-level const, an outer closure's variable).
	Foreign

	// Param is a parameter of the component function itself.
	Param

	// Local is declared by a let/const/var/function inside the component
	// body and is therefore subject to memoization and invalidation.
	Local
)

// Binding is the declaration site an Identifier resolves to. Distinct
// bindings with the same Name are distinct objects — the Scope's
// optimized table and the AND-fold's duplicate elision key off Binding
// pointer identity, never off Name, so that two different locals that
// happen to share a name are never conflated.
type Binding struct {
	Name string
	Kind BindingKind
}

func (b *Binding) IsConstantByNature() bool {
	return b == nil || b.Kind == Foreign || b.Kind == Global || b.Kind == Unresolved
}
