package preset

import "github.com/juncdeinda/forgetti/internal/ast"

// ImportResolver hands the optimizer a canonical local identifier for a
// logical runtime import name (e.g. "cache", "ref", "branch", "equals"),
// deduplicating at file scope so the same runtime helper is never
// imported under two different local names within one output file.
type ImportResolver interface {
	Resolve(logicalName string) *ast.Identifier
}

// DefaultImportResolver resolves every logical name to its own name
// unmodified, memoizing the *ast.Identifier so repeated resolutions of
// the same logical name return the identical node (and therefore the
// identical *ast.Binding, satisfying dependency folding's identity-based
// dedup).
type DefaultImportResolver struct {
	resolved map[string]*ast.Identifier
}

// NewDefaultImportResolver returns a resolver with an empty cache.
func NewDefaultImportResolver() *DefaultImportResolver {
	return &DefaultImportResolver{resolved: map[string]*ast.Identifier{}}
}

func (r *DefaultImportResolver) Resolve(logicalName string) *ast.Identifier {
	if id, ok := r.resolved[logicalName]; ok {
		return id
	}
	id := &ast.Identifier{
		Name:    logicalName,
		Binding: &ast.Binding{Name: logicalName, Kind: ast.Foreign},
	}
	r.resolved[logicalName] = id
	return id
}
