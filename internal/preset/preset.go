// Package preset supplies the StateContext the optimizer is handed
// alongside a component: which callee identifiers classify to which
// hook kind, the two runtime hook names passed to the emitted cache/ref calls,
// whether JSX memoization is enabled, and the import-resolution helper
// that dedupes runtime imports at file scope.
package preset

import (
	"strings"

	"github.com/juncdeinda/forgetti/internal/errors"
)

// Preset describes which callee identifiers map to which hook kind, and
// the handful of toggles the optimizer consults while walking a
// component.
type Preset struct {
	Name string

	// Rules maps a bare callee identifier to the hook kind the
	// optimizer should treat it as. Identifiers absent from Rules
	// fall back to the use-prefix heuristic below.
	Rules map[string]HookKind

	// JSXMemo enables memoization of JSX element/fragment nodes;
	// off by default, since a constant JSX subtree is already cheap
	// to re-create and most JSX doesn't benefit from its own slot.
	JSXMemo bool

	// CustomHookPrefix is the identifier prefix (default "use")
	// used to classify an unrecognized call as Custom rather than
	// None — a call shaped like a user-defined hook.
	CustomHookPrefix string

	// MemoHookName and RefHookName are the runtime-visible names passed
	// (through the import resolver) as the first argument of the root
	// scope's emitted cache/ref header calls.
	MemoHookName string
	RefHookName  string

	// Warnings accumulates non-fatal diagnostics produced while loading
	// this preset from a config file (e.g. an unrecognized field key).
	// Empty for Default() or a preset built programmatically.
	Warnings []errors.CompilerError
}

// Default returns the preset the optimizer uses absent an explicit
// configuration file: the common hook names found across React-shaped
// component libraries.
func Default() *Preset {
	return &Preset{
		Name: "default",
		Rules: map[string]HookKind{
			"useMemo":            Memo,
			"useCallback":        Callback,
			"useRef":             Ref,
			"useEffect":          Effect,
			"useLayoutEffect":    Effect,
			"useImperativeHandle": Ref,
		},
		JSXMemo:          false,
		CustomHookPrefix: "use",
		MemoHookName:     "useMemo",
		RefHookName:      "useRef",
	}
}

// Classify returns the HookKind a bare callee identifier should be
// treated as. It never returns Skip on its own — Skip is only produced
// when the identifier is explicitly registered as Skip in Rules.
func (p *Preset) Classify(calleeName string) HookKind {
	if p == nil {
		return None
	}
	if kind, ok := p.Rules[calleeName]; ok {
		return kind
	}
	if p.looksLikeHook(calleeName) {
		return Custom
	}
	return None
}

func (p *Preset) looksLikeHook(name string) bool {
	prefix := p.CustomHookPrefix
	if prefix == "" {
		prefix = "use"
	}
	if !strings.HasPrefix(name, prefix) || len(name) == len(prefix) {
		return false
	}
	next := rune(name[len(prefix)])
	return next >= 'A' && next <= 'Z'
}
