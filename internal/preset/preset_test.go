package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultClassification(t *testing.T) {
	p := Default()
	assert.Equal(t, Memo, p.Classify("useMemo"))
	assert.Equal(t, Callback, p.Classify("useCallback"))
	assert.Equal(t, Ref, p.Classify("useRef"))
	assert.Equal(t, Effect, p.Classify("useEffect"))
	assert.Equal(t, Effect, p.Classify("useLayoutEffect"))
	assert.Equal(t, Ref, p.Classify("useImperativeHandle"))
	assert.Equal(t, None, p.Classify("doSomething"))
}

func TestCustomHookHeuristic(t *testing.T) {
	p := Default()
	assert.Equal(t, Custom, p.Classify("useWindowSize"))
	// Bare "use" with nothing following doesn't look like a hook.
	assert.Equal(t, None, p.Classify("use"))
	// Lowercase continuation isn't a hook either (useful, not a hook).
	assert.Equal(t, None, p.Classify("useful"))
}

func TestNilPresetClassifiesNone(t *testing.T) {
	var p *Preset
	assert.Equal(t, None, p.Classify("useMemo"))
}

func TestParseStringOverlaysDefault(t *testing.T) {
	src := `
preset "custom" {
  memo: recall;
  skip: useTheme;
  jsx: true;
}
`
	p, err := ParseString("custom.forgetti", src)
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Name)
	assert.Equal(t, Memo, p.Classify("recall"))
	assert.Equal(t, Skip, p.Classify("useTheme"))
	assert.True(t, p.JSXMemo)
	// Entries not mentioned in the file still fall back to Default().
	assert.Equal(t, Ref, p.Classify("useRef"))
}

func TestParseStringAmbiguousEntryErrors(t *testing.T) {
	src := `
preset "conflict" {
  memo: thing;
  callback: thing;
}
`
	p, err := ParseString("conflict.forgetti", src)
	assert.Nil(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "thing")
	assert.Contains(t, err.Error(), "more than one hook kind")
}

func TestParseStringOverridingDefaultIsNotAmbiguous(t *testing.T) {
	// Overriding an entry Default() already sets is allowed; only two
	// conflicting registrations within the same file are ambiguous.
	src := `
preset "override" {
  skip: useRef;
}
`
	p, err := ParseString("override.forgetti", src)
	require.NoError(t, err)
	assert.Equal(t, Skip, p.Classify("useRef"))
}

func TestParseStringUnknownFieldKeyWarns(t *testing.T) {
	src := `
preset "typo" {
  memoo: thing;
}
`
	p, err := ParseString("typo.forgetti", src)
	require.NoError(t, err)
	require.Len(t, p.Warnings, 1)
	assert.Equal(t, "W0003", p.Warnings[0].Code)
	assert.Contains(t, p.Warnings[0].Message, "memoo")
}

func TestParseStringInvalidSourceErrors(t *testing.T) {
	_, err := ParseString("bad.forgetti", "not a valid preset file {{{")
	assert.Error(t, err)
}

func TestDefaultImportResolverMemoizes(t *testing.T) {
	r := NewDefaultImportResolver()
	a := r.Resolve("cache")
	b := r.Resolve("cache")
	assert.Same(t, a, b)
	assert.Same(t, a.Binding, b.Binding)

	other := r.Resolve("ref")
	assert.NotSame(t, a, other)
}
