package errors

import (
	"strings"
	"testing"

	"github.com/juncdeinda/forgetti/internal/ast"
	"github.com/stretchr/testify/assert"
)

func TestErrorReporter(t *testing.T) {
	source := `function Widget(props) {
    const total = sum(props.items);
    return total;
}`

	reporter := NewErrorReporter("widget.jsx", source)

	err := NonExpressionHookArgument("useMemo", ast.Position{Line: 2, Column: 19})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorNonExpressionHookArgument+" "+strings.ToLower(GetErrorCategory(err.Code))+"]")
	assert.Contains(t, formatted, "useMemo")
	assert.Contains(t, formatted, "widget.jsx:2:19")
}

func TestUnsupportedLValError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 5}

	err := UnsupportedLVal("a computed member expression", pos)
	assert.Equal(t, ErrorUnsupportedLVal, err.Code)
	assert.Contains(t, err.Message, "computed member expression")
	assert.Len(t, err.Suggestions, 1)
	assert.Contains(t, err.Suggestions[0].Message, "plain identifier")
}

func TestMalformedHookCallError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 5}

	err := MalformedHookCall("useCallback", "expected a dependency array as the second argument", pos)
	assert.Equal(t, ErrorMalformedHookCall, err.Code)
	assert.Contains(t, err.Message, "useCallback")
	assert.Contains(t, err.Message, "dependency array")
}

func TestAmbiguousPresetEntryError(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 1}

	err := AmbiguousPresetEntry("useThing", []string{"memo", "callback"}, pos)
	assert.Equal(t, ErrorAmbiguousPresetEntry, err.Code)
	assert.Contains(t, err.Message, "useThing")
	assert.Contains(t, err.Message, "memo, callback")
	assert.Len(t, err.Suggestions, 1)
}

func TestNoOptimizableExpressionsWarning(t *testing.T) {
	source := `function Static() { return null; }`
	reporter := NewErrorReporter("static.jsx", source)

	err := NoOptimizableExpressions("Static", ast.Position{Line: 1, Column: 1})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "warning["+WarningNoOptimizableExpressions+" "+strings.ToLower(GetErrorCategory(err.Code))+"]")
	assert.Contains(t, formatted, "Static")
	assert.True(t, IsWarning(err.Code))
}

func TestDependencyArrayMismatchWarning(t *testing.T) {
	pos := ast.Position{Line: 3, Column: 10}

	err := DependencyArrayMismatch([]string{"count"}, []string{"unused"}, pos)
	assert.Equal(t, WarningDependencyArrayMismatch, err.Code)
	assert.Len(t, err.Notes, 2)
	assert.Contains(t, err.Notes[0], "count")
	assert.Contains(t, err.Notes[1], "unused")
}

func TestErrorMarkerCreation(t *testing.T) {
	source := `let variable = value;`
	reporter := NewErrorReporter("test.jsx", source)

	// "variable" is 8 chars at column 5: one leading caret plus seven
	// tildes spanning the rest of the span, rustc-style.
	marker := reporter.underline(5, 8, Error)

	spaces := strings.Count(marker, " ")
	assert.Equal(t, 4, spaces) // column 5 means 4 spaces before
	assert.Equal(t, 1, strings.Count(marker, "^"))
	assert.Equal(t, 7, strings.Count(marker, "~"))
}

func TestErrorMarkerCreationPointSpan(t *testing.T) {
	source := `let v = value;`
	reporter := NewErrorReporter("test.jsx", source)

	marker := reporter.underline(5, 1, Error)

	assert.Equal(t, 1, strings.Count(marker, "^"))
	assert.Equal(t, 0, strings.Count(marker, "~"))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo"))
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestSimilarNameFinding(t *testing.T) {
	candidates := []string{"memo", "callback", "ref", "effect", "xyz"}

	similar := findSimilarNames("memoo", candidates)
	assert.Contains(t, similar, "memo")
	assert.NotContains(t, similar, "xyz")

	similar = findSimilarNames("verydifferent", candidates)
	assert.Empty(t, similar)
}

func TestErrorLevels(t *testing.T) {
	source := `test`
	reporter := NewErrorReporter("test.jsx", source)
	pos := ast.Position{Line: 1, Column: 1}

	errorErr := CompilerError{Level: Error, Message: "test error", Position: pos}
	warningErr := CompilerError{Level: Warning, Message: "test warning", Position: pos}

	errorFormatted := reporter.FormatError(errorErr)
	warningFormatted := reporter.FormatError(warningErr)

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")
}
