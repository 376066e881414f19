package preset

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ConfigLexer tokenizes a preset configuration file. A preset file
// looks like:
//
//	preset "react" {
//	    jsx: false;
//	    memo: useMemo;
//	    callback: useCallback;
//	    ref: useRef, useImperativeHandle;
//	    effect: useEffect, useLayoutEffect;
//	    skip: useId;
//	}
var ConfigLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"String", `"(\\"|[^"])*"`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Punctuation", `[{}:,;]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

// Config is the participle grammar root for a preset file.
type Config struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string         `"preset" @String "{"`
	Fields []*ConfigField `@@* "}"`
}

// ConfigField is one `key: value, value;` entry inside a preset block.
type ConfigField struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Key    string   `@Ident ":"`
	Values []string `( @Ident | @String ) { "," ( @Ident | @String ) } ";"`
}
