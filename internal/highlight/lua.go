package highlight

import (
	"github.com/alecthomas/chroma/v2"
)

// Lua is a lexer for Lua source that follows the token classes documentation
// pages use for Lua snippets. Rules are tried in order; the first match wins.
var Lua = chroma.MustNewLexer(
	&chroma.Config{
		Name:      "Lua",
		Aliases:   []string{"lua"},
		Filenames: []string{"*.lua", "*.wlua"},
		MimeTypes: []string{"text/x-lua", "application/x-lua"},
		// $ ends the input, so an unclosed block comment swallows the rest
		NotMultiline: true,
	},
	luaRules,
)

func luaRules() chroma.Rules {
	return chroma.Rules{
		"root": {
			// --[[ block comments ]], unterminated ones run to the end
			{Pattern: `(?<!\\)--\[\[[\s\S]*?(?:\]\]|$)`, Type: chroma.CommentMultiline},
			{Pattern: `(?<![\\:])--.*`, Type: chroma.CommentSingle},
			{Pattern: `(["'])(?:\\(?:\r\n|[\s\S])|(?!\1)[^\\\r\n])*\1`, Type: chroma.LiteralString},
			{Pattern: `(?i)(?<=\b(?:class|new)\s+|\bcatch\s+\()[\w.\\]+`, Type: chroma.NameClass},
			{Pattern: `\b(?:and|break|do|else|elseif|end|for|function|goto|if|in|local|nil|not|or|repeat|return|then|until|while)\b`, Type: chroma.Keyword},
			{Pattern: `\b(?:true|false)\b`, Type: chroma.KeywordConstant},
			{Pattern: `\w+(?=\()`, Type: chroma.NameFunction},
			{Pattern: `(?i)\b0x[\da-f]+\b|(?:\b\d+\.?\d*|\B\.\d+)(?:e[+-]?\d+)?`, Type: chroma.LiteralNumber},
			{Pattern: `[<>]=?|[!=]=?=?|--?|\+\+?|&&?|\|\|?|[?*/~^%]`, Type: chroma.Operator},
			{Pattern: `[{}\[\];(),.:]`, Type: chroma.Punctuation},
			{Pattern: `\s+`, Type: chroma.Text},
			{Pattern: `\w+`, Type: chroma.Name},
			{Pattern: `.`, Type: chroma.Text},
		},
	}
}
