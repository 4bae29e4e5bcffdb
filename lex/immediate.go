package lex

import (
	"github.com/dekarrin/ictiobus/icterrors"
	"github.com/dekarrin/ictiobus/types"
)

type immediateTokenStream struct {
	tokens []types.Token
	cur    int
}

// drainToImmediate runs core to completion and returns every token it
// produced as a single pre-scanned stream. If core ever produces an error
// token, lexing stops there and that error is returned instead of a stream.
func drainToImmediate(core *lazyLex) (types.TokenStream, error) {
	lexedTokens := []types.Token{}

	for core.HasNext() {
		tok := core.Next()

		if tok.Class().ID() == types.TokenError.ID() {
			// create a new token to hold all values of tok except lexeme so
			// we don't put the lexeme of "err message" into the actual token
			// shown when the error is displayed to end user
			tokWrap := lexerToken{
				class:   tok.Class(),
				linePos: tok.LinePos(),
				line:    tok.FullLine(),
				lineNum: tok.Line(),
			}

			return nil, icterrors.NewSyntaxErrorFromToken(tok.Lexeme(), tokWrap)
		}

		lexedTokens = append(lexedTokens, tok)
	}

	return &immediateTokenStream{tokens: lexedTokens}, nil
}

// Next returns the next token in the stream and advances the stream by one
// token. The last token of the stream is one whose Class() is
// types.TokenEndOfText. The stream never holds a types.TokenError token, since
// drainToImmediate returns the first lexing error instead of a stream.
func (lx *immediateTokenStream) Next() types.Token {
	n := lx.tokens[lx.cur]
	lx.cur++
	return n
}

// Peek returns the next token in the stream without advancing the stream.
func (lx *immediateTokenStream) Peek() types.Token {
	return lx.tokens[lx.cur]
}

// HasNext returns whether the stream has any additional tokens.
func (lx *immediateTokenStream) HasNext() bool {
	return lx.Remaining() > 0
}

func (lx *immediateTokenStream) Remaining() int {
	return len(lx.tokens) - lx.cur
}
