// Package snapshot persists a grammar's rule text and the parser family it
// was checked against; a later run rebuilds the parser table from them.
package snapshot

import (
	"fmt"
	"io"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/ictiobus/grammar"
	"github.com/dekarrin/ictiobus/parse"
	"github.com/dekarrin/ictiobus/types"
)

// Snapshot is the on-disk form of a compiled parser: the grammar's plain-text
// rule listing (grammar.Grammar.String(), reparseable by grammar.Parse) and
// the parser family it was generated for. The ACTION/GOTO table itself is not
// stored; Parser() reconstructs it from the grammar, which is cheap relative
// to the cost of re-deriving the grammar from source each run and avoids
// having to teach rezi about the table's internal item-set representation.
type Snapshot struct {
	RunID       string
	ParserType  string
	GrammarText string
}

// Of captures a Snapshot of g for the given parser family.
func Of(runID string, pt types.ParserType, g grammar.Grammar) Snapshot {
	return Snapshot{
		RunID:       runID,
		ParserType:  pt.String(),
		GrammarText: g.String(),
	}
}

// Write encodes snap and writes it to w.
func Write(w io.Writer, snap Snapshot) error {
	data := rezi.EncBinary(snap)
	_, err := w.Write(data)
	return err
}

// Read decodes a Snapshot previously written by Write.
func Read(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	n, err := rezi.DecBinary(data, &snap)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if n != len(data) {
		return Snapshot{}, fmt.Errorf("decode snapshot: only consumed %d/%d bytes", n, len(data))
	}

	return snap, nil
}

// Grammar re-parses the stored grammar text.
func (s Snapshot) Grammar() (grammar.Grammar, error) {
	return grammar.Parse(s.GrammarText)
}

// Parser is the minimal surface a reconstructed parser needs; it matches
// github.com/dekarrin/ictiobus.Parser without importing that package, which
// would otherwise cycle back to this one.
type Parser interface {
	Parse(stream types.TokenStream) (types.ParseTree, error)
}

// Parser reconstructs the parser the snapshot was taken against. Returns an
// error if the stored grammar no longer satisfies that parser family, or if
// the stored ParserType is not LALR(1), CLR(1) or SLR(1); LL(1) snapshots are
// not rebuilt.
func (s Snapshot) Parser() (Parser, error) {
	g, err := s.Grammar()
	if err != nil {
		return nil, err
	}

	switch types.ParserType(s.ParserType) {
	case types.ParserLALR1:
		return parse.GenerateLALR1Parser(g)
	case types.ParserCLR1:
		return parse.GenerateCanonicalLR1Parser(g)
	case types.ParserSLR1:
		p, _, err := parse.GenerateSimpleLRParser(g, false)
		return p, err
	default:
		return nil, fmt.Errorf("snapshot: unsupported parser type %q", s.ParserType)
	}
}
