package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dekarrin/ictiobus"
	"github.com/dekarrin/ictiobus/lex"
	"github.com/dekarrin/ictiobus/types"
)

// lexConfig is the on-disk TOML shape of a lexer pattern file: one token
// class per entry plus the patterns that produce it, grouped by the lexer
// state they fire in (the empty string is the default start state).
type lexConfig struct {
	Format string `toml:"format"`

	Classes []classConfig `toml:"classes"`
	Rules   []ruleConfig  `toml:"rules"`
}

type classConfig struct {
	ID string `toml:"id"`
}

type ruleConfig struct {
	State    string `toml:"state"`
	Pattern  string `toml:"pattern"`
	Class    string `toml:"class"`
	SwapTo   string `toml:"swap_to"`
	Discard  bool   `toml:"discard"`
	Priority int    `toml:"priority"`
}

// loadLexerFile reads a TOML lexer pattern file from path and builds a Lexer
// from it. lazy selects the kind of lexer returned, matching
// ictiobus.NewLexer/NewLazyLexer.
func loadLexerFile(path string, lazy bool) (ictiobus.Lexer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%q: reading from disk: %w", path, err)
	}

	var cfg lexConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%q: parsing lexer config: %w", path, err)
	}

	lx := lex.NewLexer(lazy)

	// a class may be the target of rules in more than one state; register it
	// under every state a rule actually references so AddPattern's
	// class-is-registered check passes regardless of which one fires it.
	states := map[string]bool{"": true}
	for _, r := range cfg.Rules {
		states[r.State] = true
	}

	for _, c := range cfg.Classes {
		class := types.MakeDefaultClass(c.ID)
		for state := range states {
			lx.RegisterClass(class, state)
		}
	}

	for _, r := range cfg.Rules {
		var action lex.Action
		switch {
		case r.Discard && r.SwapTo != "":
			action = lex.SwapState(r.SwapTo)
		case r.Discard:
			action = lex.Discard()
		case r.SwapTo != "":
			action = lex.LexAndSwapState(r.Class, r.SwapTo)
		default:
			action = lex.LexAs(r.Class)
		}

		if err := lx.AddPattern(r.Pattern, action, r.State, r.Priority); err != nil {
			return nil, fmt.Errorf("%q: rule %q: %w", path, r.Pattern, err)
		}
	}

	return lx, nil
}
