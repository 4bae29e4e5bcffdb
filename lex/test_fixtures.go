package lex

import "github.com/dekarrin/ictiobus/types"

// test fixtures for a tiny arithmetic-assignment grammar, shared between
// lazy_test.go and immediate_test.go.
var (
	testClassId     = NewTokenClass("id", "identifier")
	testClassEq     = NewTokenClass("equals", "'='")
	testClassLParen = NewTokenClass("lparen", "'('")
	testClassRParen = NewTokenClass("rparen", "')'")
	testClassInt    = NewTokenClass("int", "integer literal")
	testClassPlus   = NewTokenClass("plus", "'+'")
	testClassMult   = NewTokenClass("mult", "'*'")

	allTestClasses = []types.TokenClass{
		testClassId,
		testClassEq,
		testClassLParen,
		testClassRParen,
		testClassInt,
		testClassPlus,
		testClassMult,
	}
)
