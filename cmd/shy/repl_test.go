package main

import "testing"

func TestNeedsMoreInputTracksOpenParens(t *testing.T) {
	if !needsMoreInput("min(1, 2") {
		t.Fatalf("expected unclosed paren to need more input")
	}
	if needsMoreInput("min(1, 2)") {
		t.Fatalf("expected closed paren to be complete")
	}
}

func TestNeedsMoreInputTracksStringLiterals(t *testing.T) {
	if !needsMoreInput(`name = "unterminated`) {
		t.Fatalf("expected unterminated string to need more input")
	}
	if needsMoreInput(`name = "done"`) {
		t.Fatalf("expected terminated string to be complete")
	}
}

func TestNeedsMoreInputIgnoresEscapedQuotes(t *testing.T) {
	if needsMoreInput(`name = "escaped \" quote done"`) {
		t.Fatalf("expected the quote after an escaped quote to close the string")
	}
}
