package lexer

// EventKind classifies a rune of source text into the category the
// state machine reasons about. Several kinds correspond directly to a
// ParserToken (operators, grouping symbols); others must be combined
// with a run of further events to build one (digits, letters).
// Grounded on original_source/src/lexer/lexer_event.rs's LexerEvent enum.
type EventKind byte

const (
	EventBOS EventKind = iota
	EventEOS
	EventSpace
	EventNewline
	EventLetter
	EventDigit
	EventSuperscript
	EventDollarUnderscore
	EventBackslash
	EventSlash
	EventDoubleQuote
	EventEquals
	EventExclamationPoint
	EventExpressionStarter // ( [
	EventExpressionEnder   // ) , ? : ; ]
	EventCaret
	EventPeriod
	EventSign          // + -
	EventMultiplicative // * % ·
	EventComparison     // ≤ ≥ ≠
	EventAngleBracket   // < >
	EventAmpersandBar   // & |
	EventTilde
	EventOther
)

// Event is one classified character of input.
type Event struct {
	Kind EventKind
	Char rune
}

// newEvent classifies a single rune. «/» are the sentinel begin/end
// markers the Rust source borrows from French quotation marks; Go has
// no room for ambiguity with a real source character using them since
// neither appears in shy's own grammar.
func newEvent(c rune) Event {
	switch {
	case c == '«':
		return Event{EventBOS, c}
	case c == '»':
		return Event{EventEOS, c}
	case c == ' ' || c == '\t':
		return Event{EventSpace, c}
	case c == '\n':
		return Event{EventNewline, c}
	case isLetter(c):
		return Event{EventLetter, c}
	case c >= '0' && c <= '9':
		return Event{EventDigit, c}
	case isSuperscript(c):
		return Event{EventSuperscript, c}
	case c == '$' || c == '_':
		return Event{EventDollarUnderscore, c}
	case c == '\\':
		return Event{EventBackslash, c}
	case c == '/':
		return Event{EventSlash, c}
	case c == '"':
		return Event{EventDoubleQuote, c}
	case c == '=':
		return Event{EventEquals, c}
	case c == '!':
		return Event{EventExclamationPoint, c}
	case c == '(' || c == '[':
		return Event{EventExpressionStarter, c}
	case c == ')' || c == ',' || c == '?' || c == ':' || c == ';' || c == ']':
		return Event{EventExpressionEnder, c}
	case c == '^':
		return Event{EventCaret, c}
	case c == '.':
		return Event{EventPeriod, c}
	case c == '+' || c == '-':
		return Event{EventSign, c}
	case c == '*' || c == '%' || c == '·':
		return Event{EventMultiplicative, c}
	case c == '≤' || c == '≥' || c == '≠':
		return Event{EventComparison, c}
	case c == '<' || c == '>':
		return Event{EventAngleBracket, c}
	case c == '&' || c == '|':
		return Event{EventAmpersandBar, c}
	case c == '~':
		return Event{EventTilde, c}
	default:
		return Event{EventOther, c}
	}
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= 'α' && c <= 'ω') || (c >= 'Α' && c <= 'Ω')
}

func isSuperscript(c rune) bool {
	switch c {
	case '¹', '²', '³', '⁴', '⁵', '⁶', '⁷', '⁸', '⁹', '⁰':
		return true
	default:
		return false
	}
}

// superscriptToDigit converts a superscripted digit to its ordinary
// form, leaving every other character unchanged.
func superscriptToDigit(c rune) rune {
	switch c {
	case '¹':
		return '1'
	case '²':
		return '2'
	case '³':
		return '3'
	case '⁴':
		return '4'
	case '⁵':
		return '5'
	case '⁶':
		return '6'
	case '⁷':
		return '7'
	case '⁸':
		return '8'
	case '⁹':
		return '9'
	case '⁰':
		return '0'
	default:
		return c
	}
}

// eventIterator walks a source string one classified Event at a time,
// issuing a synthetic BOS before the first rune and an EOS after the
// last, and supports putting an event back (for one-token lookahead)
// the same way LexerEventIterator does in the Rust source.
type eventIterator struct {
	runes     []rune
	pos       int
	issuedBOS bool
	issuedEOS bool
	position  int
	line      int
	pushedBack []Event
}

func newEventIterator(s string) *eventIterator {
	return &eventIterator{runes: []rune(s), line: 1}
}

// Next returns the next Event, or false once EOS has already been
// issued once.
func (it *eventIterator) Next() (Event, bool) {
	if n := len(it.pushedBack); n > 0 {
		e := it.pushedBack[n-1]
		it.pushedBack = it.pushedBack[:n-1]
		it.position++
		if e.Kind == EventNewline {
			it.line++
		}
		return e, true
	}
	if !it.issuedBOS {
		it.issuedBOS = true
		return Event{Kind: EventBOS}, true
	}
	if it.pos < len(it.runes) {
		c := it.runes[it.pos]
		it.pos++
		it.position++
		if c == '\n' {
			it.line++
		}
		return newEvent(c), true
	}
	if !it.issuedEOS {
		it.issuedEOS = true
		return Event{Kind: EventEOS}, true
	}
	return Event{}, false
}

// PutBack returns an already-consumed event to the front of the queue.
func (it *eventIterator) PutBack(e Event) {
	it.position--
	if e.Kind == EventNewline {
		it.line--
	}
	it.pushedBack = append(it.pushedBack, e)
}

// Peek looks at the next event without consuming it.
func (it *eventIterator) Peek() (Event, bool) {
	e, ok := it.Next()
	if !ok {
		return Event{}, false
	}
	it.PutBack(e)
	return e, true
}

func (it *eventIterator) CurrentPosition() int { return it.position }
func (it *eventIterator) CurrentLine() int     { return it.line }
