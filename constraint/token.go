package constraint

// tokenKind enumerates the lexical categories of the restricted
// arithmetic/boolean sublanguage (spec.md §4.1).
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokDot // "."

	tokPlus
	tokMinus
	tokStar
	tokSlashSlash // "//"
	tokPercent

	tokEq    // "=="
	tokNe    // "!="
	tokLt    // "<"
	tokLe    // "<="
	tokGt    // ">"
	tokGe    // ">="
	tokAssign // "="

	tokLParen
	tokRParen

	// keywords
	tokAnd
	tokOr
	tokNot
	tokIs
	tokIn
	tokNone
	tokTrue
	tokFalse
	tokIf
	tokElse
	tokElif
	tokEnd
	tokFor
	tokWhile
	tokColon
	tokNewline
)

var keywords = map[string]tokenKind{
	"and":   tokAnd,
	"or":    tokOr,
	"not":   tokNot,
	"is":    tokIs,
	"in":    tokIn,
	"None":  tokNone,
	"True":  tokTrue,
	"False": tokFalse,
	"if":    tokIf,
	"else":  tokElse,
	"elif":  tokElif,
	"end":   tokEnd,
	"for":   tokFor,
	"while": tokWhile,
}

type token struct {
	kind   tokenKind
	text   string
	ival   int64
	offset int
}
