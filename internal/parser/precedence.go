package parser

import "github.com/jactl-lang/jactl/internal/token"

// Precedence levels, lowest to highest (§4.C "a table of precedence
// levels, each with an associativity flag"). ~15 levels as the spec
// calls for; unary occupies its own dedicated level with the
// cast-recognition branch, postfix (calls/index/field access) sits
// above everything else.
const (
	precLowest int = iota
	precAssign        // = += -= *= ... (right-assoc)
	precTernary       // ?: (right-assoc)
	precNullCoalesce  // ??
	precOr            // || or
	precAnd           // && and
	precBitOr         // |
	precBitXor        // ^
	precBitAnd        // &
	precEquality      // == != === !== =~ !~
	precRelational    // < <= > >= <=> in !in instanceof
	precShift         // << >> >>>
	precAdditive      // + -
	precMultiplicative // * / %
	precUnary         // unary - ! ~ ++ -- cast
	precPostfix       // ++ -- () [] . ?. ?[
)

var binaryPrecedence = map[token.Type]int{
	token.ASSIGN: precAssign, token.PLUS_EQ: precAssign, token.MINUS_EQ: precAssign,
	token.STAR_EQ: precAssign, token.SLASH_EQ: precAssign, token.PERCENT_EQ: precAssign,
	token.AMP_EQ: precAssign, token.PIPE_EQ: precAssign, token.CARET_EQ: precAssign,
	token.SHL_EQ: precAssign, token.SHR_EQ: precAssign, token.USHR_EQ: precAssign,
	token.QUESTION_EQ: precAssign,

	token.QUESTION: precTernary,

	token.RE_MATCH: precEquality, token.RE_NMTCH: precEquality,

	token.QCOLON: precNullCoalesce,

	token.OR: precOr, token.KW_OR: precOr,
	token.AND: precAnd, token.KW_AND: precAnd,

	token.PIPE:  precBitOr,
	token.CARET: precBitXor,
	token.AMP:   precBitAnd,

	token.EQ: precEquality, token.NEQ: precEquality, token.TEQ: precEquality, token.TNEQ: precEquality,

	token.LT: precRelational, token.LE: precRelational, token.GT: precRelational, token.GE: precRelational,
	token.CMP: precRelational, token.KW_IN: precRelational, token.KW_NOT_IN: precRelational,
	token.KW_INSTANCEOF: precRelational,

	token.SHL: precShift, token.SHR: precShift, token.USHR: precShift,

	token.PLUS: precAdditive, token.MINUS: precAdditive,

	token.STAR: precMultiplicative, token.SLASH: precMultiplicative, token.PERCENT: precMultiplicative,

	token.INCR: precPostfix, token.DECR: precPostfix,
	token.DOT: precPostfix, token.QDOT: precPostfix,
	token.LBRACKET: precPostfix, token.QBRACKET: precPostfix,
	token.LPAREN: precPostfix,
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := binaryPrecedence[p.peek.Type]; ok {
		return pr
	}
	return precLowest
}

var assignOps = map[token.Type]bool{
	token.PLUS_EQ: true, token.MINUS_EQ: true, token.STAR_EQ: true, token.SLASH_EQ: true,
	token.PERCENT_EQ: true, token.AMP_EQ: true, token.PIPE_EQ: true, token.CARET_EQ: true,
	token.SHL_EQ: true, token.SHR_EQ: true, token.USHR_EQ: true, token.QUESTION_EQ: true,
}

// compoundOpFor maps a compound-assignment token to the underlying
// binary operator used in the rewritten `Noop op RHS` (§4.C "Lvalue
// rewriting").
var compoundOpFor = map[token.Type]token.Type{
	token.PLUS_EQ: token.PLUS, token.MINUS_EQ: token.MINUS, token.STAR_EQ: token.STAR,
	token.SLASH_EQ: token.SLASH, token.PERCENT_EQ: token.PERCENT,
	token.AMP_EQ: token.AMP, token.PIPE_EQ: token.PIPE, token.CARET_EQ: token.CARET,
	token.SHL_EQ: token.SHL, token.SHR_EQ: token.SHR, token.USHR_EQ: token.USHR,
	token.QUESTION_EQ: token.QCOLON,
}
