package ast

import "github.com/jactl-lang/jactl/internal/token"

// PatternKind discriminates the switch-case pattern forms of §4.C
// ("patterns may be literals, types..., regex, _ wildcard, binding
// identifiers, list/map patterns, capture-group identifiers, or $
// expression blocks").
type PatternKind int

const (
	PatternLiteral PatternKind = iota
	PatternType
	PatternRegex
	PatternWildcard // _
	PatternBinding  // plain identifier that binds the matched value
	PatternList
	PatternMap
	PatternCapture // named capture-group identifier bound by a sibling regex pattern
	PatternExprBlock // `$ expr`
)

// Pattern is one switch-case pattern.
type Pattern struct {
	At   token.Pos
	Kind PatternKind

	Literal Expression // PatternLiteral: must be a constant expression

	TypeName string     // PatternType
	CtorArgs []Pattern  // PatternType: optional constructor-argument pattern

	Regex string // PatternRegex

	BindingName string // PatternBinding / PatternCapture

	ListElems []Pattern // PatternList
	MapEntries map[string]Pattern // PatternMap

	ExprBlock Expression // PatternExprBlock
}

func (p Pattern) Pos() token.Pos { return p.At }

// Case is one `patterns [if guard] -> body` arm.
type Case struct {
	At       token.Pos
	Patterns []Pattern
	Guard    Expression // may be nil
	Body     Expression
}

// Switch is `switch (subject) { case... }`. Per the end-to-end scenario
// in §8 ("switch (x) {...} with x = 1 -> \"low\""), switch is an
// expression that evaluates to the matched case's body value, not a
// bare statement. The parser rejects a switch containing two
// equal-valued literal patterns (§4.C: "Literal patterns must be unique
// across the switch", §8 "Switch pattern uniqueness").
type Switch struct {
	ExprBase
	Subject Expression
	Cases   []Case
	Default *Case // nil if no `_ ->` / default arm present
}

func (s *Switch) ExprKind() ExprKind { return ExprSwitch }
