// Package parser implements the §4.C recursive-descent grammar: an
// operator-precedence climber with arbitrary-lookahead backtracking for
// the handful of genuinely ambiguous constructs (map vs list vs closure
// vs block, cast vs parenthesised expression, typed-decl vs function
// decl, static class path vs field chain).
package parser

import (
	"fmt"

	"github.com/jactl-lang/jactl/internal/ast"
	"github.com/jactl-lang/jactl/internal/jerr"
	"github.com/jactl-lang/jactl/internal/lexer"
	"github.com/jactl-lang/jactl/internal/token"
)

const maxRecursionDepth = 500

// Parser consumes tokens from a Lexer and builds an AST. A Parser is
// single-use: construct one per compilation unit with New.
type Parser struct {
	lex *lexer.Lexer

	prev, cur, peek token.Token

	arena *ast.Arena

	// ignoreEol is toggled true inside bracketed contexts (parens, square
	// brackets, arrow-preceded blocks, string-interpolation braces) where
	// newlines carry no statement-terminating meaning (§4.C).
	ignoreEol bool

	errors []*jerr.CompileError

	// lookaheadDepth counts the lookahead() probes in progress (§4.C
	// "Snapshot / rewind / lookahead"). Nothing reads it, so no side
	// effect is suppressed during a probe; restore() undoes the probe's
	// token, error-list and arena changes afterwards instead.
	lookaheadDepth int

	depth int // expression recursion guard

	// funcStack tracks the arena index of each lexically-enclosing
	// FuncDecl, innermost last, so every VarDecl created while parsing
	// can be stamped with its OwningFuncIdx (§9 "each declaration knows
	// its owning function"). Empty means script top level. A closure
	// literal pushes a synthetic negative id rather than a FuncDecl
	// arena index (closures aren't registered in the arena's func list)
	// — negative and distinct from the -1 top-level sentinel, so the
	// Resolver's capture check (decl.OwningFuncIdx != current scope id)
	// still correctly tells a closure's own parameters/locals apart from
	// the enclosing function's, which is the whole point of stamping it.
	funcStack   []int
	closureSeq int
}

// currentFuncIdx returns the arena index of the innermost enclosing
// function (or the synthetic id of the innermost enclosing closure), or
// -1 at script top level.
func (p *Parser) currentFuncIdx() int {
	if len(p.funcStack) == 0 {
		return -1
	}
	return p.funcStack[len(p.funcStack)-1]
}

func (p *Parser) pushFunc(idx int) { p.funcStack = append(p.funcStack, idx) }
func (p *Parser) popFunc()         { p.funcStack = p.funcStack[:len(p.funcStack)-1] }

// pushClosureScope allocates a fresh negative scope id for a closure
// literal and pushes it, returning the id so the caller can stamp it on
// the Closure node for the Resolver to push as its own matching scope.
func (p *Parser) pushClosureScope() int {
	p.closureSeq--
	id := p.closureSeq
	p.pushFunc(id)
	return id
}

// newVarDecl constructs a VarDecl stamped with the current function
// context, the single entry point every declaration site in this
// package should use instead of ast.NewVarDecl directly.
func (p *Parser) newVarDecl(at token.Pos, name string, roles ast.Role) *ast.VarDecl {
	decl := ast.NewVarDecl(at, name, roles)
	decl.OwningFuncIdx = p.currentFuncIdx()
	return decl
}

// New creates a Parser reading from lex, attributing diagnostics to file.
func New(file string, lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex, arena: ast.NewArena(), closureSeq: -1}
	p.advance()
	p.advance()
	return p
}

// Arena returns the declaration/closure arena populated while parsing.
func (p *Parser) Arena() *ast.Arena { return p.arena }

// Errors returns the collected parse errors. Parse() has already
// returned an error built from this same list when it is non-empty.
func (p *Parser) Errors() []*jerr.CompileError { return p.errors }

func (p *Parser) advance() {
	p.prev = p.cur
	p.cur = p.peek
	p.peek = p.rawNext()
}

// rawNext pulls the next significant token, folding EOL tokens away
// while ignoreEol is set (bracketed contexts, §4.C).
func (p *Parser) rawNext() token.Token {
	for {
		t := p.lex.Next()
		if t.Type == token.EOL && p.ignoreEol {
			continue
		}
		return t
	}
}

func (p *Parser) curIs(kinds ...token.Type) bool  { return p.cur.Is(kinds...) }
func (p *Parser) peekIs(kinds ...token.Type) bool { return p.peek.Is(kinds...) }

// expect consumes cur if it matches kind, else records an error and
// leaves the cursor in place so the caller's recovery logic can decide
// what to skip.
func (p *Parser) expect(kind token.Type) bool {
	if p.curIs(kind) {
		p.advance()
		return true
	}
	p.errorf("expected %s but found %q", kind, p.cur.Lexeme)
	return false
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, &jerr.CompileError{
		Pos:     p.cur.Pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// skipEol consumes any run of EOL/SEMI tokens at the current position;
// used at points in the grammar that tolerate but don't require a
// statement terminator (e.g. before `else`, after an open brace). SEMI
// is a statement terminator with the same weight as a newline anywhere
// outside a `for(init; cond; update)` header, where it instead survives
// ignoreEol to mark the header's own clause boundaries.
func (p *Parser) skipEol() {
	for p.curIs(token.EOL, token.SEMI) {
		p.advance()
	}
}

// snapshot is the full backtracking checkpoint §4.C calls for: the
// lexer's raw cursor, the parser's token window, the ignoreEol flag and
// the current error-list length (errors raised during a failed
// lookahead are discarded on rewind).
type snapshot struct {
	lex             lexer.Snapshot
	prev, cur, peek token.Token
	ignoreEol       bool
	errLen          int
	arenaSnap       ast.Snapshot
}

func (p *Parser) mark() snapshot {
	return snapshot{
		lex:       p.lex.Mark(),
		prev:      p.prev,
		cur:       p.cur,
		peek:      p.peek,
		ignoreEol: p.ignoreEol,
		errLen:    len(p.errors),
		arenaSnap: p.arena.Snapshot(),
	}
}

func (p *Parser) restore(s snapshot) {
	p.lex.Rewind(s.lex)
	p.prev, p.cur, p.peek = s.prev, s.cur, s.peek
	p.ignoreEol = s.ignoreEol
	p.errors = p.errors[:s.errLen]
	p.arena.Rewind(s.arenaSnap)
}

// lookahead runs each predicate in order (side effects are not
// suppressed), then unconditionally rewinds the token stream,
// error list and arena back to the pre-probe snapshot and returns
// whether every predicate matched (§4.C "Snapshot / rewind /
// lookahead") — a probe only answers a yes/no question, win or lose;
// every caller re-parses for real (or keeps only plain data, like
// not-yet-arena-registered VarDecl structs, captured outside the
// snapshot) once it knows the answer.
func (p *Parser) lookahead(preds ...func() bool) bool {
	s := p.mark()
	p.lookaheadDepth++
	ok := true
	for _, pred := range preds {
		if !pred() || len(p.errors) > s.errLen {
			ok = false
			break
		}
	}
	p.lookaheadDepth--
	p.restore(s)
	return ok
}

// Parse consumes the whole token stream and returns the resulting
// Program. If any parse errors were collected, it returns them wrapped
// in a single *jerr.CompileError (the parser "throws on completion if
// any are present", §4.C).
func Parse(file, source string) (*ast.Program, *ast.Arena, error) {
	lx := lexer.New(file, source)
	p := New(file, lx)
	prog := &ast.Program{File: file}
	p.skipEol()
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipEol()
	}
	if len(p.errors) > 0 {
		return prog, p.arena, jerr.NewCompileErrors(p.errors)
	}
	return prog, p.arena, nil
}
