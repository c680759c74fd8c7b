// Package search implements full-text search over session log files with
// boolean query support:
//
//   - `error` - single term
//   - `error bash` - implicit AND (both must match)
//   - `error AND bash` - explicit AND
//   - `error OR warning` - explicit OR
//   - `error AND bash OR write` - mixed (AND binds tighter than OR)
package search

import "strings"

type tokenKind int

const (
	tokenTerm tokenKind = iota
	tokenAnd
	tokenOr
)

type token struct {
	kind tokenKind
	text string
}

// Expr is a parsed boolean search expression. Terms match as
// case-insensitive substrings.
type Expr interface {
	// Matches reports whether the expression matches the given line.
	Matches(line string) bool
	matchesLower(lower string) bool
	// Terms returns all search terms in the expression, left to right.
	Terms() []string
}

type termExpr struct{ term string }

type andExpr struct{ left, right Expr }

type orExpr struct{ left, right Expr }

func (e termExpr) Matches(line string) bool { return e.matchesLower(strings.ToLower(line)) }
func (e andExpr) Matches(line string) bool  { return e.matchesLower(strings.ToLower(line)) }
func (e orExpr) Matches(line string) bool   { return e.matchesLower(strings.ToLower(line)) }

func (e termExpr) matchesLower(lower string) bool { return strings.Contains(lower, e.term) }
func (e andExpr) matchesLower(lower string) bool {
	return e.left.matchesLower(lower) && e.right.matchesLower(lower)
}
func (e orExpr) matchesLower(lower string) bool {
	return e.left.matchesLower(lower) || e.right.matchesLower(lower)
}

func (e termExpr) Terms() []string { return []string{e.term} }
func (e andExpr) Terms() []string  { return append(e.left.Terms(), e.right.Terms()...) }
func (e orExpr) Terms() []string   { return append(e.left.Terms(), e.right.Terms()...) }

// Parse parses a query string into an Expr. Returns nil for queries with
// no usable terms (empty, whitespace-only, or operators only).
//
// Grammar (implicit AND between adjacent terms, AND binds tighter than OR):
//
//	expr     -> orExpr
//	orExpr   -> andExpr ("OR" andExpr)*
//	andExpr  -> term (["AND"] term)*
func Parse(query string) Expr {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}
	pos := 0
	return parseOrExpr(tokens, &pos)
}

// tokenize splits the query into terms and operators. Uppercase AND/OR
// are operators, everything else is a lowercased term.
func tokenize(query string) []token {
	var tokens []token
	for _, word := range strings.Fields(query) {
		switch word {
		case "AND":
			tokens = append(tokens, token{kind: tokenAnd})
		case "OR":
			tokens = append(tokens, token{kind: tokenOr})
		default:
			tokens = append(tokens, token{kind: tokenTerm, text: strings.ToLower(word)})
		}
	}
	return tokens
}

func parseOrExpr(tokens []token, pos *int) Expr {
	left := parseAndExpr(tokens, pos)
	if left == nil {
		return nil
	}

	for *pos < len(tokens) && tokens[*pos].kind == tokenOr {
		*pos++
		// Trailing OR with nothing after it is ignored
		right := parseAndExpr(tokens, pos)
		if right == nil {
			break
		}
		left = orExpr{left: left, right: right}
	}

	return left
}

func parseAndExpr(tokens []token, pos *int) Expr {
	left := parseTerm(tokens, pos)
	if left == nil {
		return nil
	}

	for *pos < len(tokens) {
		switch tokens[*pos].kind {
		case tokenAnd:
			*pos++
			right := parseTerm(tokens, pos)
			if right == nil {
				return left
			}
			left = andExpr{left: left, right: right}
		case tokenTerm:
			// Implicit AND between adjacent terms
			right := parseTerm(tokens, pos)
			if right == nil {
				return left
			}
			left = andExpr{left: left, right: right}
		default:
			return left
		}
	}

	return left
}

func parseTerm(tokens []token, pos *int) Expr {
	if *pos >= len(tokens) {
		return nil
	}
	switch tokens[*pos].kind {
	case tokenTerm:
		t := termExpr{term: tokens[*pos].text}
		*pos++
		return t
	default:
		// Orphan operator, skip it and try the next token
		*pos++
		return parseTerm(tokens, pos)
	}
}
