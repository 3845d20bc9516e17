package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-uirenderer/pkg/visibility"
)

// Evaluator is a small visibility rule evaluator for attribute dependencies.
//
// Supported forms:
//   - truthiness: `country`, `!archived`
//   - comparisons: `country == "US"`, `status != 3`, `amount >= 100`
//   - list membership: `labels == 2` is true when the labels list holds 2
//   - composition: `a == true && (b || c)`
//
// Identifiers read the record (dot paths allowed), `row.` reads the current
// table row and `extras.` reads caller context. Parsed rules are cached.
type Evaluator struct {
	cache sync.Map
}

// New returns an Evaluator.
func New() *Evaluator { return &Evaluator{} }

// Eval evaluates rule. An empty rule is visible.
func (e *Evaluator) Eval(attributeID, rule string, ctx visibility.Context) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}
	node, err := e.compile(trimmed)
	if err != nil {
		return false, fmt.Errorf("visibility/expr: %s: %w", attributeID, err)
	}
	ok, err := node.eval(ctx)
	if err != nil {
		return false, fmt.Errorf("visibility/expr: %s: %w", attributeID, err)
	}
	return ok, nil
}

func (e *Evaluator) compile(rule string) (node, error) {
	if cached, ok := e.cache.Load(rule); ok {
		return cached.(node), nil
	}
	tokens, err := tokenize(rule)
	if err != nil {
		return nil, err
	}
	parsed, err := parse(tokens)
	if err != nil {
		return nil, err
	}
	e.cache.Store(rule, parsed)
	return parsed, nil
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokBool
	tokNull
	tokEq
	tokNeq
	tokLt
	tokLte
	tokGt
	tokGte
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	raw  string
}

var operators = []struct {
	text string
	kind tokenKind
}{
	{"==", tokEq},
	{"!=", tokNeq},
	{"<=", tokLte},
	{">=", tokGte},
	{"&&", tokAnd},
	{"||", tokOr},
	{"<", tokLt},
	{">", tokGt},
	{"!", tokNot},
	{"(", tokLParen},
	{")", tokRParen},
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		ch := input[i]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			i++
			continue
		}

		if ch == '"' || ch == '\'' {
			end := i + 1
			for end < len(input) && input[end] != ch {
				if input[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(input) {
				return nil, errors.New("unterminated string literal")
			}
			body := input[i+1 : end]
			if ch == '\'' {
				body = strings.ReplaceAll(body, `"`, `\"`)
				body = strings.ReplaceAll(body, `\'`, `'`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return nil, fmt.Errorf("invalid string literal: %w", err)
			}
			tokens = append(tokens, token{kind: tokString, raw: value})
			i = end + 1
			continue
		}

		matched := false
		for _, op := range operators {
			if strings.HasPrefix(input[i:], op.text) {
				tokens = append(tokens, token{kind: op.kind, raw: op.text})
				i += len(op.text)
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if ch == '=' || ch == '&' || ch == '|' {
			return nil, fmt.Errorf("unexpected %q", string(ch))
		}

		start := i
		for i < len(input) && !strings.ContainsRune(" \t\n\r()!=<>&|", rune(input[i])) {
			i++
		}
		raw := input[start:i]
		switch strings.ToLower(raw) {
		case "true", "false":
			tokens = append(tokens, token{kind: tokBool, raw: strings.ToLower(raw)})
		case "null", "nil":
			tokens = append(tokens, token{kind: tokNull, raw: "null"})
		default:
			if _, err := strconv.ParseFloat(raw, 64); err == nil {
				tokens = append(tokens, token{kind: tokNumber, raw: raw})
			} else {
				tokens = append(tokens, token{kind: tokIdent, raw: raw})
			}
		}
	}
	return tokens, nil
}

type node interface {
	eval(ctx visibility.Context) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(ctx)
}

type andNode struct{ left, right node }

func (n andNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(ctx)
}

type notNode struct{ inner node }

func (n notNode) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	return !ok, err
}

type truthyNode struct{ ident string }

func (n truthyNode) eval(ctx visibility.Context) (bool, error) {
	value, _ := lookup(ctx, n.ident)
	return truthy(value), nil
}

type compareNode struct {
	ident string
	op    tokenKind
	lit   token
}

func (n compareNode) eval(ctx visibility.Context) (bool, error) {
	value, _ := lookup(ctx, n.ident)

	if list, ok := value.([]any); ok && (n.op == tokEq || n.op == tokNeq) && n.lit.kind != tokNull {
		found := false
		for _, item := range list {
			if equalLiteral(item, n.lit) {
				found = true
				break
			}
		}
		return found == (n.op == tokEq), nil
	}

	switch n.op {
	case tokEq:
		return equalLiteral(value, n.lit), nil
	case tokNeq:
		return !equalLiteral(value, n.lit), nil
	}

	if n.lit.kind != tokNumber {
		return false, fmt.Errorf("operator %s needs a number literal", opText(n.op))
	}
	want, _ := strconv.ParseFloat(n.lit.raw, 64)
	got, ok := coerceNumber(value)
	if !ok {
		return false, nil
	}
	switch n.op {
	case tokLt:
		return got < want, nil
	case tokLte:
		return got <= want, nil
	case tokGt:
		return got > want, nil
	case tokGte:
		return got >= want, nil
	default:
		return false, fmt.Errorf("unsupported operator %s", opText(n.op))
	}
}

func equalLiteral(value any, lit token) bool {
	switch lit.kind {
	case tokNull:
		return value == nil || value == ""
	case tokBool:
		got, _ := coerceBool(value)
		return got == (lit.raw == "true")
	case tokNumber:
		want, _ := strconv.ParseFloat(lit.raw, 64)
		got, ok := coerceNumber(value)
		return ok && got == want
	default:
		return coerceString(value) == lit.raw
	}
}

func opText(kind tokenKind) string {
	for _, op := range operators {
		if op.kind == kind {
			return op.text
		}
	}
	return "?"
}

type stream struct {
	tokens []token
	pos    int
}

func parse(tokens []token) (node, error) {
	if len(tokens) == 0 {
		return nil, errors.New("empty expression")
	}
	s := &stream{tokens: tokens}
	n, err := s.parseOr()
	if err != nil {
		return nil, err
	}
	if s.pos < len(s.tokens) {
		return nil, fmt.Errorf("unexpected token %q", s.tokens[s.pos].raw)
	}
	return n, nil
}

func (s *stream) parseOr() (node, error) {
	left, err := s.parseAnd()
	if err != nil {
		return nil, err
	}
	for s.match(tokOr) {
		right, err := s.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (s *stream) parseAnd() (node, error) {
	left, err := s.parseUnary()
	if err != nil {
		return nil, err
	}
	for s.match(tokAnd) {
		right, err := s.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (s *stream) parseUnary() (node, error) {
	if s.match(tokNot) {
		inner, err := s.parseUnary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return s.parsePrimary()
}

func (s *stream) parsePrimary() (node, error) {
	if s.match(tokLParen) {
		inner, err := s.parseOr()
		if err != nil {
			return nil, err
		}
		if !s.match(tokRParen) {
			return nil, errors.New("missing closing ')'")
		}
		return inner, nil
	}

	if s.pos >= len(s.tokens) {
		return nil, errors.New("unexpected end of expression")
	}
	ident := s.tokens[s.pos]
	if ident.kind != tokIdent {
		return nil, fmt.Errorf("expected identifier, got %q", ident.raw)
	}
	s.pos++

	if s.pos < len(s.tokens) {
		switch op := s.tokens[s.pos].kind; op {
		case tokEq, tokNeq, tokLt, tokLte, tokGt, tokGte:
			s.pos++
			if s.pos >= len(s.tokens) {
				return nil, errors.New("missing literal")
			}
			lit := s.tokens[s.pos]
			s.pos++
			switch lit.kind {
			case tokString, tokNumber, tokBool, tokNull:
			case tokIdent:
				lit.kind = tokString
			default:
				return nil, fmt.Errorf("expected literal, got %q", lit.raw)
			}
			return compareNode{ident: ident.raw, op: op, lit: lit}, nil
		}
	}
	return truthyNode{ident: ident.raw}, nil
}

func (s *stream) match(kind tokenKind) bool {
	if s.pos < len(s.tokens) && s.tokens[s.pos].kind == kind {
		s.pos++
		return true
	}
	return false
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	lower := strings.ToLower(key)
	switch {
	case strings.HasPrefix(lower, "extras."):
		return lookupPath(ctx.Extras, key[len("extras."):])
	case strings.HasPrefix(lower, "row."):
		return lookupPath(ctx.Row, key[len("row."):])
	default:
		return lookupPath(ctx.Values, key)
	}
}

func lookupPath(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}
	var current any = values
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		n, ok := coerceNumber(value)
		return !ok || n != 0
	}
}

func coerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	default:
		return truthy(value), true
	}
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
