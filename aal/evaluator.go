package aal

import "strconv"

// evaluate reduces a flat token slice to exactly one value. With autoDeclare
// unknown identifiers become fresh null bindings and block literals run
// immediately; without it they are errors and deferred blocks respectively.
func (e *Engine) evaluate(tokens []Token, autoDeclare bool) (*Value, error) {
	switch {
	case len(tokens) == 0:
		return e.null, nil
	case len(tokens) == 1:
		return e.evalImmediate(tokens[0], autoDeclare)
	case tokens[0].is(tokenIdent) && tokens[1].is(tokenLBracket):
		return e.evalIndex(tokens, autoDeclare)
	case tokens[0].is(tokenIdent) && tokens[1].is(tokenLParen):
		return e.evalCall(tokens)
	}

	for _, tok := range tokens {
		if tok.is(tokenArithmetic) {
			return nil, e.parseErrorAt(tok, "unsupported syntax: infix operator '%s' (use add/sub/mul/div)", tok.Literal)
		}
	}
	return nil, e.parseErrorAt(tokens[1], "unexpected token '%s' %s", tokens[1].Literal, tokens[1].Type)
}

func (e *Engine) evalImmediate(tok Token, autoDeclare bool) (*Value, error) {
	switch tok.Type {
	case tokenIdent:
		return e.lookupIdentifier(tok, autoDeclare)
	case tokenNumber:
		f, err := strconv.ParseFloat(tok.Literal, 32)
		if err != nil {
			return nil, e.parseErrorAt(tok, "malformed number literal '%s'", tok.Literal)
		}
		return NewNumber(float32(f)), nil
	case tokenString:
		return NewString(tok.Literal), nil
	case tokenBlock:
		if autoDeclare {
			return e.executeBlock(tok.Literal)
		}
		return NewBlock(tok.Literal), nil
	default:
		return nil, e.parseErrorAt(tok, "unexpected token '%s' %s", tok.Literal, tok.Type)
	}
}

func (e *Engine) lookupIdentifier(tok Token, autoDeclare bool) (*Value, error) {
	if val, ok := e.globals.Get(tok.Literal); ok {
		return val, nil
	}
	if _, ok := e.functions[tok.Literal]; ok {
		return nil, e.parseErrorAt(tok, "%s is a function; call it as %s()", tok.Literal, tok.Literal)
	}
	if !autoDeclare {
		return nil, e.parseErrorAt(tok, "unknown identifier '%s'", tok.Literal)
	}
	// Always a fresh cell: the shared null must never become a binding.
	val := NewNull()
	e.globals.Define(tok.Literal, val)
	return val, nil
}

// evalIndex handles `name[expr]`.
func (e *Engine) evalIndex(tokens []Token, autoDeclare bool) (*Value, error) {
	closing, err := e.matchClose(tokens, 1, tokenLBracket, tokenRBracket)
	if err != nil {
		return nil, err
	}
	if closing != len(tokens)-1 {
		return nil, e.parseErrorAt(tokens[closing+1], "unexpected token '%s' after index expression", tokens[closing+1].Literal)
	}

	if closing == 2 {
		return nil, e.parseErrorAt(tokens[1], "empty index expression")
	}
	key, err := e.evaluate(tokens[2:closing], false)
	if err != nil {
		return nil, err
	}
	if key.kind == KindMap {
		return nil, e.scriptError(RuntimeError, tokens[2].Pos, "map key cannot be a map")
	}

	// The base only becomes a map once the key is known to be valid.
	base, err := e.evalImmediate(tokens[0], autoDeclare)
	if err != nil {
		return nil, err
	}
	if base.kind != KindMap {
		if !autoDeclare {
			return nil, e.scriptError(RuntimeError, tokens[0].Pos, "%s is a %s, not a map", tokens[0].Literal, base.kind)
		}
		if base == e.null {
			return nil, e.scriptError(RuntimeError, tokens[0].Pos, "cannot index the null value")
		}
		base.AssignInPlace(NewMap())
	}

	if entry, ok := base.m.Get(key.String()); ok {
		return entry, nil
	}
	if !autoDeclare {
		return e.null, nil
	}
	entry := NewNull()
	base.m.Set(key.String(), entry)
	return entry, nil
}

// evalCall handles `name(arg, ...)`.
func (e *Engine) evalCall(tokens []Token) (*Value, error) {
	closing, err := e.matchClose(tokens, 1, tokenLParen, tokenRParen)
	if err != nil {
		return nil, err
	}
	if closing != len(tokens)-1 {
		return nil, e.parseErrorAt(tokens[closing+1], "unexpected token '%s' after call to %s()", tokens[closing+1].Literal, tokens[0].Literal)
	}

	argTokens, err := e.splitArguments(tokens[2:closing])
	if err != nil {
		return nil, err
	}
	args := make([]*Value, 0, len(argTokens))
	for _, arg := range argTokens {
		val, err := e.evalArgument(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return e.call(tokens[0], args)
}

// evalArgument evaluates one call argument. Bare identifiers auto-declare so
// sink variables (foreach keys and values) need no prior assignment; block
// literals stay deferred.
func (e *Engine) evalArgument(tokens []Token) (*Value, error) {
	if len(tokens) == 1 && tokens[0].is(tokenIdent) {
		return e.lookupIdentifier(tokens[0], true)
	}
	return e.evaluate(tokens, false)
}

// splitArguments splits the interior of a call at top-level commas.
func (e *Engine) splitArguments(tokens []Token) ([][]Token, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	var (
		args  [][]Token
		start int
		depth int
	)
	for i, tok := range tokens {
		switch tok.Type {
		case tokenLParen, tokenLBracket:
			depth++
		case tokenRParen, tokenRBracket:
			depth--
		case tokenComma:
			if depth != 0 {
				continue
			}
			if i == start {
				return nil, e.parseErrorAt(tok, "empty argument")
			}
			args = append(args, tokens[start:i])
			start = i + 1
		}
	}
	if start == len(tokens) {
		return nil, e.parseErrorAt(tokens[len(tokens)-1], "empty argument")
	}
	return append(args, tokens[start:]), nil
}

// matchClose finds the token closing the opener at index open.
func (e *Engine) matchClose(tokens []Token, open int, opener, closer TokenType) (int, error) {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i].Type {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	if opener == tokenLParen {
		return -1, e.parseErrorAt(tokens[open], "mismatched parenthesis")
	}
	return -1, e.parseErrorAt(tokens[open], "mismatched bracket")
}
