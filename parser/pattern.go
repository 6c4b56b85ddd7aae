package parser

import (
	"github.com/kodjodevf/js-interpreter-sub006/ast"
	"github.com/kodjodevf/js-interpreter-sub006/token"
)

// parseBindingTarget parses a BindingIdentifier or BindingPattern with no
// default value attached; callers that allow a default
// (array/object elements, function parameters) use parseBindingElement.
func (p *Parser) parseBindingTarget() ast.Pattern {
	switch {
	case p.at(token.LBRACKET):
		return p.parseArrayPattern()
	case p.at(token.LBRACE):
		return p.parseObjectPattern()
	default:
		return p.parseIdentifierPattern()
	}
}

func (p *Parser) parseIdentifierPattern() *ast.IdentifierPattern {
	t := p.cur()
	if t.Kind != token.IDENT {
		if t.Kind.IsKeyword() {
			p.fail("unexpected keyword %q in binding position", t.Lexeme)
		}
		p.fail("expected binding identifier but found %s", t.Kind)
	}
	p.checkBindingIdentifierName(t)
	p.advance()
	id := &ast.IdentifierPattern{Name: t.Lexeme}
	id.Base = ast.NewBase(t.Start)
	return id
}

// checkBindingIdentifierName rejects `eval`/`arguments` bindings in
// strict-mode code and `yield`/`await` in contexts where they are
// disallowed as identifiers.
func (p *Parser) checkBindingIdentifierName(t token.Token) {
	if p.ctx.strict && (t.Lexeme == "eval" || t.Lexeme == "arguments") {
		p.failAt(t.Start, "cannot bind %q in strict mode", t.Lexeme)
	}
	if p.ctx.strict && t.Lexeme == "yield" {
		p.failAt(t.Start, "'yield' is a reserved identifier in strict mode")
	}
	if p.ctx.generator && t.Lexeme == "yield" {
		p.failAt(t.Start, "'yield' is not allowed as an identifier inside a generator")
	}
	if p.ctx.async && t.Lexeme == "await" {
		p.failAt(t.Start, "'await' is not allowed as an identifier inside an async function")
	}
}

// parseBindingElement parses a BindingTarget optionally followed by a
// default initializer, used for array elements, object property values,
// and function parameters.
func (p *Parser) parseBindingElement() ast.Pattern {
	start := p.cur().Start
	target := p.parseBindingTarget()
	if p.at(token.ASSIGN) {
		p.advance()
		def := p.parseAssignmentExpression()
		return &ast.AssignmentPattern{ast.PatternBase{Base: ast.NewBase(start)}, target, def}
	}
	return target
}

func (p *Parser) parseArrayPattern() *ast.ArrayPattern {
	start := p.expect(token.LBRACKET).Start
	var elems []ast.ArrayPatternElement
	for !p.at(token.RBRACKET) {
		if p.at(token.COMMA) {
			elems = append(elems, ast.ArrayPatternElement{})
			p.advance()
			continue
		}
		if p.at(token.DOT_DOT_DOT) {
			rstart := p.advance().Start
			target := p.parseBindingTarget()
			rest := &ast.RestElement{Argument: target}
			rest.Base = ast.NewBase(rstart)
			elems = append(elems, ast.ArrayPatternElement{Pattern: rest, Rest: true})
			break
		}
		elems = append(elems, ast.ArrayPatternElement{Pattern: p.parseBindingElement()})
		if !p.at(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayPattern{ast.PatternBase{Base: ast.NewBase(start)}, elems}
}

func (p *Parser) parseObjectPattern() *ast.ObjectPattern {
	start := p.expect(token.LBRACE).Start
	var props []ast.ObjectPatternProperty
	var rest ast.Pattern
	for !p.at(token.RBRACE) {
		if p.at(token.DOT_DOT_DOT) {
			p.advance()
			rest = p.parseIdentifierPattern()
			break
		}
		pstart := p.cur().Start
		key, computed := p.parsePropertyKey()
		if !computed && !p.atAny(token.COLON, token.ASSIGN) {
			// shorthand: `{ x }` or `{ x = default }`
			name, ok := key.(*ast.Identifier)
			if !ok {
				p.failAt(pstart, "invalid shorthand property in object pattern")
			}
			p.checkBindingIdentifierName(token.Token{Kind: token.IDENT, Lexeme: name.Name, Start: name.Pos()})
			target := &ast.IdentifierPattern{Name: name.Name}
			target.Base = ast.NewBase(name.Pos())
			var value ast.Pattern = target
			if p.at(token.ASSIGN) {
				p.advance()
				def := p.parseAssignmentExpression()
				value = &ast.AssignmentPattern{ast.PatternBase{Base: ast.NewBase(pstart)}, target, def}
			}
			props = append(props, ast.ObjectPatternProperty{
				Base: ast.NewBase(pstart), Key: key, Computed: false, Shorthand: true, Value: value,
			})
		} else {
			p.expect(token.COLON)
			value := p.parseBindingElement()
			props = append(props, ast.ObjectPatternProperty{
				Base: ast.NewBase(pstart), Key: key, Computed: computed, Shorthand: false, Value: value,
			})
		}
		if !p.at(token.COMMA) {
			break
		}
		p.advance()
	}
	p.expect(token.RBRACE)
	return &ast.ObjectPattern{ast.PatternBase{Base: ast.NewBase(start)}, props, rest}
}

// parsePropertyKey parses a property/member key shared by object literals,
// object patterns, and class members: an identifier, string, number,
// computed `[expr]`, or private name.
func (p *Parser) parsePropertyKey() (key ast.Expression, computed bool) {
	if p.at(token.LBRACKET) {
		p.advance()
		key = p.parseAssignmentExpression()
		p.expect(token.RBRACKET)
		return key, true
	}
	if p.at(token.PRIVATE_NAME) {
		t := p.advance()
		pi := &ast.PrivateIdentifier{Name: t.Lexeme}
		pi.Base = ast.NewBase(t.Start)
		return pi, false
	}
	t := p.cur()
	switch t.Kind {
	case token.STRING:
		p.advance()
		lit := &ast.Literal{Kind: ast.LitString, Str: t.Literal.String, Raw: t.Literal.Raw}
		lit.Base = ast.NewBase(t.Start)
		return lit, false
	case token.NUMBER:
		p.advance()
		lit := &ast.Literal{Kind: ast.LitNumberValue, Number: t.Literal.Number, Raw: t.Lexeme}
		lit.Base = ast.NewBase(t.Start)
		return lit, false
	default:
		if t.Kind != token.IDENT && !t.Kind.IsKeyword() {
			p.fail("expected property name but found %s", t.Kind)
		}
		p.advance()
		id := &ast.Identifier{Name: t.Lexeme}
		id.Base = ast.NewBase(t.Start)
		return id, false
	}
}

// ---------------------------------------------------------------------
// Expression -> Pattern reinterpretation
// ---------------------------------------------------------------------

// exprToAssignmentTarget converts an already-parsed Expression into the
// Node expected on the left of `=`: a DestructuringAssignment wrapping an
// Array/ObjectPattern, or the original Identifier/MemberExpression.
func (p *Parser) exprToAssignmentTarget(e ast.Expression) ast.Node {
	switch v := e.(type) {
	case *ast.ArrayExpression:
		pat := p.arrayExprToPattern(v)
		dst := &ast.DestructuringAssignment{ast.PatternBase{Base: ast.NewBase(v.Pos())}, pat}
		return dst
	case *ast.ObjectExpression:
		pat := p.objectExprToPattern(v)
		dst := &ast.DestructuringAssignment{ast.PatternBase{Base: ast.NewBase(v.Pos())}, pat}
		return dst
	case *ast.Identifier:
		if p.ctx.strict && (v.Name == "eval" || v.Name == "arguments") {
			p.failAt(v.Pos(), "invalid assignment to %q in strict mode", v.Name)
		}
		return v
	case *ast.MemberExpression:
		return v
	default:
		p.failAt(e.Pos(), "invalid assignment target")
		return nil
	}
}

func (p *Parser) exprElementToPattern(e ast.Expression) ast.Pattern {
	switch v := e.(type) {
	case *ast.Identifier:
		ip := &ast.IdentifierPattern{Name: v.Name}
		ip.Base = ast.NewBase(v.Pos())
		return ip
	case *ast.MemberExpression:
		ep := &ast.ExpressionPattern{Expression: v}
		ep.Base = ast.NewBase(v.Pos())
		return ep
	case *ast.ArrayExpression:
		return p.arrayExprToPattern(v)
	case *ast.ObjectExpression:
		return p.objectExprToPattern(v)
	case *ast.AssignmentExpression:
		if v.Operator != "=" {
			p.failAt(v.Pos(), "invalid destructuring default")
		}
		target := p.patternFromAssignLeft(v.Left)
		return &ast.AssignmentPattern{ast.PatternBase{Base: ast.NewBase(v.Pos())}, target, v.Right}
	default:
		p.failAt(e.Pos(), "invalid destructuring target")
		return nil
	}
}

// patternFromAssignLeft recovers the Pattern already produced for the
// Left side of an AssignmentExpression (exprToAssignmentTarget runs at
// parse time for every `=`, so Left is already pattern-shaped here).
func (p *Parser) patternFromAssignLeft(n ast.Node) ast.Pattern {
	switch v := n.(type) {
	case *ast.DestructuringAssignment:
		return v.Target
	case ast.Expression:
		return p.exprElementToPattern(v)
	default:
		p.fail("invalid destructuring default target")
		return nil
	}
}

func (p *Parser) arrayExprToPattern(ae *ast.ArrayExpression) *ast.ArrayPattern {
	elems := make([]ast.ArrayPatternElement, 0, len(ae.Elements))
	for i, el := range ae.Elements {
		if el == nil {
			elems = append(elems, ast.ArrayPatternElement{})
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			if i != len(ae.Elements)-1 {
				p.failAt(spread.Pos(), "rest element must be last in array pattern")
			}
			target := p.exprElementToPattern(spread.Argument)
			rest := &ast.RestElement{Argument: target}
			rest.Base = ast.NewBase(spread.Pos())
			elems = append(elems, ast.ArrayPatternElement{Pattern: rest, Rest: true})
			continue
		}
		elems = append(elems, ast.ArrayPatternElement{Pattern: p.exprElementToPattern(el)})
	}
	return &ast.ArrayPattern{ast.PatternBase{Base: ast.NewBase(ae.Pos())}, elems}
}

func (p *Parser) objectExprToPattern(oe *ast.ObjectExpression) *ast.ObjectPattern {
	var props []ast.ObjectPatternProperty
	var rest ast.Pattern
	for i, prop := range oe.Properties {
		if prop.Kind == ast.PropSpread {
			if i != len(oe.Properties)-1 {
				p.failAt(prop.Pos(), "rest element must be last in object pattern")
			}
			id, ok := prop.Key.(*ast.Identifier)
			if !ok {
				p.failAt(prop.Pos(), "invalid rest target in object pattern")
			}
			ip := &ast.IdentifierPattern{Name: id.Name}
			ip.Base = ast.NewBase(id.Pos())
			rest = ip
			continue
		}
		if prop.Kind != ast.PropInit {
			p.failAt(prop.Pos(), "invalid object pattern property")
		}
		value := p.exprElementToPattern(prop.Value)
		props = append(props, ast.ObjectPatternProperty{
			Base: ast.NewBase(prop.Pos()), Key: prop.Key, Computed: prop.Computed,
			Shorthand: prop.Shorthand, Value: value,
		})
	}
	return &ast.ObjectPattern{ast.PatternBase{Base: ast.NewBase(oe.Pos())}, props, rest}
}
