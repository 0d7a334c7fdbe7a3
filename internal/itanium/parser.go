package itanium

import (
	"strconv"
	"strings"
)

// maxDepth bounds grammar recursion. Rules only recurse after consuming
// input, so this is a backstop against pathological nesting rather than a
// limit honest symbols ever approach.
const maxDepth = 512

// demangler holds the state of one parse: the cursor, the substitution
// table, and the innermost template argument list for <template-param>
// resolution. A demangler is used for exactly one input and discarded.
type demangler struct {
	cur   cursor
	subs  substitutions
	depth int

	// Innermost <template-args> parsed so far; T_ references resolve here.
	templateArgs []Node

	// Member qualifiers of the most recently parsed nested-name. They
	// belong to the function encoding, not the name itself.
	nameQuals CVQualifiers
	nameRef   RefQualifier
}

func newDemangler(input string) *demangler {
	return &demangler{cur: cursor{input: input}}
}

func (d *demangler) enter() error {
	d.depth++
	if d.depth > maxDepth {
		return ErrTooDeep
	}
	return nil
}

func (d *demangler) leave() { d.depth-- }

// parseEncoding parses <encoding>: a data name, a function name followed by
// its bare function type, or a special name. It stops at end of input or at
// an 'E' terminator (for local-name scopes).
func (d *demangler) parseEncoding() (Node, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	switch d.cur.peek() {
	case 'T', 'G':
		return d.parseSpecialName()
	}

	name, err := d.parseName()
	if err != nil {
		return nil, err
	}
	if d.cur.eof() || d.cur.peek() == 'E' {
		return name, nil
	}

	fn := &FunctionSymbol{Name: name, Quals: d.nameQuals, Ref: d.nameRef}
	if returnTypeEncoded(name) {
		fn.Return, err = d.parseType()
		if err != nil {
			return nil, err
		}
	}
	var params []Node
	for !d.cur.eof() && d.cur.peek() != 'E' {
		t, err := d.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, t)
	}
	if len(params) == 1 && isVoid(params[0]) {
		params = nil
	}
	fn.Params = params
	return fn, nil
}

// returnTypeEncoded reports whether the bare function type of a symbol with
// this name carries an explicit return type: template functions do, except
// constructors, destructors, and conversion operators.
func returnTypeEncoded(name Node) bool {
	switch t := name.(type) {
	case *Template:
		switch t.Base.Kind() {
		case NodeKindCtor, NodeKindDtor, NodeKindConversionOperator:
			return false
		}
		return true
	case *Qualified:
		return returnTypeEncoded(t.Name)
	case *LocalName:
		return returnTypeEncoded(t.Entity)
	}
	return false
}

func isVoid(n Node) bool {
	bt, ok := n.(*BuiltinType)
	return ok && bt.Name == "void"
}

// parseName parses <name>.
func (d *demangler) parseName() (Node, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	d.nameQuals = CVQualifiers{}
	d.nameRef = RefQualifierNone

	switch d.cur.peek() {
	case 0:
		return nil, ErrUnexpectedEnd
	case 'N':
		return d.parseNestedName()
	case 'Z':
		return d.parseLocalName()
	}

	// <unscoped-template-name> ::= <substitution>
	if d.cur.peek() == 'S' && d.cur.peekAt(1) != 't' {
		sub, err := d.parseSubstitution()
		if err != nil {
			return nil, err
		}
		if d.cur.peek() != 'I' {
			return sub, nil
		}
		args, err := d.parseTemplateArgs()
		if err != nil {
			return nil, err
		}
		d.templateArgs = args
		return &Template{Base: sub, Args: args}, nil
	}

	var n Node
	if d.cur.consume("St") {
		u, err := d.parseUnqualifiedName(nil)
		if err != nil {
			return nil, err
		}
		n = &Qualified{Scope: stdScope(), Name: u}
	} else {
		u, err := d.parseUnqualifiedName(nil)
		if err != nil {
			return nil, err
		}
		n = u
	}

	if d.cur.peek() == 'I' {
		// The template name on its own is a substitution candidate.
		d.subs.add(n)
		args, err := d.parseTemplateArgs()
		if err != nil {
			return nil, err
		}
		d.templateArgs = args
		n = &Template{Base: n, Args: args}
	}
	return n, nil
}

// parseNestedName parses N [<CV>] [<ref>] <prefix> <unqualified-name> E.
// Every prefix step is recorded in the substitution table; the complete
// name is not a candidate and is popped again at the closing E.
func (d *demangler) parseNestedName() (Node, error) {
	d.cur.next() // 'N'

	quals := d.parseCVQualifiers()
	ref := RefQualifierNone
	switch d.cur.peek() {
	case 'R':
		d.cur.next()
		ref = RefQualifierLValue
	case 'O':
		d.cur.next()
		ref = RefQualifierRValue
	}

	var cur, lastAdded Node
	for {
		switch c := d.cur.peek(); {
		case c == 0:
			return nil, ErrUnexpectedEnd
		case c == 'E':
			d.cur.next()
			if cur == nil {
				return nil, ErrInvalidMangled
			}
			if lastAdded == cur {
				d.subs.pop()
			}
			d.nameQuals = quals
			d.nameRef = ref
			return cur, nil
		case c == 'I':
			if cur == nil {
				return nil, ErrInvalidMangled
			}
			args, err := d.parseTemplateArgs()
			if err != nil {
				return nil, err
			}
			d.templateArgs = args
			cur = &Template{Base: cur, Args: args}
			d.subs.add(cur)
			lastAdded = cur
		case c == 'S':
			// A substitution can only open the prefix chain.
			if cur != nil {
				return nil, ErrInvalidMangled
			}
			sub, err := d.parseSubstitution()
			if err != nil {
				return nil, err
			}
			cur = sub
		case c == 'T':
			if cur != nil {
				return nil, ErrInvalidMangled
			}
			tp, err := d.parseTemplateParam()
			if err != nil {
				return nil, err
			}
			cur = tp
			d.subs.add(cur)
			lastAdded = cur
		default:
			u, err := d.parseUnqualifiedName(cur)
			if err != nil {
				return nil, err
			}
			if cur == nil {
				cur = u
			} else {
				cur = &Qualified{Scope: cur, Name: u}
			}
			d.subs.add(cur)
			lastAdded = cur
		}
	}
}

// parseLocalName parses Z <encoding> E <entity> with optional discriminator.
func (d *demangler) parseLocalName() (Node, error) {
	d.cur.next() // 'Z'
	scope, err := d.parseEncoding()
	if err != nil {
		return nil, err
	}
	if err := d.cur.expect('E'); err != nil {
		return nil, err
	}

	var entity Node
	switch {
	case d.cur.peek() == 's' && (d.cur.peekAt(1) == '_' || d.cur.peekAt(1) == 0):
		d.cur.next()
		entity = &Name{Value: "string literal"}
	case d.cur.peek() == 'd' && (d.cur.peekAt(1) == '_' || isDigit(d.cur.peekAt(1))):
		// Entity scoped inside a default argument.
		d.cur.next()
		if isDigit(d.cur.peek()) {
			if _, err := d.cur.readDigits(); err != nil {
				return nil, err
			}
		}
		if err := d.cur.expect('_'); err != nil {
			return nil, err
		}
		entity, err = d.parseName()
		if err != nil {
			return nil, err
		}
	default:
		entity, err = d.parseName()
		if err != nil {
			return nil, err
		}
	}

	// Discriminators order multiple same-named entities; they don't render.
	if d.cur.peek() == '_' {
		if d.cur.peekAt(1) == '_' {
			d.cur.advance(2)
			if _, err := d.cur.readDigits(); err != nil {
				return nil, err
			}
			if err := d.cur.expect('_'); err != nil {
				return nil, err
			}
		} else if isDigit(d.cur.peekAt(1)) {
			d.cur.next()
			if _, err := d.cur.readDigits(); err != nil {
				return nil, err
			}
		}
	}

	return &LocalName{Scope: scope, Entity: entity}, nil
}

// parseUnqualifiedName parses <unqualified-name>. scope is the enclosing
// prefix, needed when the name turns out to be a constructor or destructor.
func (d *demangler) parseUnqualifiedName(scope Node) (Node, error) {
	switch c := d.cur.peek(); {
	case isDigit(c):
		name, err := d.cur.readSourceName()
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(name, "_GLOBAL__N") {
			return &Name{Value: "(anonymous namespace)"}, nil
		}
		return &Name{Value: name}, nil
	case c == 'C':
		if v := d.cur.peekAt(1); v == '1' || v == '2' || v == '3' {
			if scope == nil {
				return nil, ErrInvalidMangled
			}
			d.cur.advance(2)
			return &Ctor{Class: scope}, nil
		}
		return nil, ErrInvalidMangled
	case c == 'D':
		if v := d.cur.peekAt(1); v == '0' || v == '1' || v == '2' {
			if scope == nil {
				return nil, ErrInvalidMangled
			}
			d.cur.advance(2)
			return &Dtor{Class: scope}, nil
		}
		return nil, ErrInvalidMangled
	case c == 'L':
		// Internal linkage marker; the name renders unchanged.
		d.cur.next()
		name, err := d.cur.readSourceName()
		if err != nil {
			return nil, err
		}
		return &Name{Value: name}, nil
	case c == 'U':
		return d.parseUnnamedTypeName()
	default:
		return d.parseOperatorName()
	}
}

// parseUnnamedTypeName parses lambdas (Ul <sig> E [n] _) and unnamed types
// (Ut [n] _).
func (d *demangler) parseUnnamedTypeName() (Node, error) {
	switch {
	case d.cur.consume("Ul"):
		var params []Node
		for d.cur.peek() != 'E' {
			if d.cur.eof() {
				return nil, ErrUnexpectedEnd
			}
			t, err := d.parseType()
			if err != nil {
				return nil, err
			}
			params = append(params, t)
		}
		d.cur.next()
		if len(params) == 1 && isVoid(params[0]) {
			params = nil
		}
		num := -1
		if isDigit(d.cur.peek()) {
			n, err := d.cur.readDigits()
			if err != nil {
				return nil, err
			}
			num = n
		}
		if err := d.cur.expect('_'); err != nil {
			return nil, err
		}
		return &Closure{Params: params, Num: num}, nil
	case d.cur.consume("Ut"):
		num := -1
		if isDigit(d.cur.peek()) {
			n, err := d.cur.readDigits()
			if err != nil {
				return nil, err
			}
			num = n
		}
		if err := d.cur.expect('_'); err != nil {
			return nil, err
		}
		return &UnnamedType{Num: num}, nil
	default:
		return nil, ErrInvalidMangled
	}
}

// parseOperatorName parses <operator-name>.
func (d *demangler) parseOperatorName() (Node, error) {
	switch {
	case d.cur.consume("cv"):
		target, err := d.parseType()
		if err != nil {
			return nil, err
		}
		return &ConversionOperator{Target: target}, nil
	case d.cur.consume("li"):
		suffix, err := d.cur.readSourceName()
		if err != nil {
			return nil, err
		}
		return &LiteralOperator{Suffix: suffix}, nil
	case d.cur.peek() == 'v' && isDigit(d.cur.peekAt(1)):
		// Vendor extended operator with an operand count we ignore.
		d.cur.advance(2)
		name, err := d.cur.readSourceName()
		if err != nil {
			return nil, err
		}
		return &Operator{Name: " " + name}, nil
	}

	code, err := d.cur.advance(2)
	if err != nil {
		return nil, ErrInvalidMangled
	}
	op, ok := operatorTable[code]
	if !ok {
		d.cur.pos -= 2
		return nil, ErrInvalidMangled
	}
	return &Operator{Name: op.name}, nil
}

// parseTemplateParam resolves T_ / T<n>_ against the innermost template
// argument list. An unresolvable reference is a grammar violation.
func (d *demangler) parseTemplateParam() (Node, error) {
	d.cur.next() // 'T'
	idx := 0
	if !d.cur.consume("_") {
		n, err := d.cur.readDigits()
		if err != nil {
			return nil, err
		}
		if err := d.cur.expect('_'); err != nil {
			return nil, err
		}
		idx = n + 1
	}
	if idx >= len(d.templateArgs) {
		return nil, ErrInvalidBackref
	}
	return d.templateArgs[idx], nil
}

// parseTemplateArgs parses I <template-arg>+ E. The caller decides whether
// the resulting list becomes the active one for <template-param> lookups.
func (d *demangler) parseTemplateArgs() ([]Node, error) {
	d.cur.next() // 'I'
	var args []Node
	for d.cur.peek() != 'E' {
		if d.cur.eof() {
			return nil, ErrUnexpectedEnd
		}
		a, err := d.parseTemplateArg()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	d.cur.next()
	return args, nil
}

func (d *demangler) parseTemplateArg() (Node, error) {
	switch d.cur.peek() {
	case 'X':
		d.cur.next()
		e, err := d.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := d.cur.expect('E'); err != nil {
			return nil, err
		}
		return e, nil
	case 'L':
		return d.parseExprPrimary()
	case 'J':
		d.cur.next()
		var args []Node
		for d.cur.peek() != 'E' {
			if d.cur.eof() {
				return nil, ErrUnexpectedEnd
			}
			a, err := d.parseTemplateArg()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		d.cur.next()
		return &ArgPack{Args: args}, nil
	default:
		return d.parseType()
	}
}

// parseExprPrimary parses L <type> <value> E literals and L _Z <encoding> E
// external names.
func (d *demangler) parseExprPrimary() (Node, error) {
	d.cur.next() // 'L'
	if d.cur.consume("_Z") {
		n, err := d.parseEncoding()
		if err != nil {
			return nil, err
		}
		if err := d.cur.expect('E'); err != nil {
			return nil, err
		}
		return n, nil
	}
	t, err := d.parseType()
	if err != nil {
		return nil, err
	}
	start := d.cur.pos
	for !d.cur.eof() && d.cur.peek() != 'E' {
		d.cur.next()
	}
	value := d.cur.input[start:d.cur.pos]
	if err := d.cur.expect('E'); err != nil {
		return nil, err
	}
	return &Literal{Type: t, Value: value}, nil
}

// parseExpr parses the <expression> subset used in template arguments,
// array bounds, and decltype.
func (d *demangler) parseExpr() (Node, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	switch d.cur.peek() {
	case 0:
		return nil, ErrUnexpectedEnd
	case 'L':
		return d.parseExprPrimary()
	case 'T':
		return d.parseTemplateParam()
	}

	code := string([]byte{d.cur.peek(), d.cur.peekAt(1)})
	switch code {
	case "fp":
		d.cur.advance(2)
		d.parseCVQualifiers()
		num := 1
		if !d.cur.consume("_") {
			n, err := d.cur.readDigits()
			if err != nil {
				return nil, err
			}
			if err := d.cur.expect('_'); err != nil {
				return nil, err
			}
			num = n + 2
		}
		return &FunctionParam{Num: num}, nil
	case "sp":
		d.cur.advance(2)
		e, err := d.parseExpr()
		if err != nil {
			return nil, err
		}
		return &PackExpansion{Pattern: e}, nil
	case "st":
		d.cur.advance(2)
		t, err := d.parseType()
		if err != nil {
			return nil, err
		}
		return &SizeofType{Operator: "sizeof", Type: t}, nil
	case "at":
		d.cur.advance(2)
		t, err := d.parseType()
		if err != nil {
			return nil, err
		}
		return &SizeofType{Operator: "alignof", Type: t}, nil
	case "sz":
		d.cur.advance(2)
		e, err := d.parseExpr()
		if err != nil {
			return nil, err
		}
		return &SizeofType{Operator: "sizeof", Type: e}, nil
	case "sZ":
		d.cur.advance(2)
		e, err := d.parseExpr()
		if err != nil {
			return nil, err
		}
		return &SizeofPack{Pack: e}, nil
	case "sr":
		d.cur.advance(2)
		scope, err := d.parseType()
		if err != nil {
			return nil, err
		}
		name, err := d.parseUnqualifiedName(nil)
		if err != nil {
			return nil, err
		}
		if d.cur.peek() == 'I' {
			args, err := d.parseTemplateArgs()
			if err != nil {
				return nil, err
			}
			name = &Template{Base: name, Args: args}
		}
		return &Qualified{Scope: scope, Name: name}, nil
	case "cl":
		d.cur.advance(2)
		callee, err := d.parseExpr()
		if err != nil {
			return nil, err
		}
		var args []Node
		for d.cur.peek() != 'E' {
			if d.cur.eof() {
				return nil, ErrUnexpectedEnd
			}
			a, err := d.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		d.cur.next()
		return &CallExpr{Callee: callee, Args: args}, nil
	case "cv":
		d.cur.advance(2)
		t, err := d.parseType()
		if err != nil {
			return nil, err
		}
		var args []Node
		if d.cur.consume("_") {
			for d.cur.peek() != 'E' {
				if d.cur.eof() {
					return nil, ErrUnexpectedEnd
				}
				a, err := d.parseExpr()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
			}
			d.cur.next()
		} else {
			a, err := d.parseExpr()
			if err != nil {
				return nil, err
			}
			args = []Node{a}
		}
		return &ConvExpr{Type: t, Args: args}, nil
	}

	if op, ok := operatorTable[code]; ok {
		d.cur.advance(2)
		name := op.name
		if strings.HasPrefix(name, " ") {
			name = name[1:] + " "
		}
		switch op.arity {
		case 1:
			suffix := false
			if code == "pp" || code == "mm" {
				suffix = !d.cur.consume("_")
			}
			e, err := d.parseExpr()
			if err != nil {
				return nil, err
			}
			return &UnaryExpr{Op: name, Operand: e, Suffix: suffix}, nil
		case 2:
			l, err := d.parseExpr()
			if err != nil {
				return nil, err
			}
			r, err := d.parseExpr()
			if err != nil {
				return nil, err
			}
			return &BinaryExpr{Op: name, Left: l, Right: r}, nil
		case 3:
			if code != "qu" {
				return nil, ErrInvalidMangled
			}
			cond, err := d.parseExpr()
			if err != nil {
				return nil, err
			}
			then, err := d.parseExpr()
			if err != nil {
				return nil, err
			}
			els, err := d.parseExpr()
			if err != nil {
				return nil, err
			}
			return &TernaryExpr{Cond: cond, Then: then, Else: els}, nil
		}
	}

	// <unresolved-name> fallback: a dependent bare name.
	if isDigit(d.cur.peek()) {
		name, err := d.cur.readSourceName()
		if err != nil {
			return nil, err
		}
		var n Node = &Name{Value: name}
		if d.cur.peek() == 'I' {
			args, err := d.parseTemplateArgs()
			if err != nil {
				return nil, err
			}
			n = &Template{Base: n, Args: args}
		}
		return n, nil
	}

	return nil, ErrInvalidMangled
}

// parseType parses <type>. Every parsed type other than the fixed builtins
// and bare substitution references becomes a substitution candidate.
func (d *demangler) parseType() (Node, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	c := d.cur.peek()
	if c == 0 {
		return nil, ErrUnexpectedEnd
	}
	if name, ok := builtinTypes[c]; ok {
		d.cur.next()
		return &BuiltinType{Name: name}, nil
	}

	var n Node
	var err error
	switch c {
	case 'r', 'V', 'K':
		quals := d.parseCVQualifiers()
		inner, err := d.parseType()
		if err != nil {
			return nil, err
		}
		// Member function qualifiers live on the function type itself.
		if ft, ok := inner.(*FunctionType); ok {
			ft.Quals.Const = ft.Quals.Const || quals.Const
			ft.Quals.Volatile = ft.Quals.Volatile || quals.Volatile
			ft.Quals.Restrict = ft.Quals.Restrict || quals.Restrict
			n = ft
		} else {
			n = &QualifiedType{Inner: inner, Quals: quals}
		}
	case 'U':
		d.cur.next()
		qual, err := d.cur.readSourceName()
		if err != nil {
			return nil, err
		}
		if d.cur.peek() == 'I' {
			args, err := d.parseTemplateArgs()
			if err != nil {
				return nil, err
			}
			qual += templateArgList(args)
		}
		inner, err := d.parseType()
		if err != nil {
			return nil, err
		}
		n = &VendorQualifiedType{Inner: inner, Qual: qual}
	case 'P', 'R', 'O':
		d.cur.next()
		pointee, err := d.parseType()
		if err != nil {
			return nil, err
		}
		affinity := AffinityPointer
		switch c {
		case 'R':
			affinity = AffinityReference
		case 'O':
			affinity = AffinityRValueReference
		}
		n = &PointerType{Pointee: pointee, Affinity: affinity}
	case 'C', 'G':
		d.cur.next()
		inner, err := d.parseType()
		if err != nil {
			return nil, err
		}
		n = &ComplexType{Inner: inner, Imaginary: c == 'G'}
	case 'F':
		n, err = d.parseFunctionType()
	case 'A':
		n, err = d.parseArrayType()
	case 'M':
		d.cur.next()
		class, err := d.parseType()
		if err != nil {
			return nil, err
		}
		member, err := d.parseType()
		if err != nil {
			return nil, err
		}
		n = &PtrMemType{Class: class, Member: member}
	case 'T':
		tp, err := d.parseTemplateParam()
		if err != nil {
			return nil, err
		}
		n = tp
		if d.cur.peek() == 'I' {
			d.subs.add(n)
			args, err := d.parseTemplateArgs()
			if err != nil {
				return nil, err
			}
			n = &Template{Base: n, Args: args}
		}
	case 'D':
		c2 := d.cur.peekAt(1)
		if name, ok := builtinTypesD[c2]; ok {
			d.cur.advance(2)
			return &BuiltinType{Name: name}, nil
		}
		switch c2 {
		case 't', 'T':
			d.cur.advance(2)
			e, err := d.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := d.cur.expect('E'); err != nil {
				return nil, err
			}
			n = &Decltype{Expr: e}
		case 'p':
			d.cur.advance(2)
			t, err := d.parseType()
			if err != nil {
				return nil, err
			}
			n = &PackExpansion{Pattern: t}
		case 'v':
			d.cur.advance(2)
			size, err := d.cur.readDigits()
			if err != nil {
				return nil, err
			}
			if err := d.cur.expect('_'); err != nil {
				return nil, err
			}
			elem, err := d.parseType()
			if err != nil {
				return nil, err
			}
			n = &VectorType{Element: elem, Size: size}
		default:
			return nil, ErrInvalidMangled
		}
	case 'S':
		if d.cur.peekAt(1) == 't' {
			n, err = d.parseName()
		} else {
			sub, err := d.parseSubstitution()
			if err != nil {
				return nil, err
			}
			if d.cur.peek() != 'I' {
				// Bare substitution references are never re-recorded.
				return sub, nil
			}
			args, err := d.parseTemplateArgs()
			if err != nil {
				return nil, err
			}
			d.templateArgs = args
			n = &Template{Base: sub, Args: args}
		}
	case 'N', 'Z':
		n, err = d.parseName()
	case 'u':
		d.cur.next()
		name, err := d.cur.readSourceName()
		if err != nil {
			return nil, err
		}
		n = &BuiltinType{Name: name}
	default:
		if !isDigit(c) {
			return nil, ErrInvalidMangled
		}
		n, err = d.parseName()
	}
	if err != nil {
		return nil, err
	}
	d.subs.add(n)
	return n, nil
}

// parseFunctionType parses F [Y] <bare-function-type> [<ref-qualifier>] E.
func (d *demangler) parseFunctionType() (Node, error) {
	d.cur.next() // 'F'
	d.cur.consume("Y")

	ret, err := d.parseType()
	if err != nil {
		return nil, err
	}
	ft := &FunctionType{Return: ret}
	var params []Node
	for {
		c := d.cur.peek()
		if c == 0 {
			return nil, ErrUnexpectedEnd
		}
		if c == 'E' {
			d.cur.next()
			break
		}
		if (c == 'R' || c == 'O') && d.cur.peekAt(1) == 'E' {
			d.cur.next()
			if c == 'R' {
				ft.Ref = RefQualifierLValue
			} else {
				ft.Ref = RefQualifierRValue
			}
			continue
		}
		t, err := d.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, t)
	}
	if len(params) == 1 && isVoid(params[0]) {
		params = nil
	}
	ft.Params = params
	return ft, nil
}

// parseArrayType parses A [<number>|<expression>] _ <type>.
func (d *demangler) parseArrayType() (Node, error) {
	d.cur.next() // 'A'
	var size Node
	switch c := d.cur.peek(); {
	case isDigit(c):
		n, err := d.cur.readDigits()
		if err != nil {
			return nil, err
		}
		size = &Name{Value: strconv.Itoa(n)}
	case c == '_':
		// array of unknown bound
	default:
		e, err := d.parseExpr()
		if err != nil {
			return nil, err
		}
		size = e
	}
	if err := d.cur.expect('_'); err != nil {
		return nil, err
	}
	elem, err := d.parseType()
	if err != nil {
		return nil, err
	}
	return &ArrayType{Element: elem, Size: size}, nil
}

// parseSubstitution parses S_ / S<seq-id>_ back-references and the fixed
// two-character standard abbreviations.
func (d *demangler) parseSubstitution() (Node, error) {
	d.cur.next() // 'S'
	if c := d.cur.peek(); c >= 'a' && c <= 'z' {
		n, ok := standardSubstitution(c)
		if !ok {
			return nil, ErrInvalidMangled
		}
		d.cur.next()
		return n, nil
	}
	idx, err := d.cur.readSeqID()
	if err != nil {
		return nil, err
	}
	return d.subs.lookup(idx)
}

// parseSpecialName parses the T... and G... special encodings.
func (d *demangler) parseSpecialName() (Node, error) {
	switch {
	case d.cur.consume("TV"):
		return d.specialType("vtable for ")
	case d.cur.consume("TT"):
		return d.specialType("VTT for ")
	case d.cur.consume("TI"):
		return d.specialType("typeinfo for ")
	case d.cur.consume("TS"):
		return d.specialType("typeinfo name for ")
	case d.cur.consume("TC"):
		derived, err := d.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := d.cur.readNumber(); err != nil {
			return nil, err
		}
		if err := d.cur.expect('_'); err != nil {
			return nil, err
		}
		base, err := d.parseType()
		if err != nil {
			return nil, err
		}
		return &CtorVtable{Base: base, Derived: derived}, nil
	case d.cur.consume("Th"):
		if _, err := d.cur.readNumber(); err != nil {
			return nil, err
		}
		if err := d.cur.expect('_'); err != nil {
			return nil, err
		}
		return d.specialEncoding("non-virtual thunk to ")
	case d.cur.consume("Tv"):
		for n := 0; n < 2; n++ {
			if _, err := d.cur.readNumber(); err != nil {
				return nil, err
			}
			if err := d.cur.expect('_'); err != nil {
				return nil, err
			}
		}
		return d.specialEncoding("virtual thunk to ")
	case d.cur.consume("Tc"):
		for n := 0; n < 2; n++ {
			if err := d.parseCallOffset(); err != nil {
				return nil, err
			}
		}
		return d.specialEncoding("covariant return thunk to ")
	case d.cur.consume("TW"):
		return d.specialName("thread-local wrapper routine for ")
	case d.cur.consume("TH"):
		return d.specialName("thread-local initialization routine for ")
	case d.cur.consume("GV"):
		return d.specialName("guard variable for ")
	case d.cur.consume("GR"):
		name, err := d.parseName()
		if err != nil {
			return nil, err
		}
		if !d.cur.eof() {
			if _, err := d.cur.readSeqID(); err != nil {
				return nil, err
			}
		}
		return &SpecialName{Prefix: "reference temporary for ", Target: name}, nil
	default:
		return nil, ErrInvalidMangled
	}
}

func (d *demangler) specialType(prefix string) (Node, error) {
	t, err := d.parseType()
	if err != nil {
		return nil, err
	}
	return &SpecialName{Prefix: prefix, Target: t}, nil
}

func (d *demangler) specialName(prefix string) (Node, error) {
	n, err := d.parseName()
	if err != nil {
		return nil, err
	}
	return &SpecialName{Prefix: prefix, Target: n}, nil
}

func (d *demangler) specialEncoding(prefix string) (Node, error) {
	n, err := d.parseEncoding()
	if err != nil {
		return nil, err
	}
	return &SpecialName{Prefix: prefix, Target: n}, nil
}

// parseCallOffset parses h <number> _ or v <number> _ <number> _.
func (d *demangler) parseCallOffset() error {
	switch {
	case d.cur.consume("h"):
		if _, err := d.cur.readNumber(); err != nil {
			return err
		}
		return d.cur.expect('_')
	case d.cur.consume("v"):
		for n := 0; n < 2; n++ {
			if _, err := d.cur.readNumber(); err != nil {
				return err
			}
			if err := d.cur.expect('_'); err != nil {
				return err
			}
		}
		return nil
	default:
		return ErrInvalidMangled
	}
}

// parseCVQualifiers consumes a possibly empty run of r/V/K qualifiers.
func (d *demangler) parseCVQualifiers() CVQualifiers {
	var q CVQualifiers
	for {
		switch d.cur.peek() {
		case 'r':
			q.Restrict = true
		case 'V':
			q.Volatile = true
		case 'K':
			q.Const = true
		default:
			return q
		}
		d.cur.next()
	}
}
