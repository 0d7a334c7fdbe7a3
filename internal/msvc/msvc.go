package msvc

import (
	"errors"
	"strings"
)

// Errors surfaced by the MSVC parser. All of them are folded into a single
// invalid-name error at the public package boundary.
var (
	ErrInvalidMangled  = errors.New("msvc: invalid decorated name")
	ErrUnexpectedEnd   = errors.New("msvc: unexpected end of input")
	ErrInvalidBackref  = errors.New("msvc: invalid back-reference")
	ErrUnknownOperator = errors.New("msvc: unknown operator code")
	ErrUnknownType     = errors.New("msvc: unknown type code")
)

// IsMangled reports whether name looks like an MSVC decorated name.
func IsMangled(name string) bool {
	return len(name) > 0 && (name[0] == '?' || strings.HasPrefix(name, "@?"))
}

// Demangle converts an MSVC decorated name to readable form. The whole
// input must parse; trailing bytes are an error.
func Demangle(name string) (string, error) {
	input := strings.TrimPrefix(name, "@")
	if len(input) == 0 || input[0] != '?' {
		return "", ErrInvalidMangled
	}
	d := &demangler{input: input, pos: 1}
	n, err := d.parse()
	if err != nil {
		return "", err
	}
	return n.String(), nil
}

// operatorNames maps the code after a '?' fragment marker to its spelling.
// '?B' (conversion operator) is handled separately since its target type
// comes from the encoding.
var operatorNames = map[byte]string{
	'2': "operator new",
	'3': "operator delete",
	'4': "operator=",
	'5': "operator>>",
	'6': "operator<<",
	'7': "operator!",
	'8': "operator==",
	'9': "operator!=",
	'A': "operator[]",
	'C': "operator->",
	'D': "operator*",
	'E': "operator++",
	'F': "operator--",
	'G': "operator-",
	'H': "operator+",
	'I': "operator&",
	'J': "operator->*",
	'K': "operator/",
	'L': "operator%",
	'M': "operator<",
	'N': "operator<=",
	'O': "operator>",
	'P': "operator>=",
	'Q': "operator,",
	'R': "operator()",
	'S': "operator~",
	'T': "operator^",
	'U': "operator|",
	'V': "operator&&",
	'W': "operator||",
	'X': "operator*=",
	'Y': "operator+=",
	'Z': "operator-=",
}

// extendedNames maps the code after a '?_' fragment marker.
var extendedNames = map[byte]string{
	'0': "operator/=",
	'1': "operator%=",
	'2': "operator>>=",
	'3': "operator<<=",
	'4': "operator&=",
	'5': "operator|=",
	'6': "operator^=",
	'7': "`vftable'",
	'8': "`vbtable'",
	'9': "`vcall'",
	'A': "`typeof'",
	'B': "`local static guard'",
	'C': "`string'",
	'D': "`vbase destructor'",
	'E': "`vector deleting destructor'",
	'F': "`default constructor closure'",
	'G': "`scalar deleting destructor'",
	'H': "`vector constructor iterator'",
	'I': "`vector destructor iterator'",
	'J': "`vector vbase constructor iterator'",
	'K': "`virtual displacement map'",
	'L': "`eh vector constructor iterator'",
	'M': "`eh vector destructor iterator'",
	'N': "`eh vector vbase constructor iterator'",
	'O': "`copy constructor closure'",
	'S': "`local vftable'",
	'T': "`local vftable constructor closure'",
	'U': "operator new[]",
	'V': "operator delete[]",
}

// rttiNames maps the code after '?_R'.
var rttiNames = map[byte]string{
	'0': "`RTTI Type Descriptor'",
	'1': "`RTTI Base Class Descriptor'",
	'2': "`RTTI Base Class Array'",
	'3': "`RTTI Class Hierarchy Descriptor'",
	'4': "`RTTI Complete Object Locator'",
}

// primitiveTypes maps single-letter type codes.
var primitiveTypes = map[byte]string{
	'X': "void",
	'C': "signed char",
	'D': "char",
	'E': "unsigned char",
	'F': "short",
	'G': "unsigned short",
	'H': "int",
	'I': "unsigned int",
	'J': "long",
	'K': "unsigned long",
	'M': "float",
	'N': "double",
	'O': "long double",
}

// extendedTypes maps the code after a '_' type prefix.
var extendedTypes = map[byte]string{
	'J': "__int64",
	'K': "unsigned __int64",
	'N': "bool",
	'Q': "char8_t",
	'S': "char16_t",
	'U': "char32_t",
	'W': "wchar_t",
}

// callingConventions maps encoding letters; __cdecl renders as nothing.
var callingConventions = map[byte]string{
	'A': "", 'B': "",
	'C': "__pascal", 'D': "__pascal",
	'E': "__thiscall", 'F': "__thiscall",
	'G': "__stdcall", 'H': "__stdcall",
	'I': "__fastcall", 'J': "__fastcall",
	'M': "__clrcall", 'N': "__clrcall",
	'O': "__eabi", 'P': "__eabi",
	'Q': "__vectorcall",
}

// ctorDtorKind marks a leading ?0 / ?1 fragment whose spelling is not known
// until the enclosing class has been parsed.
type ctorDtorKind int

const (
	notCtorDtor ctorDtorKind = iota
	isCtor
	isDtor
)

const maxBackrefs = 10

// demangler holds the state of one parse. MSVC back-references are two
// tables of at most ten entries: name fragments and non-primitive types.
type demangler struct {
	input string
	pos   int

	names []string
	types []Node

	// conversion is the placeholder component of an 'operator <type>'
	// name, patched once the return type is known.
	conversion *Identifier
}

func (d *demangler) peek() byte {
	if d.pos >= len(d.input) {
		return 0
	}
	return d.input[d.pos]
}

func (d *demangler) peekAt(n int) byte {
	if d.pos+n >= len(d.input) {
		return 0
	}
	return d.input[d.pos+n]
}

func (d *demangler) next() byte {
	if d.pos >= len(d.input) {
		return 0
	}
	b := d.input[d.pos]
	d.pos++
	return b
}

func (d *demangler) consume(lit string) bool {
	if len(d.input)-d.pos < len(lit) || d.input[d.pos:d.pos+len(lit)] != lit {
		return false
	}
	d.pos += len(lit)
	return true
}

func (d *demangler) memorizeName(s string) {
	if len(d.names) >= maxBackrefs {
		return
	}
	for _, n := range d.names {
		if n == s {
			return
		}
	}
	d.names = append(d.names, s)
}

func (d *demangler) memorizeType(n Node) {
	if len(d.types) < maxBackrefs {
		d.types = append(d.types, n)
	}
}

// parse demangles everything after the leading '?'.
func (d *demangler) parse() (Node, error) {
	name, ctorDtor, err := d.parseQualifiedSymbol()
	if err != nil {
		return nil, err
	}
	if ctorDtor != notCtorDtor {
		class := name.last()
		if class == nil {
			return nil, ErrInvalidMangled
		}
		spelled := fragmentBaseName(class)
		if ctorDtor == isDtor {
			spelled = "~" + spelled
		}
		name.Components = append(name.Components, &Identifier{Name: spelled})
	}
	return d.parseEncoding(name)
}

// fragmentBaseName is the untemplated spelling of a name fragment, used for
// constructor and destructor names.
func fragmentBaseName(n Node) string {
	if t, ok := n.(*Template); ok {
		return t.Base.String()
	}
	return n.String()
}

// parseQualifiedSymbol parses the @-separated fragment list up to the '@@'
// terminator and returns the name in natural C++ order. Fragments are
// mangled innermost-first, so the list is reversed.
func (d *demangler) parseQualifiedSymbol() (*QualifiedName, ctorDtorKind, error) {
	var components []Node
	ctorDtor := notCtorDtor

	// A '?' right after the prefix is a special first fragment: a
	// constructor or destructor marker, an operator, or an extended name.
	if d.peek() == '?' && d.peekAt(1) != '$' {
		d.pos++
		switch c := d.next(); {
		case c == '0':
			ctorDtor = isCtor
		case c == '1':
			ctorDtor = isDtor
		default:
			frag, err := d.parseOperatorFragment(c)
			if err != nil {
				return nil, notCtorDtor, err
			}
			components = append(components, frag)
		}
	}

	// Simple name fragments consume their own '@' separator; digit
	// back-references, operators, and templates are self-terminating. A
	// '@' where a fragment would start ends the name.
	for {
		if d.pos >= len(d.input) {
			return nil, notCtorDtor, ErrUnexpectedEnd
		}
		if d.peek() == '@' {
			d.pos++
			break
		}
		frag, err := d.parseFragment()
		if err != nil {
			return nil, notCtorDtor, err
		}
		components = append(components, frag)
	}

	for i, j := 0, len(components)-1; i < j; i, j = i+1, j-1 {
		components[i], components[j] = components[j], components[i]
	}
	return &QualifiedName{Components: components}, ctorDtor, nil
}

// parseFragment parses one name fragment: a back-reference digit, a
// template instantiation, a nested special name, or a plain identifier.
func (d *demangler) parseFragment() (Node, error) {
	c := d.peek()
	switch {
	case c == 0:
		return nil, ErrUnexpectedEnd
	case c >= '0' && c <= '9':
		d.pos++
		idx := int(c - '0')
		if idx >= len(d.names) {
			return nil, ErrInvalidBackref
		}
		return &Identifier{Name: d.names[idx]}, nil
	case c == '?' && d.peekAt(1) == '$':
		return d.parseTemplateFragment()
	case c == '?':
		d.pos++
		return d.parseOperatorFragment(d.next())
	default:
		return d.parseSimpleName()
	}
}

// parseOperatorFragment decodes the fragment code c, already consumed from
// a '?' fragment.
func (d *demangler) parseOperatorFragment(c byte) (Node, error) {
	switch c {
	case 0:
		return nil, ErrUnexpectedEnd
	case 'B':
		// Conversion operator; the target type is the encoding's return
		// type and is patched in later.
		d.conversion = &Identifier{Name: "operator <conversion>"}
		return d.conversion, nil
	case '_':
		e := d.next()
		if e == 'R' {
			name, ok := rttiNames[d.next()]
			if !ok {
				return nil, ErrUnknownOperator
			}
			return &Identifier{Name: name}, nil
		}
		if name, ok := extendedNames[e]; ok {
			return &Identifier{Name: name}, nil
		}
		return nil, ErrUnknownOperator
	default:
		if name, ok := operatorNames[c]; ok {
			return &Identifier{Name: name}, nil
		}
		return nil, ErrUnknownOperator
	}
}

// parseSimpleName reads an identifier up to the '@' separator.
func (d *demangler) parseSimpleName() (Node, error) {
	start := d.pos
	for d.pos < len(d.input) && d.input[d.pos] != '@' {
		d.pos++
	}
	if d.pos == start {
		return nil, ErrInvalidMangled
	}
	name := d.input[start:d.pos]
	if d.peek() == '@' {
		d.pos++
	}
	d.memorizeName(name)
	return &Identifier{Name: name}, nil
}

// parseTemplateFragment parses ?$name@args@. Template bodies get fresh
// back-reference tables; the enclosing tables are restored afterwards.
func (d *demangler) parseTemplateFragment() (Node, error) {
	d.pos += 2 // "?$"

	savedNames, savedTypes := d.names, d.types
	d.names, d.types = nil, nil
	tmpl, err := d.parseTemplateBody()
	d.names, d.types = savedNames, savedTypes
	if err != nil {
		return nil, err
	}

	// The whole instantiation is one fragment in the enclosing scope.
	d.memorizeName(tmpl.String())
	return tmpl, nil
}

// parseTemplateBody parses name@args@ with fresh back-reference tables.
func (d *demangler) parseTemplateBody() (*Template, error) {
	base, err := d.parseSimpleName()
	if err != nil {
		return nil, err
	}

	var args []Node
	for d.pos < len(d.input) && d.peek() != '@' {
		arg, err := d.parseTemplateArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if d.peek() == '@' {
		d.pos++
	}
	return &Template{Base: base, Args: args}, nil
}

func (d *demangler) parseTemplateArg() (Node, error) {
	if d.peek() != '$' {
		return d.parseType()
	}
	d.pos++
	switch c := d.next(); c {
	case '0':
		val, err := d.parseNumber()
		if err != nil {
			return nil, err
		}
		return &IntegerLiteral{Value: val}, nil
	case '$':
		// $$-prefixed type codes appear in argument position too.
		d.pos -= 2
		return d.parseType()
	default:
		return nil, ErrUnknownType
	}
}

// parseEncoding parses what follows the qualified name: nothing for table
// symbols, a storage class plus type for variables, or the member
// attributes and signature for functions.
func (d *demangler) parseEncoding(name *QualifiedName) (Node, error) {
	c := d.peek()
	switch {
	case c == 0:
		return name, nil
	case c >= '0' && c <= '4':
		return d.parseVariableEncoding(name)
	case c >= 'A' && c <= 'Z':
		return d.parseFunctionEncoding(name)
	default:
		// Table symbols like vftables carry their own storage codes;
		// the name alone is the readable form.
		return name, nil
	}
}

func (d *demangler) parseVariableEncoding(name *QualifiedName) (Node, error) {
	sym := &VariableSymbol{Name: name}
	switch d.next() {
	case '0':
		sym.Access, sym.Static = "private", true
	case '1':
		sym.Access, sym.Static = "protected", true
	case '2':
		sym.Access, sym.Static = "public", true
	}

	t, err := d.parseType()
	if err != nil {
		return nil, err
	}
	sym.Type = t
	d.parseQualifiers() // storage qualifiers, not printed
	return sym, nil
}

func (d *demangler) parseFunctionEncoding(name *QualifiedName) (Node, error) {
	c := d.next()
	sym := &FunctionSymbol{Name: name}

	member := true
	switch c {
	case 'A', 'B', 'G', 'H':
		sym.Access = "private"
	case 'C', 'D':
		sym.Access, sym.Static, member = "private", true, false
	case 'E', 'F':
		sym.Access, sym.Virtual = "private", true
	case 'I', 'J', 'O', 'P':
		sym.Access = "protected"
	case 'K', 'L':
		sym.Access, sym.Static, member = "protected", true, false
	case 'M', 'N':
		sym.Access, sym.Virtual = "protected", true
	case 'Q', 'R', 'W', 'X':
		sym.Access = "public"
	case 'S', 'T':
		sym.Access, sym.Static, member = "public", true, false
	case 'U', 'V':
		sym.Access, sym.Virtual = "public", true
	case 'Y', 'Z':
		member = false
	default:
		return nil, ErrInvalidMangled
	}

	// Non-static members carry this-pointer qualifiers before the calling
	// convention (after optional pointer-size and alignment markers).
	var thisQuals Qualifiers
	if member {
		for d.peek() == 'E' || d.peek() == 'F' || d.peek() == 'I' {
			d.pos++
		}
		thisQuals = d.parseQualifiers()
	}

	sig, err := d.parseFunctionType()
	if err != nil {
		return nil, err
	}
	sig.Quals = thisQuals
	sym.Sig = sig

	if d.conversion != nil {
		d.conversion.Name = (&ConversionOperator{Target: sig.Return}).String()
		sig.Return = nil
		d.conversion = nil
	}
	return sym, nil
}

func (d *demangler) parseFunctionType() (*FunctionType, error) {
	cc, ok := callingConventions[d.next()]
	if !ok {
		return nil, ErrInvalidMangled
	}
	ft := &FunctionType{CallConv: cc}

	// Constructors and destructors have no return type, marked '@'.
	if d.peek() == '@' {
		d.pos++
	} else {
		ret, err := d.parseType()
		if err != nil {
			return nil, err
		}
		ft.Return = ret
	}

	// 'X' alone is an empty parameter list; otherwise types follow until
	// the '@' terminator or a variadic 'Z'.
	if d.peek() == 'X' {
		d.pos++
	} else {
		for d.pos < len(d.input) {
			c := d.peek()
			if c == '@' {
				d.pos++
				break
			}
			if c == 'Z' {
				d.pos++
				ft.Variadic = true
				break
			}
			param, err := d.parseType()
			if err != nil {
				return nil, err
			}
			ft.Params = append(ft.Params, param)
		}
	}

	d.consume("Z") // throw specification marker
	return ft, nil
}

func (d *demangler) parseType() (Node, error) {
	c := d.peek()
	if c >= '0' && c <= '9' {
		d.pos++
		idx := int(c - '0')
		if idx >= len(d.types) {
			return nil, ErrInvalidBackref
		}
		return d.types[idx], nil
	}
	if name, ok := primitiveTypes[c]; ok {
		d.pos++
		return &PrimitiveType{Name: name}, nil
	}

	var n Node
	var err error
	switch c {
	case 0:
		return nil, ErrUnexpectedEnd
	case '_':
		d.pos++
		name, ok := extendedTypes[d.next()]
		if !ok {
			return nil, ErrUnknownType
		}
		// Extended primitives are back-referenceable.
		n = &PrimitiveType{Name: name}
	case 'P':
		d.pos++
		n, err = d.parsePointerTail(AffinityPointer, Qualifiers{})
	case 'Q':
		d.pos++
		n, err = d.parsePointerTail(AffinityPointer, Qualifiers{Const: true})
	case 'R':
		d.pos++
		n, err = d.parsePointerTail(AffinityPointer, Qualifiers{Volatile: true})
	case 'S':
		d.pos++
		n, err = d.parsePointerTail(AffinityPointer, Qualifiers{Const: true, Volatile: true})
	case 'A':
		d.pos++
		n, err = d.parsePointerTail(AffinityReference, Qualifiers{})
	case 'B':
		d.pos++
		n, err = d.parsePointerTail(AffinityReference, Qualifiers{Volatile: true})
	case '$':
		d.pos++
		n, err = d.parseDollarType()
	case 'T':
		d.pos++
		n, err = d.parseTagType("union")
	case 'U':
		d.pos++
		n, err = d.parseTagType("struct")
	case 'V':
		d.pos++
		n, err = d.parseTagType("class")
	case 'W':
		d.pos++
		if d.next() == 0 { // underlying type code
			return nil, ErrUnexpectedEnd
		}
		n, err = d.parseTagType("enum")
	case 'Y':
		d.pos++
		n, err = d.parseArrayType()
	default:
		return nil, ErrUnknownType
	}
	if err != nil {
		return nil, err
	}
	if n.Kind() != NodeKindPrimitiveType {
		d.memorizeType(n)
	}
	return n, nil
}

// parsePointerTail parses the modifiers and pointee of a pointer type whose
// leading letter fixed affinity and the given qualifiers.
func (d *demangler) parsePointerTail(affinity PointerAffinity, quals Qualifiers) (Node, error) {
	for d.peek() == 'E' || d.peek() == 'F' || d.peek() == 'I' {
		d.pos++
	}
	pq := d.parseQualifiers()
	quals.Const = quals.Const || pq.Const
	quals.Volatile = quals.Volatile || pq.Volatile

	// A pointer to function encodes the signature inline.
	if d.peek() == '6' {
		d.pos++
		sig, err := d.parseFunctionType()
		if err != nil {
			return nil, err
		}
		return &PointerType{Pointee: sig, Affinity: affinity, Quals: quals}, nil
	}

	pointee, err := d.parseType()
	if err != nil {
		return nil, err
	}
	return &PointerType{Pointee: pointee, Affinity: affinity, Quals: quals}, nil
}

func (d *demangler) parseDollarType() (Node, error) {
	if !d.consume("$") {
		return nil, ErrUnknownType
	}
	switch d.next() {
	case 'Q':
		return d.parsePointerTail(AffinityRValueReference, Qualifiers{})
	case 'R':
		return d.parsePointerTail(AffinityRValueReference, Qualifiers{Volatile: true})
	case 'A':
		return d.parseFunctionType()
	case 'C':
		quals := d.parseQualifiers()
		inner, err := d.parseType()
		if err != nil {
			return nil, err
		}
		if quals.IsEmpty() {
			return inner, nil
		}
		return &PointerType{Pointee: inner, Quals: quals}, nil
	default:
		return nil, ErrUnknownType
	}
}

// parseQualifiers reads one A-D storage letter; A means unqualified.
func (d *demangler) parseQualifiers() Qualifiers {
	switch d.peek() {
	case 'A':
		d.pos++
		return Qualifiers{}
	case 'B':
		d.pos++
		return Qualifiers{Const: true}
	case 'C':
		d.pos++
		return Qualifiers{Volatile: true}
	case 'D':
		d.pos++
		return Qualifiers{Const: true, Volatile: true}
	default:
		return Qualifiers{}
	}
}

func (d *demangler) parseTagType(tag string) (Node, error) {
	name, _, err := d.parseQualifiedSymbol()
	if err != nil {
		return nil, err
	}
	return &TagType{Tag: tag, Name: name}, nil
}

// parseArrayType parses Y <rank> <dims...> <element>.
func (d *demangler) parseArrayType() (Node, error) {
	rank, err := d.parseNumber()
	if err != nil {
		return nil, err
	}
	if rank < 0 || rank > 32 {
		return nil, ErrInvalidMangled
	}
	dims := make([]int64, 0, rank)
	for n := int64(0); n < rank; n++ {
		dim, err := d.parseNumber()
		if err != nil {
			return nil, err
		}
		dims = append(dims, dim)
	}
	elem, err := d.parseType()
	if err != nil {
		return nil, err
	}
	return &ArrayType{Element: elem, Dims: dims}, nil
}

// parseNumber decodes the MSVC number scheme: '?' negates, a single digit
// encodes 1..10, and 'A'-'P' are hex digits terminated by '@' (so "A@" is
// zero).
func (d *demangler) parseNumber() (int64, error) {
	negative := false
	if d.peek() == '?' {
		d.pos++
		negative = true
	}

	c := d.peek()
	if c >= '0' && c <= '9' {
		d.pos++
		val := int64(c-'0') + 1
		if negative {
			val = -val
		}
		return val, nil
	}

	var val int64
	digits := 0
	for d.pos < len(d.input) {
		c = d.peek()
		if c == '@' {
			d.pos++
			if negative {
				val = -val
			}
			return val, nil
		}
		if c < 'A' || c > 'P' {
			return 0, ErrInvalidMangled
		}
		d.pos++
		val = val*16 + int64(c-'A')
		digits++
		if digits > 16 {
			return 0, ErrInvalidMangled
		}
	}
	return 0, ErrUnexpectedEnd
}
