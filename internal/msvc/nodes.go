// Package msvc demangles MSVC decorated names (the ?-prefixed scheme used
// by Visual C++). Coverage follows what dbghelp's UnDecorateSymbolName
// prints for ordinary symbols: functions, variables, templates, and the
// common compiler-generated members.
package msvc

import (
	"fmt"
	"strings"
)

// NodeKind identifies the type of AST node.
type NodeKind int

const (
	NodeKindUnknown NodeKind = iota
	NodeKindIdentifier
	NodeKindQualifiedName
	NodeKindTemplate
	NodeKindConversionOperator
	NodeKindPrimitiveType
	NodeKindPointerType
	NodeKindArrayType
	NodeKindTagType
	NodeKindFunctionType
	NodeKindFunctionSymbol
	NodeKindVariableSymbol
	NodeKindIntegerLiteral
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() NodeKind
	fmt.Stringer
}

// Identifier is a plain name fragment, including pre-rendered operator
// spellings and compiler-generated names like `vftable'.
type Identifier struct {
	Name string
}

func (n *Identifier) Kind() NodeKind { return NodeKindIdentifier }
func (n *Identifier) String() string { return n.Name }

// QualifiedName is a scoped name in natural C++ order.
type QualifiedName struct {
	Components []Node
}

func (n *QualifiedName) Kind() NodeKind { return NodeKindQualifiedName }

func (n *QualifiedName) String() string {
	parts := make([]string, len(n.Components))
	for i, c := range n.Components {
		parts[i] = c.String()
	}
	return strings.Join(parts, "::")
}

// last returns the final component, or nil for an empty name.
func (n *QualifiedName) last() Node {
	if len(n.Components) == 0 {
		return nil
	}
	return n.Components[len(n.Components)-1]
}

// Template is base<args...>.
type Template struct {
	Base Node
	Args []Node
}

func (n *Template) Kind() NodeKind { return NodeKindTemplate }

func (n *Template) String() string {
	var b strings.Builder
	b.WriteString(n.Base.String())
	b.WriteByte('<')
	for i, a := range n.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	inner := b.String()
	if strings.HasSuffix(inner, ">") {
		return inner + " >"
	}
	return inner + ">"
}

// ConversionOperator is operator <type>.
type ConversionOperator struct {
	Target Node
}

func (n *ConversionOperator) Kind() NodeKind { return NodeKindConversionOperator }
func (n *ConversionOperator) String() string { return "operator " + n.Target.String() }

// PrimitiveType is a fundamental type.
type PrimitiveType struct {
	Name string
}

func (n *PrimitiveType) Kind() NodeKind { return NodeKindPrimitiveType }
func (n *PrimitiveType) String() string { return n.Name }

// Qualifiers are MSVC cv-qualifiers.
type Qualifiers struct {
	Const    bool
	Volatile bool
}

func (q Qualifiers) IsEmpty() bool { return !q.Const && !q.Volatile }

func (q Qualifiers) String() string {
	switch {
	case q.Const && q.Volatile:
		return "const volatile"
	case q.Const:
		return "const"
	case q.Volatile:
		return "volatile"
	default:
		return ""
	}
}

// PointerAffinity distinguishes pointers from the two reference forms.
type PointerAffinity int

const (
	AffinityPointer PointerAffinity = iota
	AffinityReference
	AffinityRValueReference
)

// PointerType is a pointer, reference, or rvalue reference, with the
// qualifiers that apply to the pointee.
type PointerType struct {
	Pointee  Node
	Affinity PointerAffinity
	Quals    Qualifiers
}

func (n *PointerType) Kind() NodeKind { return NodeKindPointerType }

func (n *PointerType) String() string {
	sym := "*"
	switch n.Affinity {
	case AffinityReference:
		sym = "&"
	case AffinityRValueReference:
		sym = "&&"
	}
	if ft, ok := n.Pointee.(*FunctionType); ok {
		var b strings.Builder
		if ft.Return != nil {
			b.WriteString(ft.Return.String())
			b.WriteByte(' ')
		}
		b.WriteByte('(')
		if ft.CallConv != "" {
			b.WriteString(ft.CallConv)
		}
		b.WriteString(sym)
		b.WriteString(")(")
		ft.writeParams(&b)
		b.WriteByte(')')
		return b.String()
	}

	var b strings.Builder
	b.WriteString(n.Pointee.String())
	if !n.Quals.IsEmpty() {
		b.WriteByte(' ')
		b.WriteString(n.Quals.String())
	}
	b.WriteByte(' ')
	b.WriteString(sym)
	return b.String()
}

// ArrayType is a (possibly multidimensional) array.
type ArrayType struct {
	Element Node
	Dims    []int64
}

func (n *ArrayType) Kind() NodeKind { return NodeKindArrayType }

func (n *ArrayType) String() string {
	var b strings.Builder
	b.WriteString(n.Element.String())
	for _, d := range n.Dims {
		fmt.Fprintf(&b, "[%d]", d)
	}
	return b.String()
}

// TagType is a class, struct, union, or enum type; MSVC output keeps the
// tag keyword in front of the name.
type TagType struct {
	Tag  string
	Name Node
}

func (n *TagType) Kind() NodeKind { return NodeKindTagType }
func (n *TagType) String() string { return n.Tag + " " + n.Name.String() }

// FunctionType is a function signature.
type FunctionType struct {
	CallConv string // empty for __cdecl, which never prints
	Return   Node   // nil for constructors and destructors
	Params   []Node
	Quals    Qualifiers
	Variadic bool
}

func (n *FunctionType) Kind() NodeKind { return NodeKindFunctionType }

func (n *FunctionType) String() string {
	var b strings.Builder
	if n.Return != nil {
		b.WriteString(n.Return.String())
		b.WriteByte(' ')
	}
	if n.CallConv != "" {
		b.WriteString(n.CallConv)
		b.WriteByte(' ')
	}
	b.WriteByte('(')
	n.writeParams(&b)
	b.WriteByte(')')
	if !n.Quals.IsEmpty() {
		b.WriteByte(' ')
		b.WriteString(n.Quals.String())
	}
	return b.String()
}

func (n *FunctionType) writeParams(b *strings.Builder) {
	for i, p := range n.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	if n.Variadic {
		if len(n.Params) > 0 {
			b.WriteString(", ")
		}
		b.WriteString("...")
	}
}

// FunctionSymbol is a fully decorated function: member attributes, the
// qualified name, and the signature.
type FunctionSymbol struct {
	Access  string // "public", "protected", "private", or empty
	Static  bool
	Virtual bool
	Name    Node
	Sig     *FunctionType
}

func (n *FunctionSymbol) Kind() NodeKind { return NodeKindFunctionSymbol }

func (n *FunctionSymbol) String() string {
	var b strings.Builder
	if n.Access != "" {
		b.WriteString(n.Access)
		b.WriteString(": ")
	}
	if n.Static {
		b.WriteString("static ")
	}
	if n.Virtual {
		b.WriteString("virtual ")
	}
	if n.Sig != nil {
		if n.Sig.Return != nil {
			b.WriteString(n.Sig.Return.String())
			b.WriteByte(' ')
		}
		if n.Sig.CallConv != "" {
			b.WriteString(n.Sig.CallConv)
			b.WriteByte(' ')
		}
	}
	b.WriteString(n.Name.String())
	if n.Sig != nil {
		b.WriteByte('(')
		n.Sig.writeParams(&b)
		b.WriteByte(')')
		if !n.Sig.Quals.IsEmpty() {
			b.WriteByte(' ')
			b.WriteString(n.Sig.Quals.String())
		}
	}
	return b.String()
}

// VariableSymbol is a decorated data symbol.
type VariableSymbol struct {
	Access string
	Static bool
	Type   Node
	Name   Node
}

func (n *VariableSymbol) Kind() NodeKind { return NodeKindVariableSymbol }

func (n *VariableSymbol) String() string {
	var b strings.Builder
	if n.Access != "" {
		b.WriteString(n.Access)
		b.WriteString(": ")
	}
	if n.Static {
		b.WriteString("static ")
	}
	if n.Type != nil {
		b.WriteString(n.Type.String())
		b.WriteByte(' ')
	}
	b.WriteString(n.Name.String())
	return b.String()
}

// IntegerLiteral is a non-type template argument.
type IntegerLiteral struct {
	Value int64
}

func (n *IntegerLiteral) Kind() NodeKind { return NodeKindIntegerLiteral }
func (n *IntegerLiteral) String() string { return fmt.Sprintf("%d", n.Value) }
