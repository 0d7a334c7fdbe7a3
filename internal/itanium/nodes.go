// Package itanium demangles C++ symbol names encoded with the Itanium C++
// ABI mangling grammar (the encoding behind _Z-prefixed linker symbols).
package itanium

import (
	"fmt"
	"strings"
)

// NodeKind identifies the type of AST node.
type NodeKind int

const (
	NodeKindUnknown NodeKind = iota
	// Name nodes
	NodeKindName
	NodeKindQualified
	NodeKindTemplate
	NodeKindOperator
	NodeKindConversionOperator
	NodeKindLiteralOperator
	NodeKindCtor
	NodeKindDtor
	NodeKindClosure
	NodeKindUnnamedType
	NodeKindLocalName
	NodeKindSpecialName
	NodeKindCtorVtable
	// Type nodes
	NodeKindBuiltinType
	NodeKindQualifiedType
	NodeKindVendorQualifiedType
	NodeKindPointerType
	NodeKindComplexType
	NodeKindFunctionType
	NodeKindArrayType
	NodeKindVectorType
	NodeKindPtrMemType
	NodeKindPackExpansion
	NodeKindArgPack
	// Symbol nodes
	NodeKindFunctionSymbol
	// Expression nodes
	NodeKindLiteral
	NodeKindUnaryExpr
	NodeKindBinaryExpr
	NodeKindTernaryExpr
	NodeKindCallExpr
	NodeKindConvExpr
	NodeKindSizeofType
	NodeKindSizeofPack
	NodeKindFunctionParam
	NodeKindDecltype
)

// Node is the interface implemented by all AST nodes.
type Node interface {
	Kind() NodeKind
	fmt.Stringer
}

// Name is a plain identifier.
type Name struct {
	Value string
}

func (n *Name) Kind() NodeKind { return NodeKindName }
func (n *Name) String() string { return n.Value }

// Qualified is scope::name.
type Qualified struct {
	Scope Node
	Name  Node
}

func (n *Qualified) Kind() NodeKind { return NodeKindQualified }
func (n *Qualified) String() string { return n.Scope.String() + "::" + n.Name.String() }

// Template is base<args...>.
type Template struct {
	Base Node
	Args []Node
}

func (n *Template) Kind() NodeKind { return NodeKindTemplate }
func (n *Template) String() string { return n.Base.String() + templateArgList(n.Args) }

// Operator is a named overloaded operator such as operator+.
type Operator struct {
	Name string // spelled form without the "operator" keyword, e.g. "+"
}

func (n *Operator) Kind() NodeKind { return NodeKindOperator }
func (n *Operator) String() string { return "operator" + n.Name }

// ConversionOperator is operator <type>.
type ConversionOperator struct {
	Target Node
}

func (n *ConversionOperator) Kind() NodeKind { return NodeKindConversionOperator }
func (n *ConversionOperator) String() string { return "operator " + typeString(n.Target) }

// LiteralOperator is a user-defined literal operator, operator"" _suffix.
type LiteralOperator struct {
	Suffix string
}

func (n *LiteralOperator) Kind() NodeKind { return NodeKindLiteralOperator }
func (n *LiteralOperator) String() string { return `operator"" ` + n.Suffix }

// Ctor is a constructor; it renders as the enclosing class name.
type Ctor struct {
	Class Node
}

func (n *Ctor) Kind() NodeKind { return NodeKindCtor }
func (n *Ctor) String() string { return baseName(n.Class) }

// Dtor is a destructor; it renders as ~ plus the enclosing class name.
type Dtor struct {
	Class Node
}

func (n *Dtor) Kind() NodeKind { return NodeKindDtor }
func (n *Dtor) String() string { return "~" + baseName(n.Class) }

// Closure is a lambda: {lambda(params)#N}.
type Closure struct {
	Params []Node
	Num    int // -1 when the number was absent
}

func (n *Closure) Kind() NodeKind { return NodeKindClosure }

func (n *Closure) String() string {
	var b strings.Builder
	b.WriteString("{lambda(")
	writeParams(&b, n.Params)
	fmt.Fprintf(&b, ")#%d}", discriminatorNumber(n.Num))
	return b.String()
}

// UnnamedType is an unnamed type: {unnamed type#N}.
type UnnamedType struct {
	Num int
}

func (n *UnnamedType) Kind() NodeKind { return NodeKindUnnamedType }

func (n *UnnamedType) String() string {
	return fmt.Sprintf("{unnamed type#%d}", discriminatorNumber(n.Num))
}

// discriminatorNumber maps the mangled counter to the printed one: an absent
// number (-1) is #1, 0 is #2, and so on.
func discriminatorNumber(num int) int {
	return num + 2
}

// LocalName is an entity scoped inside a function, function::entity.
type LocalName struct {
	Scope  Node
	Entity Node
}

func (n *LocalName) Kind() NodeKind { return NodeKindLocalName }
func (n *LocalName) String() string { return n.Scope.String() + "::" + n.Entity.String() }

// SpecialName is a compiler-generated entity described by a fixed phrase,
// such as "vtable for X" or "guard variable for X".
type SpecialName struct {
	Prefix string
	Target Node
}

func (n *SpecialName) Kind() NodeKind { return NodeKindSpecialName }
func (n *SpecialName) String() string { return n.Prefix + n.Target.String() }

// CtorVtable is a construction vtable, "construction vtable for B-in-D".
type CtorVtable struct {
	Base    Node
	Derived Node
}

func (n *CtorVtable) Kind() NodeKind { return NodeKindCtorVtable }

func (n *CtorVtable) String() string {
	return "construction vtable for " + n.Base.String() + "-in-" + n.Derived.String()
}

// CVQualifiers are the const/volatile/restrict qualifiers of a type or a
// member function.
type CVQualifiers struct {
	Const    bool
	Volatile bool
	Restrict bool
}

func (q CVQualifiers) IsEmpty() bool {
	return !q.Const && !q.Volatile && !q.Restrict
}

// String renders the qualifiers with a leading space before each keyword,
// ready to be appended after a type.
func (q CVQualifiers) String() string {
	var b strings.Builder
	if q.Const {
		b.WriteString(" const")
	}
	if q.Volatile {
		b.WriteString(" volatile")
	}
	if q.Restrict {
		b.WriteString(" restrict")
	}
	return b.String()
}

// RefQualifier is a member function reference qualifier.
type RefQualifier int

const (
	RefQualifierNone RefQualifier = iota
	RefQualifierLValue
	RefQualifierRValue
)

func (r RefQualifier) String() string {
	switch r {
	case RefQualifierLValue:
		return " &"
	case RefQualifierRValue:
		return " &&"
	default:
		return ""
	}
}

// BuiltinType is a fundamental type from the fixed ABI table.
type BuiltinType struct {
	Name string
}

func (n *BuiltinType) Kind() NodeKind { return NodeKindBuiltinType }
func (n *BuiltinType) String() string { return n.Name }

// QualifiedType is a cv-qualified type.
type QualifiedType struct {
	Inner Node
	Quals CVQualifiers
}

func (n *QualifiedType) Kind() NodeKind { return NodeKindQualifiedType }
func (n *QualifiedType) String() string { return typeString(n) }

// VendorQualifiedType is a type with a vendor extended qualifier.
type VendorQualifiedType struct {
	Inner Node
	Qual  string
}

func (n *VendorQualifiedType) Kind() NodeKind { return NodeKindVendorQualifiedType }
func (n *VendorQualifiedType) String() string { return typeString(n) }

// PointerAffinity distinguishes pointers from the two reference forms.
type PointerAffinity int

const (
	AffinityPointer PointerAffinity = iota
	AffinityReference
	AffinityRValueReference
)

// PointerType is a pointer, lvalue reference, or rvalue reference.
type PointerType struct {
	Pointee  Node
	Affinity PointerAffinity
}

func (n *PointerType) Kind() NodeKind { return NodeKindPointerType }
func (n *PointerType) String() string { return typeString(n) }

// ComplexType is a C99 _Complex or _Imaginary type.
type ComplexType struct {
	Inner     Node
	Imaginary bool
}

func (n *ComplexType) Kind() NodeKind { return NodeKindComplexType }
func (n *ComplexType) String() string { return typeString(n) }

// FunctionType is a function signature used as a type (behind pointers,
// references, or pointers to member).
type FunctionType struct {
	Return Node
	Params []Node
	Quals  CVQualifiers
	Ref    RefQualifier
}

func (n *FunctionType) Kind() NodeKind { return NodeKindFunctionType }
func (n *FunctionType) String() string { return typeString(n) }

// ArrayType is an array; Size is nil for arrays of unknown bound and may be
// an expression node for dependent bounds.
type ArrayType struct {
	Element Node
	Size    Node
}

func (n *ArrayType) Kind() NodeKind { return NodeKindArrayType }
func (n *ArrayType) String() string { return typeString(n) }

// VectorType is a GNU vector extension type.
type VectorType struct {
	Element Node
	Size    int
}

func (n *VectorType) Kind() NodeKind { return NodeKindVectorType }
func (n *VectorType) String() string { return typeString(n) }

// PtrMemType is a pointer to member.
type PtrMemType struct {
	Class  Node
	Member Node
}

func (n *PtrMemType) Kind() NodeKind { return NodeKindPtrMemType }
func (n *PtrMemType) String() string { return typeString(n) }

// PackExpansion is pattern... in a template argument or expression.
type PackExpansion struct {
	Pattern Node
}

func (n *PackExpansion) Kind() NodeKind { return NodeKindPackExpansion }
func (n *PackExpansion) String() string { return n.Pattern.String() + "..." }

// ArgPack is a template argument pack.
type ArgPack struct {
	Args []Node
}

func (n *ArgPack) Kind() NodeKind { return NodeKindArgPack }

func (n *ArgPack) String() string {
	var b strings.Builder
	writeParams(&b, n.Args)
	return b.String()
}

// FunctionSymbol is a top-level function encoding: name plus signature.
type FunctionSymbol struct {
	Name   Node
	Return Node // nil unless the name is a template-id
	Params []Node
	Quals  CVQualifiers
	Ref    RefQualifier
}

func (n *FunctionSymbol) Kind() NodeKind { return NodeKindFunctionSymbol }

func (n *FunctionSymbol) String() string {
	var b strings.Builder
	if n.Return != nil {
		b.WriteString(typeString(n.Return))
		b.WriteByte(' ')
	}
	b.WriteString(n.Name.String())
	b.WriteByte('(')
	writeParams(&b, n.Params)
	b.WriteByte(')')
	b.WriteString(n.Quals.String())
	b.WriteString(n.Ref.String())
	return b.String()
}

// Literal is an <expr-primary> literal with its type.
type Literal struct {
	Type  Node
	Value string
}

func (n *Literal) Kind() NodeKind { return NodeKindLiteral }

func (n *Literal) String() string {
	value := n.Value
	if strings.HasPrefix(value, "n") {
		value = "-" + value[1:]
	}
	if bt, ok := n.Type.(*BuiltinType); ok {
		switch bt.Name {
		case "int":
			return value
		case "bool":
			switch value {
			case "0":
				return "false"
			case "1":
				return "true"
			}
		case "unsigned int":
			return value + "u"
		case "long":
			return value + "l"
		case "unsigned long":
			return value + "ul"
		case "long long":
			return value + "ll"
		case "unsigned long long":
			return value + "ull"
		case "decltype(nullptr)", "std::nullptr_t":
			return "nullptr"
		}
	}
	return "(" + typeString(n.Type) + ")" + value
}

// UnaryExpr is a unary operator expression.
type UnaryExpr struct {
	Op      string
	Operand Node
	Suffix  bool // postfix ++/--
}

func (n *UnaryExpr) Kind() NodeKind { return NodeKindUnaryExpr }

func (n *UnaryExpr) String() string {
	if n.Suffix {
		return "(" + n.Operand.String() + ")" + n.Op
	}
	return n.Op + "(" + n.Operand.String() + ")"
}

// BinaryExpr is a binary operator expression.
type BinaryExpr struct {
	Op    string
	Left  Node
	Right Node
}

func (n *BinaryExpr) Kind() NodeKind { return NodeKindBinaryExpr }

func (n *BinaryExpr) String() string {
	return "(" + n.Left.String() + ")" + n.Op + "(" + n.Right.String() + ")"
}

// TernaryExpr is cond ? then : else.
type TernaryExpr struct {
	Cond Node
	Then Node
	Else Node
}

func (n *TernaryExpr) Kind() NodeKind { return NodeKindTernaryExpr }

func (n *TernaryExpr) String() string {
	return "(" + n.Cond.String() + ")?(" + n.Then.String() + "):(" + n.Else.String() + ")"
}

// CallExpr is callee(args...).
type CallExpr struct {
	Callee Node
	Args   []Node
}

func (n *CallExpr) Kind() NodeKind { return NodeKindCallExpr }

func (n *CallExpr) String() string {
	var b strings.Builder
	b.WriteString(n.Callee.String())
	b.WriteByte('(')
	writeParams(&b, n.Args)
	b.WriteByte(')')
	return b.String()
}

// ConvExpr is a conversion (T)(args).
type ConvExpr struct {
	Type Node
	Args []Node
}

func (n *ConvExpr) Kind() NodeKind { return NodeKindConvExpr }

func (n *ConvExpr) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(typeString(n.Type))
	b.WriteString(")(")
	writeParams(&b, n.Args)
	b.WriteByte(')')
	return b.String()
}

// SizeofType is sizeof/alignof applied to a type.
type SizeofType struct {
	Operator string // "sizeof" or "alignof"
	Type     Node
}

func (n *SizeofType) Kind() NodeKind { return NodeKindSizeofType }
func (n *SizeofType) String() string { return n.Operator + " (" + typeString(n.Type) + ")" }

// SizeofPack is sizeof...(pack).
type SizeofPack struct {
	Pack Node
}

func (n *SizeofPack) Kind() NodeKind { return NodeKindSizeofPack }
func (n *SizeofPack) String() string { return "sizeof...(" + n.Pack.String() + ")" }

// FunctionParam is a reference to an enclosing function parameter inside a
// dependent expression, printed as {parm#N}.
type FunctionParam struct {
	Num int
}

func (n *FunctionParam) Kind() NodeKind { return NodeKindFunctionParam }
func (n *FunctionParam) String() string { return fmt.Sprintf("{parm#%d}", n.Num) }

// Decltype is decltype(expr).
type Decltype struct {
	Expr Node
}

func (n *Decltype) Kind() NodeKind { return NodeKindDecltype }
func (n *Decltype) String() string { return "decltype (" + n.Expr.String() + ")" }
