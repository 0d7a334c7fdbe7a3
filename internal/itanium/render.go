package itanium

import (
	"strconv"
	"strings"
)

// C++ declarator syntax is not a direct tree-to-text mapping: pointer,
// reference, array, and function modifiers wrap around an inner declarator.
// Every type therefore renders as a prefix and a suffix; the spot between
// the two is where a declared name would go, and is where a pointer to a
// function or array inserts its "(*)".

func typeString(n Node) string {
	var b strings.Builder
	typePrefix(&b, n)
	typeSuffix(&b, n)
	return b.String()
}

func typePrefix(b *strings.Builder, n Node) {
	switch t := n.(type) {
	case *QualifiedType:
		typePrefix(b, t.Inner)
		b.WriteString(t.Quals.String())
	case *VendorQualifiedType:
		typePrefix(b, t.Inner)
		b.WriteByte(' ')
		b.WriteString(t.Qual)
	case *PointerType:
		typePrefix(b, t.Pointee)
		if needsInnerParens(t.Pointee) {
			openInnerParen(b)
		}
		switch t.Affinity {
		case AffinityReference:
			b.WriteByte('&')
		case AffinityRValueReference:
			b.WriteString("&&")
		default:
			b.WriteByte('*')
		}
	case *ComplexType:
		typePrefix(b, t.Inner)
		if t.Imaginary {
			b.WriteString(" _Imaginary")
		} else {
			b.WriteString(" _Complex")
		}
	case *FunctionType:
		typePrefix(b, t.Return)
		b.WriteByte(' ')
	case *ArrayType:
		typePrefix(b, t.Element)
	case *VectorType:
		typePrefix(b, t.Element)
	case *PtrMemType:
		typePrefix(b, t.Member)
		if needsInnerParens(t.Member) {
			openInnerParen(b)
		} else {
			b.WriteByte(' ')
		}
		b.WriteString(t.Class.String())
		b.WriteString("::*")
	default:
		b.WriteString(n.String())
	}
}

func typeSuffix(b *strings.Builder, n Node) {
	switch t := n.(type) {
	case *QualifiedType:
		typeSuffix(b, t.Inner)
	case *VendorQualifiedType:
		typeSuffix(b, t.Inner)
	case *PointerType:
		if needsInnerParens(t.Pointee) {
			b.WriteByte(')')
		}
		typeSuffix(b, t.Pointee)
	case *ComplexType:
		typeSuffix(b, t.Inner)
	case *FunctionType:
		b.WriteByte('(')
		writeParams(b, t.Params)
		b.WriteByte(')')
		b.WriteString(t.Quals.String())
		b.WriteString(t.Ref.String())
		typeSuffix(b, t.Return)
	case *ArrayType:
		b.WriteString(" [")
		if t.Size != nil {
			b.WriteString(t.Size.String())
		}
		b.WriteByte(']')
		typeSuffix(b, t.Element)
	case *VectorType:
		b.WriteString(" __vector(")
		b.WriteString(strconv.Itoa(t.Size))
		b.WriteByte(')')
		typeSuffix(b, t.Element)
	case *PtrMemType:
		if needsInnerParens(t.Member) {
			b.WriteByte(')')
		}
		typeSuffix(b, t.Member)
	}
}

// openInnerParen starts a wrapped declarator, separating the paren from
// the element type with a space: int (*) [5], not int(*) [5]. A function
// type's prefix already ends with the space after its return type.
func openInnerParen(b *strings.Builder) {
	if s := b.String(); len(s) > 0 && s[len(s)-1] != ' ' {
		b.WriteByte(' ')
	}
	b.WriteByte('(')
}

// needsInnerParens reports whether a declarator wrapped around n must be
// parenthesized, as in void (*)(int) or int (*) [5].
func needsInnerParens(n Node) bool {
	switch t := n.(type) {
	case *QualifiedType:
		return needsInnerParens(t.Inner)
	case *VendorQualifiedType:
		return needsInnerParens(t.Inner)
	}
	k := n.Kind()
	return k == NodeKindFunctionType || k == NodeKindArrayType
}

func writeParams(b *strings.Builder, params []Node) {
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(typeString(p))
	}
}

// templateArgList renders <args...>, keeping the historical "> >" spelling
// when the last argument itself ends in a closing angle bracket.
func templateArgList(args []Node) string {
	var b strings.Builder
	b.WriteByte('<')
	writeParams(&b, args)
	inner := b.String()
	if strings.HasSuffix(inner, ">") {
		return inner + " >"
	}
	return inner + ">"
}

// baseName is the unqualified, untemplated spelling of a name, used when a
// constructor or destructor renders as its enclosing class.
func baseName(n Node) string {
	switch t := n.(type) {
	case *Name:
		return t.Value
	case *Qualified:
		return baseName(t.Name)
	case *Template:
		return baseName(t.Base)
	case *LocalName:
		return baseName(t.Entity)
	default:
		return n.String()
	}
}
