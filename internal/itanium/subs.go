package itanium

// substitutions is the back-reference arena for one parse. Entries are
// references to previously built nodes, appended in parse order and never
// mutated; S_ resolves to index 0, S0_ to index 1, and so on.
type substitutions struct {
	nodes []Node
}

func (s *substitutions) add(n Node) {
	s.nodes = append(s.nodes, n)
}

// lookup resolves a numbered back-reference. Forward and out-of-range
// references are grammar violations.
func (s *substitutions) lookup(idx int) (Node, error) {
	if idx < 0 || idx >= len(s.nodes) {
		return nil, ErrInvalidBackref
	}
	return s.nodes[idx], nil
}

// pop discards the most recent entry. The nested-name rule uses it to drop
// the complete name, which is not a substitution candidate (only its
// prefixes are).
func (s *substitutions) pop() {
	if len(s.nodes) > 0 {
		s.nodes = s.nodes[:len(s.nodes)-1]
	}
}

func stdScope() Node { return &Name{Value: "std"} }

func stdQualified(name string) Node {
	return &Qualified{Scope: stdScope(), Name: &Name{Value: name}}
}

func charTraitsChar() Node {
	return &Template{
		Base: stdQualified("char_traits"),
		Args: []Node{&BuiltinType{Name: "char"}},
	}
}

func charStream(name string) Node {
	return &Template{
		Base: stdQualified(name),
		Args: []Node{&BuiltinType{Name: "char"}, charTraitsChar()},
	}
}

// standardSubstitution resolves the fixed two-character abbreviations of the
// grammar (St, Sa, Sb, Ss, Si, So, Sd). Nodes are built fresh per call so no
// state ever crosses two parses.
func standardSubstitution(code byte) (Node, bool) {
	switch code {
	case 't':
		return stdScope(), true
	case 'a':
		return stdQualified("allocator"), true
	case 'b':
		return stdQualified("basic_string"), true
	case 's':
		return &Template{
			Base: stdQualified("basic_string"),
			Args: []Node{
				&BuiltinType{Name: "char"},
				charTraitsChar(),
				&Template{
					Base: stdQualified("allocator"),
					Args: []Node{&BuiltinType{Name: "char"}},
				},
			},
		}, true
	case 'i':
		return charStream("basic_istream"), true
	case 'o':
		return charStream("basic_ostream"), true
	case 'd':
		return charStream("basic_iostream"), true
	default:
		return nil, false
	}
}
