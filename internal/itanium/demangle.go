package itanium

// Demangle converts a _Z-prefixed external symbol to its C++ declaration.
// The whole input must parse; trailing bytes are an error.
func Demangle(name string) (string, error) {
	d := newDemangler(name)
	if !d.cur.consume("_Z") {
		return "", ErrInvalidMangled
	}
	n, err := d.parseEncoding()
	if err != nil {
		return "", err
	}
	if !d.cur.eof() {
		return "", ErrInvalidMangled
	}
	return n.String(), nil
}

// DemangleInternal accepts the relaxed forms compilers use for symbols that
// never reach the linker: a bare <encoding> without the _Z prefix, or a bare
// <type>.
func DemangleInternal(name string) (string, error) {
	d := newDemangler(name)
	if n, err := d.parseEncoding(); err == nil && d.cur.eof() {
		return n.String(), nil
	}

	d = newDemangler(name)
	t, err := d.parseType()
	if err != nil {
		return "", err
	}
	if !d.cur.eof() {
		return "", ErrInvalidMangled
	}
	return typeString(t), nil
}
