// Package cxxfilt converts compiler-mangled C++ symbol names to their
// human-readable source form, like the c++filt tool.
//
// Demangling is a pure computation: no cgo, no system demangler, no state
// shared between calls. External linker symbols use the Itanium ABI scheme
// (the _Z prefix emitted by GCC and Clang); WithInternal additionally
// accepts the relaxed forms compilers use internally and MSVC ?-decorated
// names.
package cxxfilt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cxxabi/cxxfilt-go/internal/itanium"
	"github.com/cxxabi/cxxfilt-go/internal/msvc"
)

// ErrInvalidName matches any demangling failure via errors.Is.
var ErrInvalidName = errors.New("cxxfilt: invalid mangled name")

// InvalidNameError reports a name that claimed to be mangled but failed to
// parse. Name is the original input, Err the parser's diagnosis.
type InvalidNameError struct {
	Name string
	Err  error
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("cxxfilt: invalid mangled name %q: %v", e.Name, e.Err)
}

func (e *InvalidNameError) Unwrap() error { return e.Err }

func (e *InvalidNameError) Is(target error) bool { return target == ErrInvalidName }

type options struct {
	internal bool
}

// Option configures a Demangle call.
type Option func(*options)

// WithInternal also accepts symbols that never reach the linker: bare
// encodings and types without the _Z prefix, and MSVC ?-decorated names.
func WithInternal() Option {
	return func(o *options) { o.internal = true }
}

// IsMangled reports whether name looks like a mangled C++ symbol.
func IsMangled(name string) bool {
	return strings.HasPrefix(name, "_Z") || msvc.IsMangled(name)
}

// Demangle converts a mangled name to readable form.
//
// A _Z-prefixed name must parse completely or the call fails with an
// *InvalidNameError. Anything else is returned unchanged, unless
// WithInternal is given: then ?-prefixed names go through the MSVC
// demangler, and remaining names are tried as a bare Itanium encoding and
// then as a bare type, falling back to identity.
func Demangle(name string, opts ...Option) (string, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if strings.HasPrefix(name, "_Z") {
		out, err := itanium.Demangle(name)
		if err != nil {
			return "", &InvalidNameError{Name: name, Err: err}
		}
		return out, nil
	}

	if !o.internal {
		return name, nil
	}

	if msvc.IsMangled(name) {
		out, err := msvc.Demangle(name)
		if err != nil {
			return "", &InvalidNameError{Name: name, Err: err}
		}
		return out, nil
	}

	if out, err := itanium.DemangleInternal(name); err == nil {
		return out, nil
	}
	return name, nil
}

// DemangleBytes is Demangle for byte slices. The result is always a fresh
// slice.
func DemangleBytes(name []byte, opts ...Option) ([]byte, error) {
	out, err := Demangle(string(name), opts...)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
