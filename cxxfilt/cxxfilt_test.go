package cxxfilt

import (
	"bytes"
	"errors"
	"testing"
)

func TestDemangleExternal(t *testing.T) {
	cases := []struct{ name, want string }{
		{"_Z1fv", "f()"},
		{"_ZNSt22condition_variable_anyD2Ev",
			"std::condition_variable_any::~condition_variable_any()"},
		{"_ZN4_VTVISt13bad_exceptionE12__vtable_mapE",
			"_VTV<std::bad_exception>::__vtable_map"},
		{"_ZNSt6vectorIiSaIiEE9push_backERKi",
			"std::vector<int, std::allocator<int> >::push_back(int const&)"},
	}
	for _, c := range cases {
		got, err := Demangle(c.name)
		if err != nil {
			t.Fatalf("Demangle(%q): %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("Demangle(%q)\n got: %s\nwant: %s", c.name, got, c.want)
		}
	}
}

func TestDemangleIdentity(t *testing.T) {
	// Names without the external prefix pass through untouched.
	for _, name := range []string{"", "main", "a", "printf", "N3foo12BarExceptionE", "?h@@YAXH@Z", "not a symbol"} {
		got, err := Demangle(name)
		if err != nil {
			t.Fatalf("Demangle(%q): %v", name, err)
		}
		if got != name {
			t.Errorf("Demangle(%q) = %q, want identity", name, got)
		}
	}
}

func TestDemangleInvalid(t *testing.T) {
	for _, name := range []string{"_Z", "_ZQQ", "_Z1fv junk"} {
		_, err := Demangle(name)
		if err == nil {
			t.Fatalf("Demangle(%q) succeeded, want error", name)
		}
		if !errors.Is(err, ErrInvalidName) {
			t.Errorf("Demangle(%q) error does not match ErrInvalidName: %v", name, err)
		}
		var invalid *InvalidNameError
		if !errors.As(err, &invalid) {
			t.Fatalf("Demangle(%q) error is %T, want *InvalidNameError", name, err)
		}
		if invalid.Name != name {
			t.Errorf("InvalidNameError.Name = %q, want %q", invalid.Name, name)
		}
		if invalid.Unwrap() == nil {
			t.Errorf("InvalidNameError for %q carries no cause", name)
		}
	}
}

func TestDemangleInternal(t *testing.T) {
	cases := []struct{ name, want string }{
		{"Z4mainEUlvE_", "main::{lambda()#1}"},
		{"a", "signed char"},
		{"St13bad_exception", "std::bad_exception"},
		{"N3foo12BarExceptionE", "foo::BarException"},
		{"_Z1fv", "f()"}, // external names still work
		{"?h@@YAXH@Z", "void h(int)"},
		{"??0Foo@@QAE@XZ", "public: __thiscall Foo::Foo()"},
		{"??1_Sentry_base@?$basic_ostream@DU?$char_traits@D@std@@@std@@QAE@XZ",
			"public: __thiscall std::basic_ostream<char, struct std::char_traits<char> >::_Sentry_base::~_Sentry_base()"},
	}
	for _, c := range cases {
		got, err := Demangle(c.name, WithInternal())
		if err != nil {
			t.Fatalf("Demangle(%q, WithInternal): %v", c.name, err)
		}
		if got != c.want {
			t.Fatalf("Demangle(%q, WithInternal)\n got: %s\nwant: %s", c.name, got, c.want)
		}
	}
}

func TestDemangleInternalIdentity(t *testing.T) {
	// Internal mode still never fails on names that are simply not mangled.
	for _, name := range []string{"main", "QQQ", "hello world", ""} {
		got, err := Demangle(name, WithInternal())
		if err != nil {
			t.Fatalf("Demangle(%q, WithInternal): %v", name, err)
		}
		if got != name {
			t.Errorf("Demangle(%q, WithInternal) = %q, want identity", name, got)
		}
	}
}

func TestDemangleInternalInvalidMSVC(t *testing.T) {
	_, err := Demangle("?broken", WithInternal())
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("got %v, want ErrInvalidName", err)
	}
}

func TestDemangleSubstitutionEquivalence(t *testing.T) {
	// A back-referenced type renders the same as one spelled out in full.
	compressed, err := Demangle("_Z1fN3foo3BarES0_")
	if err != nil {
		t.Fatal(err)
	}
	spelled, err := Demangle("_Z1fN3foo3BarEN3foo3BarE")
	if err != nil {
		t.Fatal(err)
	}
	if compressed != spelled {
		t.Fatalf("substitution form %q != spelled-out form %q", compressed, spelled)
	}
	if want := "f(foo::Bar, foo::Bar)"; compressed != want {
		t.Fatalf("got %q, want %q", compressed, want)
	}
}

func TestDemangleBytes(t *testing.T) {
	got, err := DemangleBytes([]byte("_Z1fv"))
	if err != nil {
		t.Fatalf("DemangleBytes: %v", err)
	}
	if !bytes.Equal(got, []byte("f()")) {
		t.Fatalf("DemangleBytes = %q, want %q", got, "f()")
	}

	if _, err := DemangleBytes([]byte("_ZQQ")); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("DemangleBytes invalid: got %v, want ErrInvalidName", err)
	}
}

func TestIsMangled(t *testing.T) {
	for _, name := range []string{"_Z1fv", "_Z", "?h@@YAXH@Z", "@?imp@@YAXXZ"} {
		if !IsMangled(name) {
			t.Errorf("IsMangled(%q) = false", name)
		}
	}
	for _, name := range []string{"", "main", "Z4mainE", "zmain"} {
		if IsMangled(name) {
			t.Errorf("IsMangled(%q) = true", name)
		}
	}
}

func TestDemangleConcurrent(t *testing.T) {
	// Calls share nothing; concurrent use must be safe.
	done := make(chan struct{})
	for n := 0; n < 8; n++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for n := 0; n < 100; n++ {
				got, err := Demangle("_ZNSt6vectorIiSaIiEE9push_backERKi")
				if err != nil || got != "std::vector<int, std::allocator<int> >::push_back(int const&)" {
					t.Errorf("concurrent Demangle: %q, %v", got, err)
					return
				}
			}
		}()
	}
	for n := 0; n < 8; n++ {
		<-done
	}
}
