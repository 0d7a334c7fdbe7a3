package itanium

import (
	"errors"
	"strings"
	"testing"
)

func demangled(t *testing.T, mangled string) string {
	t.Helper()
	out, err := Demangle(mangled)
	if err != nil {
		t.Fatalf("Demangle(%q): %v", mangled, err)
	}
	return out
}

func wantDemangle(t *testing.T, mangled, want string) {
	t.Helper()
	if got := demangled(t, mangled); got != want {
		t.Fatalf("Demangle(%q)\n got: %s\nwant: %s", mangled, got, want)
	}
}

func TestDemangleFunctions(t *testing.T) {
	cases := []struct{ mangled, want string }{
		{"_Z1fv", "f()"},
		{"_Z3foo3bar", "foo(bar)"},
		{"_Z4funciRKi", "func(int, int const&)"},
		{"_ZN1N1fEi", "N::f(int)"},
		{"_ZN3foo3bar3bazEshdiclnd", "foo::bar::baz(short, unsigned char, double, int, char, long, __int128, double)"},
		{"_Znwm", "operator new(unsigned long)"},
		{"_ZdlPv", "operator delete(void*)"},
		{"_ZSt9terminatev", "std::terminate()"},
		{"_ZSt4cout", "std::cout"},
	}
	for _, c := range cases {
		wantDemangle(t, c.mangled, c.want)
	}
}

func TestDemangleMemberFunctions(t *testing.T) {
	cases := []struct{ mangled, want string }{
		{"_ZN3FooC1Ev", "Foo::Foo()"},
		{"_ZN3FooC2Ev", "Foo::Foo()"},
		{"_ZN3FooD0Ev", "Foo::~Foo()"},
		{"_ZN3FooD1Ev", "Foo::~Foo()"},
		{"_ZN1AplERKS_", "A::operator+(A const&)"},
		{"_ZN1AcviEv", "A::operator int()"},
		{"_ZNK3Foo3barEv", "Foo::bar() const"},
		{"_ZNSt22condition_variable_anyD2Ev",
			"std::condition_variable_any::~condition_variable_any()"},
	}
	for _, c := range cases {
		wantDemangle(t, c.mangled, c.want)
	}
}

func TestDemangleTemplates(t *testing.T) {
	cases := []struct{ mangled, want string }{
		{"_Z4funcIiEvT_", "void func<int>(int)"},
		{"_Z3fooILi5EEvv", "void foo<5>()"},
		{"_Z3fooILb1EEvv", "void foo<true>()"},
		{"_Z1gIXplLi1ELi2EEEvv", "void g<(1)+(2)>()"},
		{"_ZN4_VTVISt13bad_exceptionE12__vtable_mapE",
			"_VTV<std::bad_exception>::__vtable_map"},
		{"_ZNSt6vectorIiSaIiEE9push_backERKi",
			"std::vector<int, std::allocator<int> >::push_back(int const&)"},
		{"_ZNSt6vectorIiSaIiEEC1Ev",
			"std::vector<int, std::allocator<int> >::vector()"},
		{"_ZNKSt6vectorIiSaIiEE4sizeEv",
			"std::vector<int, std::allocator<int> >::size() const"},
	}
	for _, c := range cases {
		wantDemangle(t, c.mangled, c.want)
	}
}

func TestDemangleStandardAbbreviations(t *testing.T) {
	cases := []struct{ mangled, want string }{
		{"_ZNSaIcEC1Ev", "std::allocator<char>::allocator()"},
		{"_ZNSirsERi",
			"std::basic_istream<char, std::char_traits<char> >::operator>>(int&)"},
		{"_Z1fSs",
			"f(std::basic_string<char, std::char_traits<char>, std::allocator<char> >)"},
		{"_ZNSt9exceptionD1Ev", "std::exception::~exception()"},
	}
	for _, c := range cases {
		wantDemangle(t, c.mangled, c.want)
	}
}

func TestDemangleSubstitutions(t *testing.T) {
	// S0_ must resolve to the second recorded candidate, and equal
	// components must demangle identically however they are spelled.
	wantDemangle(t, "_Z1fN3foo3BarES0_", "f(foo::Bar, foo::Bar)")
	wantDemangle(t, "_Z3fooPiPS_", "foo(int*, int**)")
}

func TestDemangleDeclarators(t *testing.T) {
	cases := []struct{ mangled, want string }{
		{"_Z1fPKc", "f(char const*)"},
		{"_Z1fOi", "f(int&&)"},
		{"_Z1fPFivE", "f(int (*)())"},
		{"_Z1fPFvidE", "f(void (*)(int, double))"},
		{"_Z1fPA5_i", "f(int (*) [5])"},
		{"_Z1fPPA5_i", "f(int (**) [5])"},
		{"_Z1fPA5_Kc", "f(char const (*) [5])"},
		{"_Z1fRA2_A3_d", "f(double (&) [2][3])"},
		{"_Z1fM1CFvvE", "f(void (C::*)())"},
		{"_Z1fM1CA5_i", "f(int (C::*) [5])"},
		{"_Z1fM1Ci", "f(int C::*)"},
	}
	for _, c := range cases {
		wantDemangle(t, c.mangled, c.want)
	}
}

func TestDemangleLocalNamesAndLambdas(t *testing.T) {
	cases := []struct{ mangled, want string }{
		{"_ZZ4mainE5local", "main::local"},
		{"_ZZ3fooiE3bar", "foo(int)::bar"},
		{"_ZZ3fooiE3bar_0", "foo(int)::bar"},
		{"_ZZ4mainENKUlvE_clEv", "main::{lambda()#1}::operator()() const"},
	}
	for _, c := range cases {
		wantDemangle(t, c.mangled, c.want)
	}
}

func TestDemangleSpecialNames(t *testing.T) {
	cases := []struct{ mangled, want string }{
		{"_ZTV3Foo", "vtable for Foo"},
		{"_ZTT3Foo", "VTT for Foo"},
		{"_ZTISt9exception", "typeinfo for std::exception"},
		{"_ZTSSt9exception", "typeinfo name for std::exception"},
		{"_ZThn8_N1A1fEv", "non-virtual thunk to A::f()"},
		{"_ZTv0_n12_N1A1fEv", "virtual thunk to A::f()"},
		{"_ZGVZ4mainE5mutex", "guard variable for main::mutex"},
		{"_ZTC1B0_1A", "construction vtable for A-in-B"},
	}
	for _, c := range cases {
		wantDemangle(t, c.mangled, c.want)
	}
}

func TestDemangleInvalid(t *testing.T) {
	cases := []string{
		"",
		"main",    // no _Z prefix
		"_Z",      // empty encoding
		"_ZQQ",    // no such production
		"_Z1",     // truncated source-name
		"_Z12345", // length runs past the input
		"_Z1fv.",  // trailing bytes
		"_ZSt",    // std:: with nothing after it
		"_Z1fS0_", // back-reference with no candidates
		"_Z1fT_",  // template param outside any template
		"_ZNEv",   // empty nested name
	}
	for _, m := range cases {
		if _, err := Demangle(m); err == nil {
			t.Errorf("Demangle(%q) succeeded, want error", m)
		}
	}
}

func TestDemangleDepthLimit(t *testing.T) {
	deep := "_Z1f" + strings.Repeat("P", maxDepth+10) + "i"
	_, err := Demangle(deep)
	if !errors.Is(err, ErrTooDeep) {
		t.Fatalf("got %v, want ErrTooDeep", err)
	}
}

func TestDemangleInternalForms(t *testing.T) {
	cases := []struct{ mangled, want string }{
		{"St13bad_exception", "std::bad_exception"},
		{"N3foo12BarExceptionE", "foo::BarException"},
		{"Z4mainEUlvE_", "main::{lambda()#1}"},
		{"i", "int"},
		{"PKc", "char const*"},
		{"5Arena", "Arena"},
	}
	for _, c := range cases {
		got, err := DemangleInternal(c.mangled)
		if err != nil {
			t.Fatalf("DemangleInternal(%q): %v", c.mangled, err)
		}
		if got != c.want {
			t.Fatalf("DemangleInternal(%q)\n got: %s\nwant: %s", c.mangled, got, c.want)
		}
	}
}

func TestDemangleInternalRejectsGarbage(t *testing.T) {
	for _, m := range []string{"", "QQQ", "N3fooE trailing"} {
		if _, err := DemangleInternal(m); err == nil {
			t.Errorf("DemangleInternal(%q) succeeded, want error", m)
		}
	}
}

func TestDemangleDeterministic(t *testing.T) {
	const m = "_ZNSt6vectorIiSaIiEE9push_backERKi"
	first := demangled(t, m)
	for n := 0; n < 16; n++ {
		if got := demangled(t, m); got != first {
			t.Fatalf("output changed between runs: %q vs %q", got, first)
		}
	}
}
