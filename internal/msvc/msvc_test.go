package msvc

import "testing"

func wantDemangle(t *testing.T, decorated, want string) {
	t.Helper()
	got, err := Demangle(decorated)
	if err != nil {
		t.Fatalf("Demangle(%q): %v", decorated, err)
	}
	if got != want {
		t.Fatalf("Demangle(%q)\n got: %s\nwant: %s", decorated, got, want)
	}
}

func TestDemangleFunctions(t *testing.T) {
	cases := []struct{ decorated, want string }{
		{"?h@@YAXH@Z", "void h(int)"},
		{"?add@@YAHHH@Z", "int add(int, int)"},
		{"?pi@@YANXZ", "double pi()"},
		{"?printf@@YAHPBDZZ", "int printf(char const *, ...)"},
	}
	for _, c := range cases {
		wantDemangle(t, c.decorated, c.want)
	}
}

func TestDemangleMembers(t *testing.T) {
	cases := []struct{ decorated, want string }{
		{"??0Foo@@QAE@XZ", "public: __thiscall Foo::Foo()"},
		{"??1Foo@@UAE@XZ", "public: virtual __thiscall Foo::~Foo()"},
		{"?f@Foo@@QBEHH@Z", "public: int __thiscall Foo::f(int) const"},
		{"?sf@Foo@@SAHXZ", "public: static int Foo::sf()"},
		{"??4Bar@@QAEAAV0@ABV0@@Z",
			"public: class Bar & __thiscall Bar::operator=(class Bar const &)"},
		{"??BFoo@@QAEHXZ", "public: __thiscall Foo::operator int()"},
	}
	for _, c := range cases {
		wantDemangle(t, c.decorated, c.want)
	}
}

func TestDemangleVariables(t *testing.T) {
	cases := []struct{ decorated, want string }{
		{"?x@@3HA", "int x"},
		{"?flag@@3_NA", "bool flag"},
		{"?x@Foo@@2HB", "public: static int Foo::x"},
		{"?name@ns@@3PBDB", "char const * ns::name"},
	}
	for _, c := range cases {
		wantDemangle(t, c.decorated, c.want)
	}
}

func TestDemangleTemplatesAndBackrefs(t *testing.T) {
	cases := []struct{ decorated, want string }{
		{"??$max@H@std@@YAHHH@Z", "int std::max<int>(int, int)"},
		{"?g@@YAXUA@@0@Z", "void g(struct A, struct A)"},
		{"?both@@YAXVWidget@gui@@0@Z",
			"void both(class gui::Widget, class gui::Widget)"},
		// Nested instantiation: the inner char_traits template carries its
		// own back-reference scope, and the whole instantiation becomes a
		// back-reference candidate in the enclosing name.
		{"??1_Sentry_base@?$basic_ostream@DU?$char_traits@D@std@@@std@@QAE@XZ",
			"public: __thiscall std::basic_ostream<char, struct std::char_traits<char> >::_Sentry_base::~_Sentry_base()"},
	}
	for _, c := range cases {
		wantDemangle(t, c.decorated, c.want)
	}
}

func TestDemangleSpecialSymbols(t *testing.T) {
	cases := []struct{ decorated, want string }{
		{"??_7Foo@@6B@", "Foo::`vftable'"},
		{"??_8Foo@@7B@", "Foo::`vbtable'"},
	}
	for _, c := range cases {
		wantDemangle(t, c.decorated, c.want)
	}
}

func TestDemangleFunctionPointerParam(t *testing.T) {
	wantDemangle(t, "?set@@YAXP6AHH@Z@Z", "void set(int (*)(int))")
}

func TestDemangleInvalid(t *testing.T) {
	cases := []string{
		"",
		"main",      // not decorated at all
		"?",         // nothing after the prefix
		"?f",        // name never terminated
		"?f@@YA",    // missing return type
		"?f@@YAQQ",  // no such type code
		"?x@@3Z",    // 'Z' is not a type
		"?f@@YAX9@", // type back-reference before any type
	}
	for _, m := range cases {
		if _, err := Demangle(m); err == nil {
			t.Errorf("Demangle(%q) succeeded, want error", m)
		}
	}
}

func TestIsMangled(t *testing.T) {
	for _, name := range []string{"?h@@YAXH@Z", "@?import@@YAXXZ"} {
		if !IsMangled(name) {
			t.Errorf("IsMangled(%q) = false", name)
		}
	}
	for _, name := range []string{"", "main", "_Z1fv"} {
		if IsMangled(name) {
			t.Errorf("IsMangled(%q) = true", name)
		}
	}
}
