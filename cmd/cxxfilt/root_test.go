package main

import "testing"

func TestRewriteLine(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"no symbols here", "no symbols here"},
		{"0000000000001130 T _Z1fv", "0000000000001130 T f()"},
		{"_Z1fi and _Z1gv", "f(int) and g()"},
		{"U _ZNSt6vectorIiSaIiEE9push_backERKi",
			"U std::vector<int, std::allocator<int> >::push_back(int const&)"},
		// Invalid names pass through unchanged outside strict mode.
		{"call _ZQQ here", "call _ZQQ here"},
	}
	for _, c := range cases {
		got, err := rewriteLine(c.in, nil)
		if err != nil {
			t.Fatalf("rewriteLine(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("rewriteLine(%q)\n got: %s\nwant: %s", c.in, got, c.want)
		}
	}
}

func TestIsSymbolChar(t *testing.T) {
	for _, c := range []byte("azAZ09_$.?@") {
		if !isSymbolChar(c) {
			t.Errorf("isSymbolChar(%q) = false", c)
		}
	}
	for _, c := range []byte(" \t+-(),:<>") {
		if isSymbolChar(c) {
			t.Errorf("isSymbolChar(%q) = true", c)
		}
	}
}
