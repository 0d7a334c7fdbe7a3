package itanium

import "testing"

func TestCursorSeqID(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"_", 0},
		{"0_", 1},
		{"9_", 10},
		{"A_", 11},
		{"Z_", 36},
		{"10_", 37},
	}
	for _, c := range cases {
		cur := cursor{input: c.input}
		got, err := cur.readSeqID()
		if err != nil {
			t.Fatalf("readSeqID(%q): %v", c.input, err)
		}
		if got != c.want {
			t.Errorf("readSeqID(%q) = %d, want %d", c.input, got, c.want)
		}
		if !cur.eof() {
			t.Errorf("readSeqID(%q) left input behind", c.input)
		}
	}

	for _, bad := range []string{"", "1", "a_", "1a_"} {
		cur := cursor{input: bad}
		if _, err := cur.readSeqID(); err == nil {
			t.Errorf("readSeqID(%q) succeeded, want error", bad)
		}
	}
}

func TestCursorSourceName(t *testing.T) {
	cur := cursor{input: "3foo6vectorX"}
	for _, want := range []string{"foo", "vector"} {
		got, err := cur.readSourceName()
		if err != nil {
			t.Fatalf("readSourceName: %v", err)
		}
		if got != want {
			t.Errorf("readSourceName = %q, want %q", got, want)
		}
	}

	for _, bad := range []string{"", "x", "0", "9abc"} {
		cur := cursor{input: bad}
		if _, err := cur.readSourceName(); err == nil {
			t.Errorf("readSourceName(%q) succeeded, want error", bad)
		}
	}
}

func TestCursorNumber(t *testing.T) {
	cur := cursor{input: "n12_"}
	got, err := cur.readNumber()
	if err != nil || got != -12 {
		t.Fatalf("readNumber = %d, %v; want -12", got, err)
	}
	if err := cur.expect('_'); err != nil {
		t.Fatalf("expect('_'): %v", err)
	}
}
