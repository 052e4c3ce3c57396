package security

import "testing"

func TestClean_StripsMarkup(t *testing.T) {
	s := NewTextSanitizer()

	cases := []struct {
		in   string
		want string
	}{
		{"Data Structures", "Data Structures"},
		{"<script>alert(1)</script>DSA", "DSA"},
		{"<b>week</b> 3", "week 3"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, c := range cases {
		if got := s.Clean(c.in); got != c.want {
			t.Errorf("Clean(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestClean_Idempotent(t *testing.T) {
	s := NewTextSanitizer()

	once := s.Clean("<i>algo</i> notes")
	twice := s.Clean(once)
	if once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}
