package tool

import "testing"

func TestMaskPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"13812345678", "138****5678"},
		{"1234567", "*******"},
		{"+8613812345678", "+86*******5678"},
	}
	for _, c := range cases {
		if got := MaskPhone(c.in); got != c.want {
			t.Errorf("MaskPhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"a@example.com", "*@example.com"},
		{"alice@example.com", "a****@example.com"},
		{"no-at-sign", "n********n"},
	}
	for _, c := range cases {
		if got := MaskEmail(c.in); got != c.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMask(t *testing.T) {
	if got := Mask("ab"); got != "**" {
		t.Errorf("Mask(\"ab\") = %q", got)
	}
	if got := Mask("secret"); got != "s****t" {
		t.Errorf("Mask(\"secret\") = %q", got)
	}
}
