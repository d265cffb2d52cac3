package utils

import "testing"

func TestFormatRupiah(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "Rp0"},
		{500, "Rp500"},
		{2500000, "Rp2.500.000"},
		{-75000, "-Rp75.000"},
	}
	for _, c := range cases {
		if got := FormatRupiah(c.in); got != c.want {
			t.Fatalf("FormatRupiah(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseRupiahToInt(t *testing.T) {
	v, err := ParseRupiahToInt("Rp 2.500.000")
	if err != nil {
		t.Fatalf("ParseRupiahToInt error: %v", err)
	}
	if v != 2500000 {
		t.Fatalf("expected 2500000, got %d", v)
	}
	if _, err := ParseRupiahToInt("Rp "); err == nil {
		t.Fatalf("blank amount must error")
	}
}
