package utils

import "testing"

func TestSplitPhoneList(t *testing.T) {
	got := SplitPhoneList("0811, 0812;0813\n0814")
	if len(got) != 4 || got[0] != "0811" || got[3] != "0814" {
		t.Fatalf("unexpected split: %v", got)
	}
	if got := SplitPhoneList("  "); len(got) != 0 {
		t.Fatalf("blank input should yield no numbers, got %v", got)
	}
}

func TestNormalizeSpace(t *testing.T) {
	if got := NormalizeSpace("  Hotel   Mawar \n Denpasar "); got != "Hotel Mawar Denpasar" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}
