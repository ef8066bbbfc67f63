package cli

import (
	"os"
	"testing"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SELENIUMD_T_STR", "val")
	t.Setenv("SELENIUMD_T_BOOL", "yes")
	t.Setenv("SELENIUMD_T_INT", " 42 ")
	t.Setenv("SELENIUMD_T_BAD", "x")
	os.Unsetenv("SELENIUMD_T_UNSET")

	if got := envStr("SELENIUMD_T_STR", "def"); got != "val" {
		t.Fatalf("envStr=%q", got)
	}
	if got := envStr("SELENIUMD_T_UNSET", "def"); got != "def" {
		t.Fatalf("envStr default=%q", got)
	}
	if !envBool("SELENIUMD_T_BOOL", false) {
		t.Fatalf("envBool yes -> false")
	}
	if !envBool("SELENIUMD_T_UNSET", true) {
		t.Fatalf("envBool default true -> false")
	}
	if got := envInt("SELENIUMD_T_INT", 0); got != 42 {
		t.Fatalf("envInt=%d", got)
	}
	if got := envInt("SELENIUMD_T_BAD", 7); got != 7 {
		t.Fatalf("envInt bad=%d", got)
	}
}
